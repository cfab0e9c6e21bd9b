package domain

import (
	"errors"
	"testing"
)

func newRegistry(t *testing.T) *IndexRegistry {
	t.Helper()
	registry := NewIndexRegistry()

	pages, err := NewIndexDefinition("pages",
		[]ClassRef{{
			Name:       "SiteTree",
			Subclasses: []string{"SiteTree", "Page", "NewsPage"},
			Hierarchy:  []string{"SiteTree"},
		}},
		FieldGroups{},
	)
	if err != nil {
		t.Fatal(err)
	}
	files, err := NewIndexDefinition("documents",
		[]ClassRef{{
			Name:       "File",
			Subclasses: []string{"File", "Image"},
			Hierarchy:  []string{"File"},
		}},
		FieldGroups{},
	)
	if err != nil {
		t.Fatal(err)
	}

	for _, def := range []*IndexDefinition{pages, files} {
		if err := registry.Register(def); err != nil {
			t.Fatal(err)
		}
	}
	return registry
}

func TestIndexRegistry_ResolveClass(t *testing.T) {
	registry := newRegistry(t)

	tests := []struct {
		name      string
		className string
		wantIndex string
		wantRoot  string
		wantErr   bool
	}{
		{name: "tree root", className: "SiteTree", wantIndex: "pages", wantRoot: "SiteTree"},
		{name: "subclass", className: "NewsPage", wantIndex: "pages", wantRoot: "SiteTree"},
		{name: "second index", className: "Image", wantIndex: "documents", wantRoot: "File"},
		{name: "unbound class", className: "Widget", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, ref, err := registry.ResolveClass(tt.className)
			if tt.wantErr {
				var invalid *InvalidInputError
				if !errors.As(err, &invalid) {
					t.Fatalf("ResolveClass() error = %v, want InvalidInputError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveClass() error = %v", err)
			}
			if index.Name() != tt.wantIndex {
				t.Errorf("index = %q, want %q", index.Name(), tt.wantIndex)
			}
			if ref.Name != tt.wantRoot {
				t.Errorf("class root = %q, want %q", ref.Name, tt.wantRoot)
			}
		})
	}
}

func TestIndexRegistry_Register_Duplicate(t *testing.T) {
	registry := newRegistry(t)
	dup, err := NewIndexDefinition("pages", []ClassRef{{Name: "X", Subclasses: []string{"X"}}}, FieldGroups{})
	if err != nil {
		t.Fatal(err)
	}
	if err := registry.Register(dup); err == nil {
		t.Fatal("Register() accepted a duplicate name")
	}
}

func TestIndexRegistry_Names_Order(t *testing.T) {
	registry := newRegistry(t)
	names := registry.Names()
	if len(names) != 2 || names[0] != "pages" || names[1] != "documents" {
		t.Errorf("Names() = %v, want registration order", names)
	}
}

func TestIndexRegistry_Get_Unknown(t *testing.T) {
	registry := newRegistry(t)
	_, err := registry.Get("nope")
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("Get() error = %v, want InvalidInputError", err)
	}
}

func TestNewIndexDefinition_Validation(t *testing.T) {
	if _, err := NewIndexDefinition("", []ClassRef{{Name: "X"}}, FieldGroups{}); err == nil {
		t.Error("empty name accepted")
	}
	if _, err := NewIndexDefinition("x", nil, FieldGroups{}); err == nil {
		t.Error("empty class list accepted")
	}
	if _, err := NewIndexDefinition("x", []ClassRef{{}}, FieldGroups{}); err == nil {
		t.Error("unnamed class binding accepted")
	}
}

func TestParseFieldKind(t *testing.T) {
	kind, err := ParseFieldKind("date")
	if err != nil || kind != KindDate {
		t.Errorf("ParseFieldKind(date) = %v, %v", kind, err)
	}
	if _, err := ParseFieldKind("blob"); err == nil {
		t.Error("ParseFieldKind(blob) did not fail")
	}
}
