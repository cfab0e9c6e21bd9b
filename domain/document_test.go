package domain

import (
	"errors"
	"testing"
	"time"
)

func testIndex(t *testing.T, fields FieldGroups) *IndexDefinition {
	t.Helper()
	index, err := NewIndexDefinition("pages",
		[]ClassRef{{
			Name:       "SiteTree",
			Subclasses: []string{"SiteTree", "Page", "NewsPage"},
			Hierarchy:  []string{"SiteTree"},
		}},
		fields,
	)
	if err != nil {
		t.Fatal(err)
	}
	return index
}

func TestDocumentBuilder_Build(t *testing.T) {
	edited := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	rec, err := NewRecord(7, "NewsPage", "Garden News", "All about gardens",
		[]string{"garden", "plants"}, edited, true, 4)
	if err != nil {
		t.Fatal(err)
	}

	index := testIndex(t, FieldGroups{
		Fulltext: []Field{
			{Name: "title", Kind: KindText},
			{Name: "content", Kind: KindText},
			{Name: "keywords", Kind: KindText},
		},
		Filter: []Field{{Name: "site_id", Kind: KindInt}},
		Sort:   []Field{{Name: "last_edited", Kind: KindDate}},
	})

	doc, err := NewDocumentBuilder(index).Build(rec)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if doc.Key() != "NewsPage-7" {
		t.Errorf("Key() = %q, want NewsPage-7", doc.Key())
	}
	if doc["class_name"] != "NewsPage" {
		t.Errorf("class_name = %v", doc["class_name"])
	}
	hierarchy, ok := doc["class_hierarchy"].([]string)
	if !ok || len(hierarchy) != 1 || hierarchy[0] != "SiteTree" {
		t.Errorf("class_hierarchy = %v, want [SiteTree]", doc["class_hierarchy"])
	}
	if doc["title"] != "Garden News" {
		t.Errorf("title = %v", doc["title"])
	}
	keywords, ok := doc["keywords"].([]string)
	if !ok || len(keywords) != 2 {
		t.Errorf("keywords = %v", doc["keywords"])
	}
	// Dates are normalized to UTC RFC3339.
	if doc["last_edited"] != "2026-03-01T08:30:00Z" {
		t.Errorf("last_edited = %v, want 2026-03-01T08:30:00Z", doc["last_edited"])
	}
	if doc["site_id"] != int64(4) {
		t.Errorf("site_id = %v (%T), want int64 4", doc["site_id"], doc["site_id"])
	}
}

func TestDocumentBuilder_Build_UnknownField(t *testing.T) {
	index := testIndex(t, FieldGroups{
		Fulltext: []Field{{Name: "nonexistent", Kind: KindText}},
	})
	rec, _ := NewRecord(1, "Page", "T", "C", nil, time.Now(), true, 1)

	_, err := NewDocumentBuilder(index).Build(rec)
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("Build() error = %v, want InvalidInputError", err)
	}
}

func TestDocumentBuilder_Build_UncoveredClass(t *testing.T) {
	index := testIndex(t, FieldGroups{})
	rec, _ := NewRecord(1, "Widget", "T", "C", nil, time.Now(), true, 1)

	_, err := NewDocumentBuilder(index).Build(rec)
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("Build() error = %v, want InvalidInputError", err)
	}
}

func TestFieldSetters(t *testing.T) {
	tests := []struct {
		name    string
		kind    FieldKind
		value   any
		want    any
		wantErr bool
	}{
		{name: "string", kind: KindString, value: "x", want: "x"},
		{name: "string from int", kind: KindString, value: 42, want: "42"},
		{name: "int from int", kind: KindInt, value: 42, want: int64(42)},
		{name: "int from string", kind: KindInt, value: "42", want: int64(42)},
		{name: "int from garbage", kind: KindInt, value: "forty-two", wantErr: true},
		{name: "float from int64", kind: KindFloat, value: int64(2), want: float64(2)},
		{name: "float from bool", kind: KindFloat, value: true, wantErr: true},
		{name: "bool", kind: KindBool, value: true, want: true},
		{name: "bool from string", kind: KindBool, value: "true", wantErr: true},
		{name: "date from string", kind: KindDate, value: "2026-03-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := SearchDocument{}
			err := fieldSetters[tt.kind](doc, "f", tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected conversion error")
				}
				return
			}
			if err != nil {
				t.Fatalf("setter error = %v", err)
			}
			if doc["f"] != tt.want {
				t.Errorf("doc[f] = %v (%T), want %v", doc["f"], doc["f"], tt.want)
			}
		})
	}
}
