package driver

import "testing"

func TestSpellcheckBlock_Collation(t *testing.T) {
	tests := []struct {
		name  string
		block *SpellcheckBlock
		want  string
	}{
		{
			name:  "nil block",
			block: nil,
			want:  "",
		},
		{
			name:  "collations as string",
			block: &SpellcheckBlock{Collations: []any{"collation", "garten"}},
			want:  "garten",
		},
		{
			name: "collations as extended results",
			block: &SpellcheckBlock{Collations: []any{
				"collation", map[string]any{"collationQuery": "garten", "hits": float64(3)},
			}},
			want: "garten",
		},
		{
			name: "legacy format in suggestions",
			block: &SpellcheckBlock{Suggestions: []any{
				"garden", map[string]any{"numFound": float64(1)},
				"collation", "garten",
			}},
			want: "garten",
		},
		{
			name:  "no collation offered",
			block: &SpellcheckBlock{Suggestions: []any{"garden", map[string]any{}}},
			want:  "",
		},
		{
			name: "first collation wins",
			block: &SpellcheckBlock{Collations: []any{
				"collation", "garten",
				"collation", "garden",
			}},
			want: "garten",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.Collation(); got != tt.want {
				t.Errorf("Collation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDriverError_Error(t *testing.T) {
	plain := &DriverError{Op: "Select", Err: "boom"}
	if plain.Error() != "Select: boom" {
		t.Errorf("Error() = %q", plain.Error())
	}
	withBody := &DriverError{Op: "Select", Err: "engine returned 400", Body: `{"error":"undefined field"}`}
	if withBody.Error() != `Select: engine returned 400: {"error":"undefined field"}` {
		t.Errorf("Error() = %q", withBody.Error())
	}
}
