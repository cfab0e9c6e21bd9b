package driver

import "time"

// RecordRow represents one CMS record row from the database.
type RecordRow struct {
	ID           int64
	ClassName    string
	Title        string
	Content      string
	Keywords     []string
	LastEdited   time.Time
	ShowInSearch bool
	SiteID       int64
}

// UpdateCommands is the wire-level form of one update request: the ordered
// operations sent to the engine's update endpoint in a single body. Debug
// echoes the encoded body into the logs before submission.
type UpdateCommands struct {
	Adds          []map[string]any
	DeleteIDs     []string
	DeleteQueries []string
	Commit        bool
	Debug         bool
}

// Empty reports whether the command set carries no operations.
func (c UpdateCommands) Empty() bool {
	return len(c.Adds) == 0 && len(c.DeleteIDs) == 0 && len(c.DeleteQueries) == 0
}

// SelectRequest is the wire-level form of one select query.
type SelectRequest struct {
	Query         string
	FilterQueries []string
	Sort          string
	Start         int
	Rows          int
	FacetFields   []string
	Spellcheck    bool
}

// SelectResponse mirrors the engine's select response JSON.
type SelectResponse struct {
	Header struct {
		Status int `json:"status"`
		QTime  int `json:"QTime"`
	} `json:"responseHeader"`
	Response struct {
		NumFound int64            `json:"numFound"`
		Start    int64            `json:"start"`
		Docs     []map[string]any `json:"docs"`
	} `json:"response"`
	FacetCounts *FacetCounts     `json:"facet_counts,omitempty"`
	Spellcheck  *SpellcheckBlock `json:"spellcheck,omitempty"`
}

// FacetCounts holds field facets as the engine returns them: a flat array
// alternating value and count per field.
type FacetCounts struct {
	FacetFields map[string][]any `json:"facet_fields"`
}

// SpellcheckBlock holds the engine's spellcheck section. Collations
// alternates the literal "collation" with either the collated string or an
// extended-results object carrying a collationQuery key.
type SpellcheckBlock struct {
	Suggestions []any `json:"suggestions"`
	Collations  []any `json:"collations"`
}

// Collation extracts the first collated suggestion, or "" when the engine
// offered none.
func (s *SpellcheckBlock) Collation() string {
	if s == nil {
		return ""
	}
	if c := firstCollation(s.Collations); c != "" {
		return c
	}
	// Older response format nests collations in the suggestions list.
	return firstCollation(s.Suggestions)
}

func firstCollation(entries []any) string {
	for i := 0; i+1 < len(entries); i += 2 {
		label, ok := entries[i].(string)
		if !ok || label != "collation" {
			continue
		}
		switch v := entries[i+1].(type) {
		case string:
			return v
		case map[string]any:
			if q, ok := v["collationQuery"].(string); ok {
				return q
			}
		}
	}
	return ""
}

// DriverError represents an error from the driver layer. Body carries the
// engine's response body when one was returned, for operator diagnostics.
type DriverError struct {
	Op   string
	Err  string
	Body string
}

func (e *DriverError) Error() string {
	if e.Body != "" {
		return e.Op + ": " + e.Err + ": " + e.Body
	}
	return e.Op + ": " + e.Err
}
