package domain

import (
	"strconv"
	"strings"
)

// SearchTerm is one free-text term with optional fuzziness (Levenshtein edit
// distance, 0 = exact) and optional boost (0 = none).
type SearchTerm struct {
	Text  string
	Fuzzy int
	Boost float64
}

// Encode renders the term in engine query-string form: text, then the
// fuzziness marker, then the boost marker.
func (t SearchTerm) Encode() string {
	var b strings.Builder
	b.WriteString(t.Text)
	if t.Fuzzy > 0 {
		b.WriteByte('~')
		b.WriteString(strconv.Itoa(t.Fuzzy))
	}
	if t.Boost > 0 {
		b.WriteByte('^')
		b.WriteString(strconv.FormatFloat(t.Boost, 'f', -1, 64))
	}
	return b.String()
}

// FieldFilter restricts results to documents whose field matches value.
type FieldFilter struct {
	Field string
	Value string
}

// Encode renders the filter as an engine filter query. Values containing
// whitespace are quoted.
func (f FieldFilter) Encode() string {
	v := f.Value
	if strings.ContainsAny(v, " \t") {
		v = strconv.Quote(v)
	}
	return f.Field + ":" + v
}

// SortClause is one sort field with direction.
type SortClause struct {
	Field string
	Desc  bool
}

func (s SortClause) Encode() string {
	if s.Desc {
		return s.Field + " desc"
	}
	return s.Field + " asc"
}

// SpellcheckOptions controls the spellcheck retry behaviour of a query.
type SpellcheckOptions struct {
	// Enabled asks the engine for a collated suggestion.
	Enabled bool
	// AlwaysFollow retries with the collation even when the original query
	// had hits.
	AlwaysFollow bool
}

// SearchQuery is the user-supplied search intent. It is immutable once
// execution starts, except for the single rewrite performed by the
// spellcheck retry: the first term is replaced and the retry flag set, after
// which no further rewrite can occur.
type SearchQuery struct {
	Terms      []SearchTerm
	Filters    []FieldFilter
	Sorts      []SortClause
	Facets     []string
	Start      int
	Rows       int
	Spellcheck SpellcheckOptions

	retry bool
}

// QueryString joins all terms into the engine's query-string form. An empty
// term list matches everything.
func (q *SearchQuery) QueryString() string {
	if len(q.Terms) == 0 {
		return "*:*"
	}
	parts := make([]string, len(q.Terms))
	for i, t := range q.Terms {
		parts[i] = t.Encode()
	}
	return strings.Join(parts, " ")
}

// IsRetry reports whether this execution is the spellcheck retry.
func (q *SearchQuery) IsRetry() bool {
	return q.retry
}

// MarkRetry sets the retry flag. Once set it is never cleared: at most one
// retry per original query.
func (q *SearchQuery) MarkRetry() {
	q.retry = true
}

// ReplaceFirstTerm swaps the first term's text for the spell-corrected
// suggestion, dropping its fuzziness so the corrected term is matched
// exactly.
func (q *SearchQuery) ReplaceFirstTerm(text string) {
	if len(q.Terms) == 0 {
		q.Terms = []SearchTerm{{Text: text}}
		return
	}
	q.Terms[0].Text = text
	q.Terms[0].Fuzzy = 0
}

// HasFilter reports whether a filter on field is already present.
func (q *SearchQuery) HasFilter(field string) bool {
	for _, f := range q.Filters {
		if f.Field == field {
			return true
		}
	}
	return false
}
