package domain

// FacetCount is one facet value with its document count.
type FacetCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// SearchResult wraps one engine response. After a spellcheck retry the
// Collation field holds the collation of the original query, not the retried
// one, so callers always render "did you mean" against what the user typed.
type SearchResult struct {
	TotalHits int64
	Hits      []SearchDocument
	Facets    map[string][]FacetCount
	Collation string
	Retried   bool
}
