package usecase

import (
	"context"
	"testing"

	"solr-indexer/domain"
)

func fuzzyQuery(text string, fuzz int) *domain.SearchQuery {
	return &domain.SearchQuery{
		Terms:      []domain.SearchTerm{{Text: text, Fuzzy: fuzz}},
		Rows:       10,
		Spellcheck: domain.SpellcheckOptions{Enabled: true},
	}
}

func TestSearchUsecase_SpellcheckRetry(t *testing.T) {
	engine := &mockSearchEngine{
		searchResults: []*domain.SearchResult{
			{TotalHits: 0, Collation: "garten~2"},
			{TotalHits: 7},
		},
	}
	u := NewSearchUsecase(engine, newTestRegistry(), nil)

	result, err := u.Search(context.Background(), "pages", fuzzyQuery("garden", 2))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(engine.searchQueries) != 2 {
		t.Fatalf("engine executed %d queries, want 2", len(engine.searchQueries))
	}
	if engine.searchQueries[0] != "garden~2" {
		t.Errorf("original query = %q, want garden~2", engine.searchQueries[0])
	}
	// The retry strips the edit-distance marker from the collation.
	if engine.searchQueries[1] != "garten" {
		t.Errorf("retried query = %q, want garten", engine.searchQueries[1])
	}

	if !result.Retried {
		t.Error("result not marked as retried")
	}
	if result.TotalHits != 7 {
		t.Errorf("TotalHits = %d, want 7", result.TotalHits)
	}
	// The caller renders "did you mean" from the original collation.
	if result.Collation != "garten~2" {
		t.Errorf("Collation = %q, want original garten~2", result.Collation)
	}
}

func TestSearchUsecase_NeverRetriesTwice(t *testing.T) {
	// Both executions return a collation; only one retry may happen.
	engine := &mockSearchEngine{
		searchResults: []*domain.SearchResult{
			{TotalHits: 0, Collation: "first"},
			{TotalHits: 0, Collation: "second"},
			{TotalHits: 0, Collation: "third"},
		},
	}
	u := NewSearchUsecase(engine, newTestRegistry(), nil)

	result, err := u.Search(context.Background(), "pages", fuzzyQuery("garden", 0))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(engine.searchQueries) != 2 {
		t.Fatalf("engine executed %d queries, want exactly 2", len(engine.searchQueries))
	}
	if result.Collation != "first" {
		t.Errorf("Collation = %q, want first", result.Collation)
	}
}

func TestSearchUsecase_RetryGuard(t *testing.T) {
	tests := []struct {
		name       string
		spellcheck domain.SpellcheckOptions
		result     domain.SearchResult
		wantRetry  bool
	}{
		{
			name:       "spellcheck disabled",
			spellcheck: domain.SpellcheckOptions{},
			result:     domain.SearchResult{TotalHits: 0, Collation: "garten"},
			wantRetry:  false,
		},
		{
			name:       "hits found, not always following",
			spellcheck: domain.SpellcheckOptions{Enabled: true},
			result:     domain.SearchResult{TotalHits: 3, Collation: "garten"},
			wantRetry:  false,
		},
		{
			name:       "hits found, always following",
			spellcheck: domain.SpellcheckOptions{Enabled: true, AlwaysFollow: true},
			result:     domain.SearchResult{TotalHits: 3, Collation: "garten"},
			wantRetry:  true,
		},
		{
			name:       "no collation offered",
			spellcheck: domain.SpellcheckOptions{Enabled: true},
			result:     domain.SearchResult{TotalHits: 0},
			wantRetry:  false,
		},
		{
			name:       "zero hits with collation",
			spellcheck: domain.SpellcheckOptions{Enabled: true},
			result:     domain.SearchResult{TotalHits: 0, Collation: "garten"},
			wantRetry:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := tt.result
			engine := &mockSearchEngine{
				searchResults: []*domain.SearchResult{&first, {TotalHits: 1}},
			}
			u := NewSearchUsecase(engine, newTestRegistry(), nil)

			query := &domain.SearchQuery{
				Terms:      []domain.SearchTerm{{Text: "garden"}},
				Spellcheck: tt.spellcheck,
			}
			if _, err := u.Search(context.Background(), "pages", query); err != nil {
				t.Fatalf("Search() error = %v", err)
			}

			gotRetry := len(engine.searchQueries) == 2
			if gotRetry != tt.wantRetry {
				t.Errorf("retried = %v, want %v (queries: %v)", gotRetry, tt.wantRetry, engine.searchQueries)
			}
		})
	}
}

func TestSearchUsecase_AmbientFilter(t *testing.T) {
	engine := &mockSearchEngine{}
	u := NewSearchUsecase(engine, newTestRegistry(), nil)
	u.WithAmbientFilter(domain.FieldFilter{Field: "site_id", Value: "4"})

	query := &domain.SearchQuery{Terms: []domain.SearchTerm{{Text: "garden"}}}
	if _, err := u.Search(context.Background(), "pages", query); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !query.HasFilter("site_id") {
		t.Error("ambient filter not applied")
	}

	// An explicit filter on the same field wins over the ambient one.
	explicit := &domain.SearchQuery{
		Terms:   []domain.SearchTerm{{Text: "garden"}},
		Filters: []domain.FieldFilter{{Field: "site_id", Value: "9"}},
	}
	if _, err := u.Search(context.Background(), "pages", explicit); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(explicit.Filters) != 1 {
		t.Errorf("filters = %v, ambient filter must not duplicate", explicit.Filters)
	}
}

func TestSearchUsecase_EngineErrorSurfaces(t *testing.T) {
	engine := &mockSearchEngine{
		searchErr: &domain.SearchEngineError{Op: "Search", Err: "engine down"},
	}
	u := NewSearchUsecase(engine, newTestRegistry(), nil)

	_, err := u.Search(context.Background(), "pages", fuzzyQuery("garden", 0))
	if err == nil {
		t.Fatal("Search() did not surface the engine error")
	}
}

func TestSearchUsecase_UnknownIndex(t *testing.T) {
	u := NewSearchUsecase(&mockSearchEngine{}, newTestRegistry(), nil)

	_, err := u.Search(context.Background(), "nope", fuzzyQuery("garden", 0))
	if err == nil {
		t.Fatal("Search() accepted an unknown index")
	}
}

func TestSearchUsecase_Hooks(t *testing.T) {
	engine := &mockSearchEngine{}
	u := NewSearchUsecase(engine, newTestRegistry(), nil)

	var order []string
	u.RegisterPreSearchHook(func(q *domain.SearchQuery) { order = append(order, "pre-a") })
	u.RegisterPreSearchHook(func(q *domain.SearchQuery) { order = append(order, "pre-b") })
	u.RegisterPostSearchHook(func(r *domain.SearchResult) { order = append(order, "post") })

	if _, err := u.Search(context.Background(), "pages", fuzzyQuery("garden", 0)); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	want := []string{"pre-a", "pre-b", "post"}
	if len(order) != len(want) {
		t.Fatalf("hook order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("hook order = %v, want %v", order, want)
		}
	}
}
