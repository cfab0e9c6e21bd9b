package usecase

import (
	"context"
	"fmt"
	"time"

	"solr-indexer/domain"
)

// Mock implementations shared by the usecase tests.

func newTestRegistry() *domain.IndexRegistry {
	registry := domain.NewIndexRegistry()

	pages, err := domain.NewIndexDefinition("pages",
		[]domain.ClassRef{{
			Name:       "SiteTree",
			Subclasses: []string{"SiteTree", "Page", "NewsPage"},
			Hierarchy:  []string{"SiteTree"},
		}},
		domain.FieldGroups{
			Fulltext: []domain.Field{
				{Name: "title", Kind: domain.KindText, Boost: 2},
				{Name: "content", Kind: domain.KindText},
			},
			Facet: []string{"class_name"},
		},
	)
	if err != nil {
		panic(err)
	}
	if err := registry.Register(pages); err != nil {
		panic(err)
	}
	return registry
}

func newTestRecord(id int64, className string) *domain.Record {
	rec, err := domain.NewRecord(id, className,
		fmt.Sprintf("Title %d", id), fmt.Sprintf("Content %d", id),
		nil, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), true, 1)
	if err != nil {
		panic(err)
	}
	return rec
}

func newTestRecords(n int, className string) []*domain.Record {
	records := make([]*domain.Record, n)
	for i := range records {
		records[i] = newTestRecord(int64(i+1), className)
	}
	return records
}

type mockRecordRepo struct {
	records  []*domain.Record
	countErr error
	pageErr  map[int]error // keyed by offset
	byIDErr  map[int64]error
}

func (m *mockRecordRepo) CountRecords(ctx context.Context, class domain.ClassRef, scope domain.ReadScope) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.records), nil
}

func (m *mockRecordRepo) GetRecordsPage(ctx context.Context, class domain.ClassRef, offset, limit int, scope domain.ReadScope) ([]*domain.Record, error) {
	if err, ok := m.pageErr[offset]; ok {
		return nil, err
	}
	if offset >= len(m.records) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.records) {
		end = len(m.records)
	}
	return m.records[offset:end], nil
}

func (m *mockRecordRepo) GetRecordByID(ctx context.Context, className string, id int64, scope domain.ReadScope) (*domain.Record, error) {
	if err, ok := m.byIDErr[id]; ok {
		return nil, err
	}
	for _, rec := range m.records {
		if rec.ClassName() == className && rec.ID() == id {
			return rec, nil
		}
	}
	return nil, &domain.RepositoryError{Op: "GetRecordByID", Err: "not found"}
}

type submission struct {
	index string
	req   *domain.UpdateRequest
}

type mockSearchEngine struct {
	submissions []submission
	// failOnCall fails the nth SubmitUpdate call (0-based).
	failOnCall map[int]error

	searchResults []*domain.SearchResult
	searchErr     error
	searchQueries []string

	synonyms map[string][]string
}

func (m *mockSearchEngine) SubmitUpdate(ctx context.Context, indexName string, req *domain.UpdateRequest) error {
	call := len(m.submissions)
	if err, ok := m.failOnCall[call]; ok {
		m.submissions = append(m.submissions, submission{index: indexName, req: nil})
		return err
	}
	m.submissions = append(m.submissions, submission{index: indexName, req: req})
	return nil
}

func (m *mockSearchEngine) Search(ctx context.Context, index *domain.IndexDefinition, query *domain.SearchQuery) (*domain.SearchResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	m.searchQueries = append(m.searchQueries, query.QueryString())

	if len(m.searchResults) == 0 {
		return &domain.SearchResult{Retried: query.IsRetry()}, nil
	}
	result := m.searchResults[0]
	m.searchResults = m.searchResults[1:]
	result.Retried = query.IsRetry()
	return result, nil
}

func (m *mockSearchEngine) Ping(ctx context.Context, indexName string) error {
	return nil
}

func (m *mockSearchEngine) RegisterSynonyms(ctx context.Context, indexName string, synonyms map[string][]string) error {
	m.synonyms = synonyms
	return nil
}

// succeeded returns the submissions that reached the engine.
func (m *mockSearchEngine) succeeded() []submission {
	var out []submission
	for _, s := range m.submissions {
		if s.req != nil {
			out = append(out, s)
		}
	}
	return out
}
