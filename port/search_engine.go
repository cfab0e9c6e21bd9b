package port

import (
	"context"

	"solr-indexer/domain"
)

// SearchEngine is the transport boundary to the search engine.
type SearchEngine interface {
	// SubmitUpdate sends one accumulated update request to the named index.
	// An empty request issues nothing.
	SubmitUpdate(ctx context.Context, indexName string, req *domain.UpdateRequest) error
	// Search executes the query against the index and returns the parsed
	// result.
	Search(ctx context.Context, index *domain.IndexDefinition, query *domain.SearchQuery) (*domain.SearchResult, error)
	// Ping verifies the index is reachable.
	Ping(ctx context.Context, indexName string) error
	// RegisterSynonyms uploads synonym groups to the index.
	RegisterSynonyms(ctx context.Context, indexName string, synonyms map[string][]string) error
}
