package gateway

import (
	"context"
	"strings"

	"solr-indexer/domain"
	"solr-indexer/driver"
)

// synonymResource is the engine-side managed resource synonyms are pushed to.
const synonymResource = "default"

// SolrClient is the engine-side contract the gateway adapts from.
type SolrClient interface {
	SubmitUpdate(ctx context.Context, core string, cmds driver.UpdateCommands) error
	Select(ctx context.Context, core string, req driver.SelectRequest) (*driver.SelectResponse, error)
	Ping(ctx context.Context, core string) error
	UpdateSynonyms(ctx context.Context, core, resource string, synonyms map[string][]string) error
}

type SearchEngineGateway struct {
	client SolrClient
}

func NewSearchEngineGateway(client SolrClient) *SearchEngineGateway {
	return &SearchEngineGateway{
		client: client,
	}
}

func (g *SearchEngineGateway) SubmitUpdate(ctx context.Context, indexName string, req *domain.UpdateRequest) error {
	if req.Empty() {
		return nil
	}

	cmds := driver.UpdateCommands{
		DeleteIDs:     req.DeleteIDs(),
		DeleteQueries: req.DeleteQueries(),
		Commit:        req.HasCommit(),
		Debug:         req.Debug(),
	}
	cmds.Adds = make([]map[string]any, len(req.Adds()))
	for i, doc := range req.Adds() {
		cmds.Adds[i] = map[string]any(doc)
	}

	if err := g.client.SubmitUpdate(ctx, indexName, cmds); err != nil {
		return &domain.SearchEngineError{
			Op:  "SubmitUpdate",
			Err: err.Error(),
		}
	}
	return nil
}

func (g *SearchEngineGateway) Search(ctx context.Context, index *domain.IndexDefinition, query *domain.SearchQuery) (*domain.SearchResult, error) {
	resp, err := g.client.Select(ctx, index.Name(), buildSelectRequest(index, query))
	if err != nil {
		return nil, &domain.SearchEngineError{
			Op:  "Search",
			Err: err.Error(),
		}
	}
	return convertResult(resp, query), nil
}

func (g *SearchEngineGateway) Ping(ctx context.Context, indexName string) error {
	if err := g.client.Ping(ctx, indexName); err != nil {
		return &domain.SearchEngineError{
			Op:  "Ping",
			Err: err.Error(),
		}
	}
	return nil
}

func (g *SearchEngineGateway) RegisterSynonyms(ctx context.Context, indexName string, synonyms map[string][]string) error {
	if len(synonyms) == 0 {
		return nil
	}
	if err := g.client.UpdateSynonyms(ctx, indexName, synonymResource, synonyms); err != nil {
		return &domain.SearchEngineError{
			Op:  "RegisterSynonyms",
			Err: err.Error(),
		}
	}
	return nil
}

// buildSelectRequest maps the domain query onto the engine's select
// parameters. Every query is scoped to the index's class trees via a
// class_hierarchy filter so one core can serve several indexes.
func buildSelectRequest(index *domain.IndexDefinition, query *domain.SearchQuery) driver.SelectRequest {
	req := driver.SelectRequest{
		Query:      query.QueryString(),
		Start:      query.Start,
		Rows:       query.Rows,
		Spellcheck: query.Spellcheck.Enabled,
	}

	req.FilterQueries = append(req.FilterQueries, classFilter(index))
	for _, f := range query.Filters {
		req.FilterQueries = append(req.FilterQueries, f.Encode())
	}

	if len(query.Sorts) > 0 {
		parts := make([]string, len(query.Sorts))
		for i, s := range query.Sorts {
			parts[i] = s.Encode()
		}
		req.Sort = strings.Join(parts, ", ")
	}

	req.FacetFields = query.Facets
	if len(req.FacetFields) == 0 {
		req.FacetFields = index.FacetFields()
	}

	return req
}

func classFilter(index *domain.IndexDefinition) string {
	classes := index.Classes()
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Name
	}
	if len(names) == 1 {
		return "class_hierarchy:" + names[0]
	}
	return "class_hierarchy:(" + strings.Join(names, " OR ") + ")"
}

func convertResult(resp *driver.SelectResponse, query *domain.SearchQuery) *domain.SearchResult {
	result := &domain.SearchResult{
		TotalHits: resp.Response.NumFound,
		Hits:      make([]domain.SearchDocument, len(resp.Response.Docs)),
		Collation: resp.Spellcheck.Collation(),
		Retried:   query.IsRetry(),
	}
	for i, doc := range resp.Response.Docs {
		result.Hits[i] = domain.SearchDocument(doc)
	}

	if resp.FacetCounts != nil && len(resp.FacetCounts.FacetFields) > 0 {
		result.Facets = make(map[string][]domain.FacetCount, len(resp.FacetCounts.FacetFields))
		for field, flat := range resp.FacetCounts.FacetFields {
			result.Facets[field] = convertFacet(flat)
		}
	}
	return result
}

// convertFacet decodes the engine's flat alternating value/count array.
func convertFacet(flat []any) []domain.FacetCount {
	counts := make([]domain.FacetCount, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		value, ok := flat[i].(string)
		if !ok {
			continue
		}
		count, ok := flat[i+1].(float64)
		if !ok {
			continue
		}
		counts = append(counts, domain.FacetCount{Value: value, Count: int64(count)})
	}
	return counts
}
