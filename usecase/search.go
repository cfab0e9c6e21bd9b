package usecase

import (
	"context"
	"log/slog"
	"regexp"

	"solr-indexer/domain"
	"solr-indexer/port"
)

// SearchHook observes the query before execution, in registration order. A
// hook may mutate the query but cannot alter control flow.
type SearchHook func(*domain.SearchQuery)

// ResultHook observes the final result, in registration order.
type ResultHook func(*domain.SearchResult)

// fuzzyMarker matches edit-distance suffixes the engine echoes back in
// collated suggestions, e.g. "garten~2".
var fuzzyMarker = regexp.MustCompile(`~[0-9.]+`)

// SearchUsecase builds and executes queries and owns the spellcheck retry:
// a completed query is re-executed with the engine's collated suggestion
// exactly once, and the returned result keeps the original collation so
// callers render "did you mean" against what the user actually typed.
type SearchUsecase struct {
	engine   port.SearchEngine
	registry *domain.IndexRegistry
	logger   *slog.Logger

	ambientFilters []domain.FieldFilter
	preSearch      []SearchHook
	postSearch     []ResultHook
}

func NewSearchUsecase(engine port.SearchEngine, registry *domain.IndexRegistry, log *slog.Logger) *SearchUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &SearchUsecase{
		engine:   engine,
		registry: registry,
		logger:   log,
	}
}

// WithAmbientFilter adds a site/context filter applied to every query before
// execution.
func (u *SearchUsecase) WithAmbientFilter(f domain.FieldFilter) *SearchUsecase {
	u.ambientFilters = append(u.ambientFilters, f)
	return u
}

func (u *SearchUsecase) RegisterPreSearchHook(h SearchHook) {
	u.preSearch = append(u.preSearch, h)
}

func (u *SearchUsecase) RegisterPostSearchHook(h ResultHook) {
	u.postSearch = append(u.postSearch, h)
}

// Search executes the query against the named index. Transport and engine
// errors are logged and re-raised; the caller decides whether to abort.
func (u *SearchUsecase) Search(ctx context.Context, indexName string, query *domain.SearchQuery) (*domain.SearchResult, error) {
	index, err := u.registry.Get(indexName)
	if err != nil {
		return nil, err
	}

	for _, f := range u.ambientFilters {
		if !query.HasFilter(f.Field) {
			query.Filters = append(query.Filters, f)
		}
	}
	for _, h := range u.preSearch {
		h(query)
	}

	result, err := u.doSearch(ctx, index, query, 0)
	if err != nil {
		return nil, err
	}

	for _, h := range u.postSearch {
		h(result)
	}
	return result, nil
}

// doSearch executes one query and, when the retry guard holds, recurses
// exactly once with the spell-corrected term. The retry flag prevents a
// second transition even if the corrected query yields a collation of its
// own; the depth check backs the flag up with a hard bound.
func (u *SearchUsecase) doSearch(ctx context.Context, index *domain.IndexDefinition, query *domain.SearchQuery, depth int) (*domain.SearchResult, error) {
	if depth > 1 {
		return nil, &domain.SearchEngineError{
			Op:  "doSearch",
			Err: "spellcheck retry depth exceeded",
		}
	}

	result, err := u.engine.Search(ctx, index, query)
	if err != nil {
		u.logger.Error("search failed",
			"index", index.Name(),
			"query", query.QueryString(),
			"err", err,
		)
		return nil, err
	}

	if !u.shouldRetry(query, result) {
		return result, nil
	}

	originalCollation := result.Collation
	corrected := fuzzyMarker.ReplaceAllString(originalCollation, "")

	u.logger.Info("following spellcheck collation",
		"index", index.Name(),
		"collation", corrected,
	)

	query.ReplaceFirstTerm(corrected)
	query.MarkRetry()

	retried, err := u.doSearch(ctx, index, query, depth+1)
	if err != nil {
		return nil, err
	}
	retried.Collation = originalCollation
	return retried, nil
}

// shouldRetry is the ORIGINAL → RETRIED transition guard: not already a
// retry, spellcheck enabled, suggestions always followed or zero hits, and a
// non-empty collation returned.
func (u *SearchUsecase) shouldRetry(query *domain.SearchQuery, result *domain.SearchResult) bool {
	if query.IsRetry() {
		return false
	}
	if !query.Spellcheck.Enabled {
		return false
	}
	if !query.Spellcheck.AlwaysFollow && result.TotalHits > 0 {
		return false
	}
	return result.Collation != ""
}
