package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"solr-indexer/domain"
	"solr-indexer/internal/auth/middleware"
	"solr-indexer/logger"
	"solr-indexer/usecase"
	appOtel "solr-indexer/utils/otel"
)

// Handler contains all HTTP handlers for the indexer service
type Handler struct {
	searchUsecase  *usecase.SearchUsecase
	reindexUsecase *usecase.ReindexUsecase
}

// NewHandler creates a new Handler
func NewHandler(searchUsecase *usecase.SearchUsecase, reindexUsecase *usecase.ReindexUsecase) *Handler {
	return &Handler{
		searchUsecase:  searchUsecase,
		reindexUsecase: reindexUsecase,
	}
}

// RegisterRoutes mounts all routes on the echo instance. The reindex
// endpoint is guarded by service-token auth when a middleware is given.
func (h *Handler) RegisterRoutes(e *echo.Echo, authMW *middleware.AuthMiddleware) {
	e.GET("/health", h.Health)
	e.GET("/v1/search", h.Search)

	if authMW != nil {
		e.POST("/v1/reindex", h.Reindex, authMW.RequireServiceAuth())
	} else {
		e.POST("/v1/reindex", h.Reindex)
	}
}

type SearchResponse struct {
	Query     string                         `json:"query"`
	Total     int64                          `json:"total"`
	Hits      []domain.SearchDocument        `json:"hits"`
	Facets    map[string][]domain.FacetCount `json:"facets,omitempty"`
	Collation string                         `json:"collation,omitempty"`
	Retried   bool                           `json:"retried"`
}

func (h *Handler) Search(c echo.Context) error {
	indexName := c.QueryParam("index")
	if indexName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "index parameter required")
	}

	query, err := parseQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.searchUsecase.Search(c.Request().Context(), indexName, query)
	if err != nil {
		if _, ok := err.(*domain.InvalidInputError); ok {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		logger.Logger.Error("search request failed", "index", indexName, "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, SearchResponse{
		Query:     query.QueryString(),
		Total:     result.TotalHits,
		Hits:      result.Hits,
		Facets:    result.Facets,
		Collation: result.Collation,
		Retried:   result.Retried,
	})
}

// parseQuery converts request parameters into a search query. Terms carry
// optional trailing markers in user form: "garden~2" for fuzziness and
// "garden^5" for boost.
func parseQuery(c echo.Context) (*domain.SearchQuery, error) {
	query := &domain.SearchQuery{
		Start: intParam(c, "start", 0),
		Rows:  intParam(c, "rows", 10),
		Spellcheck: domain.SpellcheckOptions{
			Enabled:      boolParam(c, "spellcheck", false),
			AlwaysFollow: boolParam(c, "follow", false),
		},
	}

	for _, raw := range strings.Fields(c.QueryParam("q")) {
		term, err := parseTerm(raw)
		if err != nil {
			return nil, err
		}
		query.Terms = append(query.Terms, term)
	}

	for _, fq := range c.QueryParams()["fq"] {
		field, value, ok := strings.Cut(fq, ":")
		if !ok || field == "" {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "fq must be field:value")
		}
		query.Filters = append(query.Filters, domain.FieldFilter{Field: field, Value: value})
	}

	for _, s := range c.QueryParams()["sort"] {
		field, dir, _ := strings.Cut(s, " ")
		if field == "" {
			continue
		}
		query.Sorts = append(query.Sorts, domain.SortClause{Field: field, Desc: dir == "desc"})
	}

	query.Facets = append(query.Facets, c.QueryParams()["facet"]...)
	return query, nil
}

func parseTerm(raw string) (domain.SearchTerm, error) {
	term := domain.SearchTerm{Text: raw}

	if text, boost, ok := strings.Cut(term.Text, "^"); ok {
		b, err := strconv.ParseFloat(boost, 64)
		if err != nil {
			return term, echo.NewHTTPError(http.StatusBadRequest, "invalid boost in term "+raw)
		}
		term.Text = text
		term.Boost = b
	}
	if text, fuzz, ok := strings.Cut(term.Text, "~"); ok {
		f, err := strconv.Atoi(fuzz)
		if err != nil || f < 0 {
			return term, echo.NewHTTPError(http.StatusBadRequest, "invalid fuzziness in term "+raw)
		}
		term.Text = text
		term.Fuzzy = f
	}
	if term.Text == "" {
		return term, echo.NewHTTPError(http.StatusBadRequest, "empty term")
	}
	return term, nil
}

type ReindexRequest struct {
	Index      string `json:"index"`
	Class      string `json:"class"`
	StartGroup int    `json:"start_group"`
	Group      *int   `json:"group"`
	BatchSize  int    `json:"batch_size"`
	Scope      string `json:"scope"`
	Purge      bool   `json:"purge"`
	Debug      bool   `json:"debug"`
}

type ReindexResponse struct {
	GroupsProcessed  int                    `json:"groups_processed"`
	DocumentsIndexed int                    `json:"documents_indexed"`
	Skipped          []usecase.SkippedGroup `json:"skipped,omitempty"`
}

func (h *Handler) Reindex(c echo.Context) error {
	var req ReindexRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	scope, err := domain.ParseReadScope(req.Scope)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	opts := usecase.ReindexOptions{
		ClassName:  req.Class,
		StartGroup: req.StartGroup,
		Group:      -1,
		BatchSize:  req.BatchSize,
		Scope:      scope,
		Purge:      req.Purge,
		Debug:      req.Debug,
	}
	if req.Index != "" {
		opts.IndexNames = []string{req.Index}
	}
	if req.Group != nil {
		opts.Group = *req.Group
	}

	result, err := h.reindexUsecase.Execute(c.Request().Context(), opts)
	if err != nil {
		if _, ok := err.(*domain.InvalidInputError); ok {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		logger.Logger.Error("reindex request failed", "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "reindex failed")
	}

	appOtel.RecordReindexRun(c.Request().Context(), result.GroupsProcessed, result.DocumentsIndexed, len(result.Skipped))

	return c.JSON(http.StatusOK, ReindexResponse{
		GroupsProcessed:  result.GroupsProcessed,
		DocumentsIndexed: result.DocumentsIndexed,
		Skipped:          result.Skipped,
	})
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func intParam(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
	}
	return def
}

func boolParam(c echo.Context, name string, def bool) bool {
	if v := c.QueryParam(name); v != "" {
		return v == "true" || v == "1"
	}
	return def
}
