package usecase

import (
	"context"
	"log/slog"
	"time"

	"solr-indexer/domain"
	"solr-indexer/port"
	"solr-indexer/synonym"

	"github.com/google/uuid"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// BatchHook is invoked around each indexing batch, in registration order. A
// hook observes the pipeline; it cannot alter control flow.
type BatchHook func(ctx context.Context, class string, group int)

// ReindexOptions are the task parameters of one re-indexing run.
type ReindexOptions struct {
	// IndexNames selects target indexes; empty means all registered indexes.
	IndexNames []string
	// ClassName restricts the run to one class binding.
	ClassName string
	// StartGroup is the first group processed (0 when unset).
	StartGroup int
	// Group, when >= 0, processes exactly one batch at that group. Used for
	// externally parallelized runs: one invocation per group.
	Group int
	// BatchSize overrides the configured batch length when > 0.
	BatchSize int
	// Scope selects which content stage records are read from.
	Scope domain.ReadScope
	// Purge clears each class tree from its index before re-seeding.
	Purge bool
	// Debug is propagated into every update request.
	Debug bool
}

// SkippedGroup records one batch that failed and was skipped. The run is
// lossy by design: failed groups are not retried within a run, so the list
// is surfaced to the operator for re-targeting with an explicit group.
type SkippedGroup struct {
	Index string `json:"index"`
	Class string `json:"class"`
	Group int    `json:"group"`
	Err   string `json:"error"`
}

// ReindexResult summarizes one run.
type ReindexResult struct {
	GroupsProcessed  int
	DocumentsIndexed int
	Skipped          []SkippedGroup
}

// ReindexUsecase drives the batched re-indexing pipeline: it paginates each
// class's records into fixed-size groups, builds documents and submits
// grouped update+commit operations. A failed batch is logged and skipped;
// the run continues with the next group.
type ReindexUsecase struct {
	records   port.RecordRepository
	engine    port.SearchEngine
	registry  *domain.IndexRegistry
	builder   *UpdateBuilder
	tokenizer *tokenizer.Tokenizer
	batchSize int
	logger    *slog.Logger

	// trim releases freeable working state between batches; pagination over
	// millions of records must not accumulate retained state across groups.
	trim func()

	preBatch  []BatchHook
	postBatch []BatchHook
}

func NewReindexUsecase(records port.RecordRepository, engine port.SearchEngine, registry *domain.IndexRegistry, batchSize int, log *slog.Logger) *ReindexUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &ReindexUsecase{
		records:   records,
		engine:    engine,
		registry:  registry,
		builder:   NewUpdateBuilder(registry),
		batchSize: batchSize,
		logger:    log,
	}
}

// WithTokenizer enables synonym registration for CJK keywords.
func (u *ReindexUsecase) WithTokenizer(t *tokenizer.Tokenizer) *ReindexUsecase {
	u.tokenizer = t
	return u
}

// WithTrimHook installs the opaque working-set trim hook invoked around
// every batch.
func (u *ReindexUsecase) WithTrimHook(trim func()) *ReindexUsecase {
	u.trim = trim
	return u
}

func (u *ReindexUsecase) RegisterPreBatchHook(h BatchHook) {
	u.preBatch = append(u.preBatch, h)
}

func (u *ReindexUsecase) RegisterPostBatchHook(h BatchHook) {
	u.postBatch = append(u.postBatch, h)
}

// Execute runs one re-indexing pass over the selected indexes and classes.
// Precondition failures (unknown index, unresolvable class binding) abort
// the run; batch-level transport failures are skipped and reported.
func (u *ReindexUsecase) Execute(ctx context.Context, opts ReindexOptions) (*ReindexResult, error) {
	runID := uuid.NewString()
	start := time.Now()

	batchLen := u.batchSize
	if opts.BatchSize > 0 {
		batchLen = opts.BatchSize
	}
	if batchLen <= 0 {
		return nil, &domain.InvalidInputError{
			Op:  "ReindexUsecase.Execute",
			Err: "batch length must be positive",
		}
	}

	indexNames := opts.IndexNames
	if len(indexNames) == 0 {
		indexNames = u.registry.Names()
	}

	log := u.logger.With("run_id", runID, "scope", opts.Scope.String())
	log.Info("reindex run started",
		"indexes", indexNames,
		"class", opts.ClassName,
		"batch_length", batchLen,
	)

	result := &ReindexResult{}
	for _, name := range indexNames {
		index, err := u.registry.Get(name)
		if err != nil {
			return nil, err
		}
		for _, class := range index.Classes() {
			if opts.ClassName != "" && class.Name != opts.ClassName {
				continue
			}
			if err := u.reindexClass(ctx, log, index, class, batchLen, opts, result); err != nil {
				return nil, err
			}
		}
	}

	log.Info("reindex run finished",
		"groups_processed", result.GroupsProcessed,
		"documents_indexed", result.DocumentsIndexed,
		"groups_skipped", len(result.Skipped),
		"elapsed", time.Since(start).String(),
	)
	return result, nil
}

func (u *ReindexUsecase) reindexClass(ctx context.Context, log *slog.Logger, index *domain.IndexDefinition, class domain.ClassRef, batchLen int, opts ReindexOptions, result *ReindexResult) error {
	if opts.Purge {
		req, indexName, err := u.builder.Build(class.Name, nil, domain.UpdateOpDeleteAll)
		if err != nil {
			return err
		}
		req.SetDebug(opts.Debug)
		if err := u.engine.SubmitUpdate(ctx, indexName, req); err != nil {
			return err
		}
		log.Info("purged class from index", "index", indexName, "class", class.Name)
	}

	if opts.Group >= 0 {
		// Single-batch mode: one group, then stop.
		u.processGroup(ctx, log, index, class, opts.Group, batchLen, opts, result)
		return nil
	}

	count, err := u.records.CountRecords(ctx, class, opts.Scope)
	if err != nil {
		return err
	}

	// The loop runs through ceil(count/batchLen) inclusive; the final group
	// fetches an empty page and issues nothing.
	totalGroups := (count + batchLen - 1) / batchLen
	log.Info("reindexing class",
		"index", index.Name(),
		"class", class.Name,
		"records", count,
		"groups", totalGroups,
	)

	for group := opts.StartGroup; group <= totalGroups; group++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		u.processGroup(ctx, log, index, class, group, batchLen, opts, result)
	}
	return nil
}

// processGroup fetches, converts and submits one batch. Transport failures
// are logged and recorded as skipped; the caller advances to the next group.
func (u *ReindexUsecase) processGroup(ctx context.Context, log *slog.Logger, index *domain.IndexDefinition, class domain.ClassRef, group, batchLen int, opts ReindexOptions, result *ReindexResult) {
	if u.trim != nil {
		u.trim()
	}
	defer func() {
		if u.trim != nil {
			u.trim()
		}
	}()

	for _, h := range u.preBatch {
		h(ctx, class.Name, group)
	}
	defer func() {
		for _, h := range u.postBatch {
			h(ctx, class.Name, group)
		}
	}()

	records, err := u.records.GetRecordsPage(ctx, class, group*batchLen, batchLen, opts.Scope)
	if err != nil {
		u.skipGroup(log, index, class, group, err, result)
		return
	}
	if len(records) == 0 {
		return
	}

	builder := domain.NewDocumentBuilder(index)
	docs := make([]domain.SearchDocument, 0, len(records))
	for _, rec := range records {
		if !rec.ShowInSearch() {
			continue
		}
		doc, err := builder.Build(rec)
		if err != nil {
			u.skipGroup(log, index, class, group, err, result)
			return
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return
	}

	req, indexName, err := u.builder.Build(class.Name, docs, domain.UpdateOpUpdate)
	if err != nil {
		// Precondition failure: surface it in the skip list but do not
		// retry. The binding was already resolved once per run, so this is
		// unreachable in practice.
		u.skipGroup(log, index, class, group, err, result)
		return
	}
	req.SetDebug(opts.Debug)

	if err := u.engine.SubmitUpdate(ctx, indexName, req); err != nil {
		u.skipGroup(log, index, class, group, err, result)
		return
	}

	result.GroupsProcessed++
	result.DocumentsIndexed += len(docs)
	log.Info("indexed group",
		"index", indexName,
		"class", class.Name,
		"group", group,
		"documents", len(docs),
	)

	u.registerSynonyms(ctx, log, indexName, records)
}

// skipGroup implements the availability-over-completeness failure policy: a
// single bad batch must not block the remainder of the run.
func (u *ReindexUsecase) skipGroup(log *slog.Logger, index *domain.IndexDefinition, class domain.ClassRef, group int, err error, result *ReindexResult) {
	log.Error("group failed, skipping",
		"index", index.Name(),
		"class", class.Name,
		"group", group,
		"err", err,
	)
	result.Skipped = append(result.Skipped, SkippedGroup{
		Index: index.Name(),
		Class: class.Name,
		Group: group,
		Err:   err.Error(),
	})
}

// registerSynonyms derives synonym groups from the batch's record keywords
// and pushes them to the engine. Failures are logged, never fatal.
func (u *ReindexUsecase) registerSynonyms(ctx context.Context, log *slog.Logger, indexName string, records []*domain.Record) {
	if u.tokenizer == nil {
		return
	}
	synonyms := make(map[string][]string)
	for _, rec := range records {
		for k, v := range synonym.FromKeywords(u.tokenizer, rec.Keywords()) {
			synonyms[k] = v
		}
	}
	if len(synonyms) == 0 {
		return
	}
	if err := u.engine.RegisterSynonyms(ctx, indexName, synonyms); err != nil {
		log.Error("synonym registration failed", "index", indexName, "err", err)
	}
}
