package usecase

import (
	"context"
	"log/slog"

	"solr-indexer/domain"
	"solr-indexer/port"
)

// RecordRef identifies one record for event-driven indexing.
type RecordRef struct {
	ClassName string
	ID        int64
}

// IndexRecordsUsecase is the incremental counterpart of the batch job: it
// indexes or removes individual records in response to CMS events.
type IndexRecordsUsecase struct {
	records  port.RecordRepository
	engine   port.SearchEngine
	registry *domain.IndexRegistry
	builder  *UpdateBuilder
	scope    domain.ReadScope
	logger   *slog.Logger
}

func NewIndexRecordsUsecase(records port.RecordRepository, engine port.SearchEngine, registry *domain.IndexRegistry, scope domain.ReadScope, log *slog.Logger) *IndexRecordsUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &IndexRecordsUsecase{
		records:  records,
		engine:   engine,
		registry: registry,
		builder:  NewUpdateBuilder(registry),
		scope:    scope,
		logger:   log,
	}
}

// IndexBatch fetches each referenced record and submits one update per
// affected index. Records that cannot be fetched are skipped with a log
// entry so one missing record does not block the rest of the batch.
func (u *IndexRecordsUsecase) IndexBatch(ctx context.Context, refs []RecordRef) (int, error) {
	if len(refs) == 0 {
		return 0, nil
	}

	docsByClass := make(map[string][]domain.SearchDocument)
	for _, ref := range refs {
		rec, err := u.records.GetRecordByID(ctx, ref.ClassName, ref.ID, u.scope)
		if err != nil {
			u.logger.Error("record fetch failed, skipping",
				"class", ref.ClassName,
				"id", ref.ID,
				"err", err,
			)
			continue
		}
		if !rec.ShowInSearch() {
			continue
		}

		index, _, err := u.registry.ResolveClass(ref.ClassName)
		if err != nil {
			return 0, err
		}
		doc, err := domain.NewDocumentBuilder(index).Build(rec)
		if err != nil {
			return 0, err
		}
		docsByClass[ref.ClassName] = append(docsByClass[ref.ClassName], doc)
	}

	indexed := 0
	for className, docs := range docsByClass {
		req, indexName, err := u.builder.Build(className, docs, domain.UpdateOpUpdate)
		if err != nil {
			return indexed, err
		}
		if err := u.engine.SubmitUpdate(ctx, indexName, req); err != nil {
			return indexed, err
		}
		indexed += len(docs)
	}
	return indexed, nil
}

// DeleteBatch removes the referenced records' documents by identifier.
func (u *IndexRecordsUsecase) DeleteBatch(ctx context.Context, refs []RecordRef) (int, error) {
	if len(refs) == 0 {
		return 0, nil
	}

	docsByClass := make(map[string][]domain.SearchDocument)
	for _, ref := range refs {
		doc := domain.SearchDocument{
			"id":         domain.DocumentKeyFor(ref.ClassName, ref.ID),
			"class_name": ref.ClassName,
		}
		docsByClass[ref.ClassName] = append(docsByClass[ref.ClassName], doc)
	}

	deleted := 0
	for className, docs := range docsByClass {
		req, indexName, err := u.builder.Build(className, docs, domain.UpdateOpDelete)
		if err != nil {
			return deleted, err
		}
		if err := u.engine.SubmitUpdate(ctx, indexName, req); err != nil {
			return deleted, err
		}
		deleted += len(docs)
	}
	return deleted, nil
}
