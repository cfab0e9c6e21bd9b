package port

import (
	"context"

	"solr-indexer/domain"
)

// RecordRepository provides paginated access to CMS records. Page must
// return records in stable ascending-ID order: contiguous offset windows are
// the correctness basis of batch indexing.
type RecordRepository interface {
	CountRecords(ctx context.Context, class domain.ClassRef, scope domain.ReadScope) (int, error)
	GetRecordsPage(ctx context.Context, class domain.ClassRef, offset, limit int, scope domain.ReadScope) ([]*domain.Record, error)
	GetRecordByID(ctx context.Context, className string, id int64, scope domain.ReadScope) (*domain.Record, error)
}
