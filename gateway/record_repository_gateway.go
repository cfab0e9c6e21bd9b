package gateway

import (
	"context"

	"solr-indexer/domain"
	"solr-indexer/driver"
)

// RecordDriver is the database-side contract the gateway adapts from.
type RecordDriver interface {
	CountRecords(ctx context.Context, classNames []string, scope domain.ReadScope) (int, error)
	GetRecordsPage(ctx context.Context, classNames []string, offset, limit int, scope domain.ReadScope) ([]*driver.RecordRow, error)
	GetRecordByID(ctx context.Context, className string, id int64, scope domain.ReadScope) (*driver.RecordRow, error)
}

type RecordRepositoryGateway struct {
	driver RecordDriver
}

func NewRecordRepositoryGateway(driver RecordDriver) *RecordRepositoryGateway {
	return &RecordRepositoryGateway{
		driver: driver,
	}
}

func (g *RecordRepositoryGateway) CountRecords(ctx context.Context, class domain.ClassRef, scope domain.ReadScope) (int, error) {
	count, err := g.driver.CountRecords(ctx, class.Subclasses, scope)
	if err != nil {
		return 0, &domain.RepositoryError{
			Op:  "CountRecords",
			Err: err.Error(),
		}
	}
	return count, nil
}

func (g *RecordRepositoryGateway) GetRecordsPage(ctx context.Context, class domain.ClassRef, offset, limit int, scope domain.ReadScope) ([]*domain.Record, error) {
	rows, err := g.driver.GetRecordsPage(ctx, class.Subclasses, offset, limit, scope)
	if err != nil {
		return nil, &domain.RepositoryError{
			Op:  "GetRecordsPage",
			Err: err.Error(),
		}
	}

	records := make([]*domain.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := convertToDomain(row)
		if err != nil {
			return nil, &domain.RepositoryError{
				Op:  "GetRecordsPage",
				Err: "failed to convert record to domain: id=" + domain.DocumentKeyFor(row.ClassName, row.ID) + ", " + err.Error(),
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (g *RecordRepositoryGateway) GetRecordByID(ctx context.Context, className string, id int64, scope domain.ReadScope) (*domain.Record, error) {
	row, err := g.driver.GetRecordByID(ctx, className, id, scope)
	if err != nil {
		return nil, &domain.RepositoryError{
			Op:  "GetRecordByID",
			Err: err.Error(),
		}
	}

	rec, err := convertToDomain(row)
	if err != nil {
		return nil, &domain.RepositoryError{
			Op:  "GetRecordByID",
			Err: err.Error(),
		}
	}
	return rec, nil
}

func convertToDomain(row *driver.RecordRow) (*domain.Record, error) {
	return domain.NewRecord(
		row.ID,
		row.ClassName,
		row.Title,
		row.Content,
		row.Keywords,
		row.LastEdited,
		row.ShowInSearch,
		row.SiteID,
	)
}
