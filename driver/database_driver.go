package driver

import (
	"context"
	"fmt"

	"solr-indexer/domain"
	"solr-indexer/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// scopeTables maps a read scope to its records table. A fixed table keeps
// scope selection out of SQL string building.
var scopeTables = map[domain.ReadScope]string{
	domain.ReadLive:  "cms_records_live",
	domain.ReadDraft: "cms_records",
}

type DatabaseDriver struct {
	pool *pgxpool.Pool
}

func NewDatabaseDriver(pool *pgxpool.Pool) *DatabaseDriver {
	return &DatabaseDriver{
		pool: pool,
	}
}

// NewDatabaseDriverFromURL creates a DatabaseDriver with a connection pool
// built from the given connection URL. The URL is assembled and validated by
// the config layer; the driver never reads connection parameters itself.
func NewDatabaseDriverFromURL(ctx context.Context, dbURL string) (*DatabaseDriver, error) {
	pool, err := initDatabasePool(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	return &DatabaseDriver{
		pool: pool,
	}, nil
}

func initDatabasePool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	if dbURL == "" {
		return nil, &DriverError{
			Op:  "initDatabasePool",
			Err: "database URL is empty",
		}
	}

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, &DriverError{
			Op:  "initDatabasePool",
			Err: "failed to parse database URL: " + err.Error(),
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, &DriverError{
			Op:  "initDatabasePool",
			Err: "failed to create database pool: " + err.Error(),
		}
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, &DriverError{
			Op:  "initDatabasePool",
			Err: "failed to ping database: " + err.Error(),
		}
	}

	logger.Logger.Info("Database connected successfully")
	return pool, nil
}

// Close closes the database connection pool.
func (d *DatabaseDriver) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

// CountRecords counts records of the given classes in the scope's table.
func (d *DatabaseDriver) CountRecords(ctx context.Context, classNames []string, scope domain.ReadScope) (int, error) {
	table, err := tableFor(scope)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE class_name = ANY($1)`, table)

	var count int
	if err := d.pool.QueryRow(ctx, query, classNames).Scan(&count); err != nil {
		return 0, &DriverError{Op: "CountRecords", Err: err.Error()}
	}
	return count, nil
}

// GetRecordsPage fetches one page of records ordered by ascending ID. Stable
// ordering guarantees contiguous offset windows visit every record exactly
// once.
func (d *DatabaseDriver) GetRecordsPage(ctx context.Context, classNames []string, offset, limit int, scope domain.ReadScope) ([]*RecordRow, error) {
	table, err := tableFor(scope)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, class_name, title, content,
			   COALESCE(keywords, '{}') AS keywords,
			   last_edited, show_in_search, site_id
		FROM %s
		WHERE class_name = ANY($1)
		ORDER BY id ASC
		OFFSET $2
		LIMIT $3
	`, table)

	rows, err := d.pool.Query(ctx, query, classNames, offset, limit)
	if err != nil {
		return nil, &DriverError{Op: "GetRecordsPage", Err: err.Error()}
	}
	defer rows.Close()

	records, err := scanRecordRows(rows)
	if err != nil {
		return nil, &DriverError{Op: "GetRecordsPage", Err: err.Error()}
	}
	return records, nil
}

// GetRecordByID fetches one record by class and ID.
func (d *DatabaseDriver) GetRecordByID(ctx context.Context, className string, id int64, scope domain.ReadScope) (*RecordRow, error) {
	table, err := tableFor(scope)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, class_name, title, content,
			   COALESCE(keywords, '{}') AS keywords,
			   last_edited, show_in_search, site_id
		FROM %s
		WHERE class_name = $1 AND id = $2
	`, table)

	rows, err := d.pool.Query(ctx, query, className, id)
	if err != nil {
		return nil, &DriverError{Op: "GetRecordByID", Err: err.Error()}
	}
	defer rows.Close()

	records, err := scanRecordRows(rows)
	if err != nil {
		return nil, &DriverError{Op: "GetRecordByID", Err: err.Error()}
	}
	if len(records) == 0 {
		return nil, &DriverError{Op: "GetRecordByID", Err: fmt.Sprintf("record %s-%d not found", className, id)}
	}
	return records[0], nil
}

func scanRecordRows(rows pgx.Rows) ([]*RecordRow, error) {
	var records []*RecordRow
	for rows.Next() {
		var rec RecordRow
		if err := rows.Scan(
			&rec.ID, &rec.ClassName, &rec.Title, &rec.Content,
			&rec.Keywords, &rec.LastEdited, &rec.ShowInSearch, &rec.SiteID,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func tableFor(scope domain.ReadScope) (string, error) {
	table, ok := scopeTables[scope]
	if !ok {
		return "", &DriverError{Op: "tableFor", Err: "unknown read scope " + scope.String()}
	}
	return table, nil
}
