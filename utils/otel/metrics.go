package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all OTel metric instruments for solr-indexer.
var Metrics *SolrIndexerMetrics

// SolrIndexerMetrics contains all metric instruments.
type SolrIndexerMetrics struct {
	DocumentsIndexedTotal  metric.Int64Counter
	GroupsProcessedTotal   metric.Int64Counter
	GroupsSkippedTotal     metric.Int64Counter
	SpellcheckRetriesTotal metric.Int64Counter
	ErrorsTotal            metric.Int64Counter
	BatchDuration          metric.Float64Histogram
	SearchDuration         metric.Float64Histogram
}

// InitMetrics initializes all metric instruments.
func InitMetrics() error {
	meter := otel.Meter("solr-indexer")

	documentsIndexed, err := meter.Int64Counter("solr_indexer_documents_indexed_total",
		metric.WithDescription("Total number of documents indexed"),
	)
	if err != nil {
		return err
	}

	groupsProcessed, err := meter.Int64Counter("solr_indexer_groups_processed_total",
		metric.WithDescription("Total number of batch groups processed"),
	)
	if err != nil {
		return err
	}

	groupsSkipped, err := meter.Int64Counter("solr_indexer_groups_skipped_total",
		metric.WithDescription("Total number of batch groups skipped after a transport failure"),
	)
	if err != nil {
		return err
	}

	spellcheckRetries, err := meter.Int64Counter("solr_indexer_spellcheck_retries_total",
		metric.WithDescription("Total number of queries re-executed with a spellcheck collation"),
	)
	if err != nil {
		return err
	}

	errorsTotal, err := meter.Int64Counter("solr_indexer_errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return err
	}

	batchDuration, err := meter.Float64Histogram("solr_indexer_batch_duration_seconds",
		metric.WithDescription("Batch processing duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	searchDuration, err := meter.Float64Histogram("solr_indexer_search_duration_seconds",
		metric.WithDescription("Search request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	Metrics = &SolrIndexerMetrics{
		DocumentsIndexedTotal:  documentsIndexed,
		GroupsProcessedTotal:   groupsProcessed,
		GroupsSkippedTotal:     groupsSkipped,
		SpellcheckRetriesTotal: spellcheckRetries,
		ErrorsTotal:            errorsTotal,
		BatchDuration:          batchDuration,
		SearchDuration:         searchDuration,
	}

	return nil
}

// RecordReindexRun records the counters of one completed reindex run.
func RecordReindexRun(ctx context.Context, groupsProcessed, documentsIndexed, groupsSkipped int) {
	if Metrics == nil {
		return
	}
	Metrics.GroupsProcessedTotal.Add(ctx, int64(groupsProcessed))
	Metrics.DocumentsIndexedTotal.Add(ctx, int64(documentsIndexed))
	if groupsSkipped > 0 {
		Metrics.GroupsSkippedTotal.Add(ctx, int64(groupsSkipped))
	}
}
