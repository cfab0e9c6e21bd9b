package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"solr-indexer/usecase"
)

const (
	batchFlushSize     = 10
	batchFlushInterval = 2 * time.Second
)

// RecordEventPayload is the payload shared by record lifecycle events.
type RecordEventPayload struct {
	ClassName string `json:"class_name"`
	RecordID  int64  `json:"record_id"`
}

// RecordEventHandler processes record lifecycle events. Publish events are
// buffered and flushed in batches to reduce per-event engine round-trips;
// deletions are flushed the same way through their own buffer.
type RecordEventHandler struct {
	indexUsecase *usecase.IndexRecordsUsecase
	logger       *slog.Logger

	mu          sync.Mutex
	indexBuffer []usecase.RecordRef
	delBuffer   []usecase.RecordRef
	timer       *time.Timer
	ctx         context.Context
	cancel      context.CancelFunc
	flushed     chan struct{} // closed on each flush for testing
}

func NewRecordEventHandler(indexUsecase *usecase.IndexRecordsUsecase, logger *slog.Logger) *RecordEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RecordEventHandler{
		indexUsecase: indexUsecase,
		logger:       logger,
		indexBuffer:  make([]usecase.RecordRef, 0, batchFlushSize),
		delBuffer:    make([]usecase.RecordRef, 0, batchFlushSize),
		ctx:          ctx,
		cancel:       cancel,
		flushed:      make(chan struct{}, 1),
	}
}

// Stop cancels the background flush timer and flushes what remains.
func (h *RecordEventHandler) Stop() {
	h.cancel()
	h.mu.Lock()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.mu.Unlock()
	h.flush()
}

// HandleEvent processes a single event. Unknown event types are skipped, not
// failed, so a producer rollout cannot wedge the stream.
func (h *RecordEventHandler) HandleEvent(ctx context.Context, event Event) error {
	switch event.EventType {
	case "RecordPublished":
		return h.enqueuePayload(event, false)
	case "RecordUnpublished", "RecordDeleted":
		return h.enqueuePayload(event, true)
	default:
		h.logger.Warn("unknown event type, skipping",
			"event_type", event.EventType,
			"event_id", event.EventID,
		)
		return nil
	}
}

func (h *RecordEventHandler) enqueuePayload(event Event, deletion bool) error {
	var payload RecordEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		h.logger.Error("failed to unmarshal record event payload",
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err,
		)
		return err
	}

	h.logger.Info("buffering record event",
		"event_type", event.EventType,
		"class", payload.ClassName,
		"record_id", payload.RecordID,
	)

	h.enqueue(usecase.RecordRef{ClassName: payload.ClassName, ID: payload.RecordID}, deletion)
	return nil
}

// enqueue adds a record reference to the right buffer and triggers a flush
// once the combined batch reaches the size threshold. A timer started on the
// first enqueue keeps flushing timely when events arrive slowly.
func (h *RecordEventHandler) enqueue(ref usecase.RecordRef, deletion bool) {
	h.mu.Lock()
	if deletion {
		h.delBuffer = append(h.delBuffer, ref)
	} else {
		h.indexBuffer = append(h.indexBuffer, ref)
	}
	size := len(h.indexBuffer) + len(h.delBuffer)

	if size == 1 {
		h.timer = time.AfterFunc(batchFlushInterval, func() {
			h.flush()
		})
	}
	h.mu.Unlock()

	if size >= batchFlushSize {
		h.flush()
	}
}

// flush drains both buffers through the usecase in one pass each.
func (h *RecordEventHandler) flush() {
	h.mu.Lock()
	if len(h.indexBuffer) == 0 && len(h.delBuffer) == 0 {
		h.mu.Unlock()
		return
	}
	toIndex := h.indexBuffer
	toDelete := h.delBuffer
	h.indexBuffer = make([]usecase.RecordRef, 0, batchFlushSize)
	h.delBuffer = make([]usecase.RecordRef, 0, batchFlushSize)
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.mu.Unlock()

	if refs := dedupe(toIndex); len(refs) > 0 {
		indexed, err := h.indexUsecase.IndexBatch(h.ctx, refs)
		if err != nil {
			h.logger.Error("batch indexing failed", "count", len(refs), "error", err)
		} else {
			h.logger.Info("batch indexed", "indexed", indexed)
		}
	}

	if refs := dedupe(toDelete); len(refs) > 0 {
		deleted, err := h.indexUsecase.DeleteBatch(h.ctx, refs)
		if err != nil {
			h.logger.Error("batch deletion failed", "count", len(refs), "error", err)
		} else {
			h.logger.Info("batch deleted", "deleted", deleted)
		}
	}

	select {
	case h.flushed <- struct{}{}:
	default:
	}
}

func dedupe(refs []usecase.RecordRef) []usecase.RecordRef {
	seen := make(map[usecase.RecordRef]struct{}, len(refs))
	unique := make([]usecase.RecordRef, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref]; !ok {
			seen[ref] = struct{}{}
			unique = append(unique, ref)
		}
	}
	return unique
}
