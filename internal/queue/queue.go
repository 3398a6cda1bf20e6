package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"universo/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// BatchQueue is an in-memory queue of import batches consumed by a fixed
// number of workers.
type BatchQueue struct {
	items    chan *models.ImportBatch
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	hmu      sync.RWMutex
	wg       sync.WaitGroup
	logger   *logrus.Logger
	handlers []func(*models.ImportBatch) error
}

// NewBatchQueue creates a new batch queue with the specified buffer size
func NewBatchQueue(bufferSize int, logger *logrus.Logger) *BatchQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &BatchQueue{
		items:    make(chan *models.ImportBatch, bufferSize),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func(*models.ImportBatch) error, 0),
	}
}

// Push adds a batch without blocking.
func (q *BatchQueue) Push(batch *models.ImportBatch) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- batch:
		q.logger.WithField("batch_size", batch.Len()).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// PushContext adds a batch, waiting for buffer space until ctx is done.
func (q *BatchQueue) PushContext(ctx context.Context, batch *models.ImportBatch) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- batch:
		q.logger.WithField("batch_size", batch.Len()).Debug("Pushed batch to queue")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe adds a handler function that will be called for each batch
func (q *BatchQueue) Subscribe(handler func(*models.ImportBatch) error) {
	q.hmu.Lock()
	defer q.hmu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start launches workers goroutines that drain the queue.
func (q *BatchQueue) Start(workers int) {
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.process()
	}
}

func (q *BatchQueue) process() {
	defer q.wg.Done()
	for batch := range q.items {
		q.processBatch(batch)
	}
}

// processBatch sends the batch to all subscribed handlers
func (q *BatchQueue) processBatch(batch *models.ImportBatch) {
	// Workers never take mu, so a Close waiting on a blocked PushContext
	// cannot stall the drain
	q.hmu.RLock()
	handlers := q.handlers
	q.hmu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).WithField("table", batch.Table).Error("Handler failed to process batch")
		}
	}
}

// Close stops accepting batches. Workers finish what is already queued.
func (q *BatchQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.items)
	return nil
}

// Wait blocks until every worker has exited, which happens after Close
// once the buffer is drained.
func (q *BatchQueue) Wait() {
	q.wg.Wait()
}

// Len returns the current number of batches in the queue
func (q *BatchQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *BatchQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
