package processor

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"universo/server/config"
	"universo/server/internal/database"
	"universo/server/internal/models"
	"universo/server/internal/queue"
)

// Transactor is the part of *gorm.DB the processor needs.
type Transactor interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// Stats counts processed and failed rows.
type Stats struct {
	Batches       int64
	Rows          int64
	FailedBatches int64
	FailedRows    int64
}

// BatchProcessor upserts import batches taken from the queue
type BatchProcessor struct {
	db     Transactor
	logger *logrus.Logger
	config *config.Config
	queue  *queue.BatchQueue

	batches       atomic.Int64
	rows          atomic.Int64
	failedBatches atomic.Int64
	failedRows    atomic.Int64
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(db Transactor, queue *queue.BatchQueue, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	if logger == nil {
		logger = logrus.New()
	}
	return &BatchProcessor{
		db:     db,
		queue:  queue,
		config: config,
		logger: logger,
	}
}

// Start subscribes to the queue and starts its workers.
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(p.processBatch)
	p.queue.Start(p.config.Import.ProcessorCount)
}

// Stop closes the queue and waits for queued batches to be processed.
func (p *BatchProcessor) Stop() {
	p.queue.Close()
	p.queue.Wait()
}

// Stats returns the counters accumulated so far.
func (p *BatchProcessor) Stats() Stats {
	return Stats{
		Batches:       p.batches.Load(),
		Rows:          p.rows.Load(),
		FailedBatches: p.failedBatches.Load(),
		FailedRows:    p.failedRows.Load(),
	}
}

// processBatch handles a single batch with transaction and retry logic
func (p *BatchProcessor) processBatch(batch *models.ImportBatch) error {
	var err error
	for attempt := 0; attempt <= p.config.Import.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch processing, attempt %d of %d", attempt, p.config.Import.MaxRetries)
			time.Sleep(time.Duration(p.config.Import.RetryDelay) * time.Second)
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			return database.UpsertRows(tx, batch)
		})

		if err == nil {
			p.batches.Add(1)
			p.rows.Add(int64(batch.Len()))
			p.logger.WithFields(logrus.Fields{
				"table": batch.Table,
				"rows":  batch.Len(),
			}).Info("Processed import batch")
			return nil
		}

		p.logger.WithError(err).WithField("table", batch.Table).Error("Batch processing failed")
	}

	p.failedBatches.Add(1)
	p.failedRows.Add(int64(batch.Len()))
	return fmt.Errorf("failed to process batch after %d attempts: %w", p.config.Import.MaxRetries+1, err)
}
