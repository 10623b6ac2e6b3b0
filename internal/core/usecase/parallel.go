package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

const defaultMaxWorkers = 4

// ParallelBatchUseCase processes documents with a bounded worker pool for
// throughput when durable resume is not required. Each task runs the full
// pipeline in isolation under a wall-clock timeout; a failed or timed-out
// task becomes a placeholder error record instead of failing the batch.
// Results arrive in completion order, not submission order.
type ParallelBatchUseCase struct {
	pipeline    *ProcessNoteUseCase
	maxWorkers  int
	taskTimeout time.Duration
	logger      *slog.Logger
}

func NewParallelBatchUseCase(pipeline *ProcessNoteUseCase, maxWorkers int, taskTimeout time.Duration, logger *slog.Logger) *ParallelBatchUseCase {
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}
	if taskTimeout <= 0 {
		taskTimeout = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ParallelBatchUseCase{
		pipeline:    pipeline,
		maxWorkers:  maxWorkers,
		taskTimeout: taskTimeout,
		logger:      logger,
	}
}

func (uc *ParallelBatchUseCase) Run(ctx context.Context, docs []domain.Document) []domain.Record {
	if len(docs) == 0 {
		return nil
	}

	workers := uc.maxWorkers
	if workers > len(docs) {
		workers = len(docs)
	}

	jobs := make(chan domain.Document)
	results := make(chan domain.Record, len(docs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range jobs {
				results <- uc.processOne(ctx, doc)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, doc := range docs {
			select {
			case jobs <- doc:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	records := make([]domain.Record, 0, len(docs))
	for rec := range results {
		records = append(records, rec)
	}
	return records
}

func (uc *ParallelBatchUseCase) processOne(ctx context.Context, doc domain.Document) domain.Record {
	taskCtx, cancel := context.WithTimeout(ctx, uc.taskTimeout)
	defer cancel()

	rec, err := uc.pipeline.Process(taskCtx, doc)
	if err != nil {
		uc.logger.Warn("task failed, recording placeholder", "filename", doc.Filename, "error", err)
		return domain.ErrorRecord(doc.Filename, fmt.Sprintf("Error processing file: %v", err))
	}
	return rec
}
