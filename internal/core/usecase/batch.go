package usecase

import (
	"context"
	"log/slog"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/ports"
)

// BatchUseCase processes a set of documents sequentially with durable
// per-document checkpointing: results are flushed after every document
// and a re-run after a crash skips filenames already in the batch file.
type BatchUseCase struct {
	pipeline *ProcessNoteUseCase
	store    ports.BatchStore
	logger   *slog.Logger
}

func NewBatchUseCase(pipeline *ProcessNoteUseCase, store ports.BatchStore, logger *slog.Logger) *BatchUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchUseCase{
		pipeline: pipeline,
		store:    store,
		logger:   logger,
	}
}

// Run processes documents in submission order. On completion the batch
// file is archived and the state reset. A context cancellation stops the
// batch mid-way with the checkpoint intact, so the next run resumes.
func (uc *BatchUseCase) Run(ctx context.Context, docs []domain.Document) ([]domain.Record, error) {
	records := uc.store.Load()

	for _, doc := range docs {
		if uc.store.Processed(doc.Filename) {
			uc.logger.Info("skipping already processed file", "filename", doc.Filename)
			continue
		}

		rec, err := uc.pipeline.Process(ctx, doc)
		if err != nil {
			return records, err
		}

		uc.store.Append(rec)
		records = append(records, rec)
		uc.logger.Info("processed file", "filename", doc.Filename)
	}

	if err := uc.store.ArchiveAndReset(); err != nil {
		uc.logger.Warn("failed to archive batch", "error", err)
	}
	return records, nil
}
