package ports

import (
	"context"
	"io"
	"time"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

// TextExtractor produces raw text from PDF bytes. Extraction failure is
// not an error: implementations fall back to OCR and ultimately return an
// empty string, which downstream stages must tolerate.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte) (string, error)
}

// CategoryClassifier predicts which top-level service categories are
// explicitly supported by the masked note text. Output is always a subset
// of domain.AllCategories; out-of-enumeration values from the collaborator
// are rejected before they reach callers.
type CategoryClassifier interface {
	Classify(ctx context.Context, maskedText string) ([]domain.TopLevelCategory, error)
}

// CodePicker is the reasoning-service capability behind code selection.
// It is untrusted: callers filter its output against the allowed universe.
type CodePicker interface {
	PickCodes(ctx context.Context, maskedText string, allowed []domain.CategoryCodes, referenced []string) ([]string, error)
	PickEM(ctx context.Context, maskedText string, allowed []domain.CPTCandidate) (string, error)
}

// HolidayCalendar answers whether a service date is an observed holiday.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// BatchStore persists per-document results incrementally so an interrupted
// batch can resume without reprocessing completed documents.
type BatchStore interface {
	// Load reads the durable current-batch state. A missing or corrupt
	// file yields an empty state, never an error.
	Load() []domain.Record
	// Processed reports whether a filename is already in the loaded state.
	Processed(filename string) bool
	// Append adds a record and flushes the full state atomically. Flush
	// failures are retried a bounded number of times and then dropped;
	// in-memory state stays authoritative for the current run.
	Append(rec domain.Record)
	// ArchiveAndReset moves the current-batch file to the archive
	// location and clears in-memory state, closing the batch.
	ArchiveAndReset() error
}

// RecordRepository archives completed records durably (queued worker flow).
type RecordRepository interface {
	InsertRecord(ctx context.Context, batchID string, rec domain.Record) error
	ListByBatch(ctx context.Context, batchID string) ([]domain.Record, error)
}

type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type MessageQueue interface {
	PublishNoteIngested(ctx context.Context, storageKey string) error
	SubscribeNoteIngested(ctx context.Context, handler func(context.Context, string) error) error
}
