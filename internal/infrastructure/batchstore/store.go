package batchstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

const (
	flushRetries    = 3
	flushRetryDelay = 100 * time.Millisecond
)

// Store owns the current batch state and its durable JSON file. After
// every appended record the full state is rewritten to a temporary file
// and atomically renamed into place, so a crash loses at most the
// document being processed.
type Store struct {
	currentPath string
	archivePath string
	logger      *slog.Logger

	mu        sync.Mutex
	records   []domain.Record
	processed map[string]struct{}
}

func New(currentPath, archivePath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		currentPath: currentPath,
		archivePath: archivePath,
		logger:      logger,
		processed:   make(map[string]struct{}),
	}
}

// Load reads the durable current-batch file. A missing file is an empty
// batch; a corrupt file is also an empty batch — crash recovery starts
// fresh rather than failing the run.
func (s *Store) Load() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.processed = make(map[string]struct{})

	raw, err := os.ReadFile(s.currentPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("batch state unreadable, starting empty", "path", s.currentPath, "error", err)
		}
		return nil
	}

	var records []domain.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		s.logger.Warn("batch state corrupt, starting empty", "path", s.currentPath, "error", err)
		return nil
	}

	s.records = records
	for _, rec := range records {
		s.processed[rec.Filename] = struct{}{}
	}

	out := make([]domain.Record, len(records))
	copy(out, records)
	return out
}

// Processed reports whether a filename was completed in the loaded batch.
func (s *Store) Processed(filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.processed[filename]
	return ok
}

// Append adds one record and flushes the whole state. Flush failures are
// retried a few times and then dropped with a warning; the in-memory
// state stays authoritative and the next successful flush supersedes the
// stale file.
func (s *Store) Append(rec domain.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	s.processed[rec.Filename] = struct{}{}
	s.flushLocked()
}

func (s *Store) flushLocked() {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		s.logger.Error("marshal batch state", "error", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.currentPath), 0o755); err != nil {
		s.logger.Warn("create batch state dir", "error", err)
		return
	}

	tmpPath := s.currentPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		s.logger.Warn("write batch state tmp file", "error", err)
		return
	}

	for attempt := 0; attempt <= flushRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(flushRetryDelay)
		}
		if err := os.Rename(tmpPath, s.currentPath); err == nil {
			return
		} else if attempt == flushRetries {
			// On-disk checkpoint lags; acceptable, next flush supersedes it.
			s.logger.Warn("batch state rename failed, checkpoint stale", "error", err)
		}
	}
}

// ArchiveAndReset closes the batch: the current file becomes the last-batch
// archive and in-memory state is cleared.
func (s *Store) ArchiveAndReset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.processed = make(map[string]struct{})

	if _, err := os.Stat(s.currentPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := os.Rename(s.currentPath, s.archivePath); err != nil {
		return fmt.Errorf("archive batch state: %w", err)
	}
	return nil
}
