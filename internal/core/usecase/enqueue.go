package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/ports"
)

// EnqueueNoteUseCase stores an uploaded PDF and publishes its storage key
// for the worker fleet to pick up. Used by the queued processing variant.
type EnqueueNoteUseCase struct {
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewEnqueueNoteUseCase(storage ports.ObjectStorage, queue ports.MessageQueue) *EnqueueNoteUseCase {
	return &EnqueueNoteUseCase{storage: storage, queue: queue}
}

// Upload saves the PDF bytes under a unique key and publishes the key.
// The original filename is recoverable from the key for record identity.
func (uc *EnqueueNoteUseCase) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	key := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeFilename(filename))

	if err := uc.storage.Save(ctx, key, body); err != nil {
		return "", fmt.Errorf("save to object storage: %w", err)
	}
	if err := uc.queue.PublishNoteIngested(ctx, key); err != nil {
		return "", fmt.Errorf("publish ingestion event: %w", err)
	}
	return key, nil
}

// FilenameFromKey recovers the original (sanitized) filename from a
// storage key produced by Upload.
func FilenameFromKey(key string) string {
	if _, name, ok := strings.Cut(key, "_"); ok && name != "" {
		return name
	}
	return key
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "note.pdf"
	}
	return base
}
