package localfs

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := storage.Save(context.Background(), "key_note.pdf", strings.NewReader("%PDF-1.4")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rc, err := storage.Open(context.Background(), "key_note.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Fatalf("data = %q", data)
	}
}

func TestOpenMissingKeyIsNotFound(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = storage.Open(context.Background(), "missing.pdf")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want not-found kind", err)
	}
}

// Keys are flattened to their base name so a crafted key cannot escape the
// storage directory.
func TestSaveIgnoresPathTraversal(t *testing.T) {
	dir := t.TempDir()
	storage, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := storage.Save(context.Background(), "../../escape.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := storage.Open(context.Background(), "escape.pdf"); err != nil {
		t.Fatalf("flattened key not readable: %v", err)
	}
}
