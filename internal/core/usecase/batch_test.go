package usecase

import (
	"context"
	"testing"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

type storeFake struct {
	loaded []domain.Record

	appended []domain.Record
	archived int
}

func (f *storeFake) Load() []domain.Record {
	return append([]domain.Record(nil), f.loaded...)
}

func (f *storeFake) Processed(filename string) bool {
	for _, rec := range f.loaded {
		if rec.Filename == filename {
			return true
		}
	}
	return false
}

func (f *storeFake) Append(rec domain.Record) {
	f.appended = append(f.appended, rec)
}

func (f *storeFake) ArchiveAndReset() error {
	f.archived++
	return nil
}

func newBatchPipeline(t *testing.T) *ProcessNoteUseCase {
	t.Helper()
	return NewProcessNoteUseCase(
		&extractorFake{text: sampleNote},
		&classifierFake{categories: []domain.TopLevelCategory{domain.CategoryLabTests}},
		newTestSelector(t, &pickerFake{codes: []string{"87804"}}),
		nil,
	)
}

func TestBatchSkipsAlreadyProcessedFiles(t *testing.T) {
	store := &storeFake{
		loaded: []domain.Record{{Filename: "A.pdf", FinalCPTCodes: "87804"}},
	}
	uc := NewBatchUseCase(newBatchPipeline(t), store, nil)

	docs := []domain.Document{
		{Filename: "A.pdf", Content: []byte("a")},
		{Filename: "B.pdf", Content: []byte("b")},
	}
	records, err := uc.Run(context.Background(), docs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(store.appended) != 1 || store.appended[0].Filename != "B.pdf" {
		t.Fatalf("appended = %+v, want exactly the B.pdf record", store.appended)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want loaded A.pdf plus new B.pdf", len(records))
	}
	if records[0].Filename != "A.pdf" || records[0].FinalCPTCodes != "87804" {
		t.Fatalf("loaded A.pdf record changed: %+v", records[0])
	}
	if store.archived != 1 {
		t.Fatalf("archive called %d times, want 1", store.archived)
	}
}

func TestBatchStopsOnCancellationKeepingCheckpoint(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &storeFake{}
	uc := NewBatchUseCase(newBatchPipeline(t), store, nil)

	_, err := uc.Run(ctx, []domain.Document{{Filename: "A.pdf"}})
	if err == nil {
		t.Fatalf("expected error from cancelled context")
	}
	if store.archived != 0 {
		t.Fatalf("batch archived despite interruption")
	}
}
