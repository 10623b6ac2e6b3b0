package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

func TestParallelProcessesEveryDocument(t *testing.T) {
	uc := NewParallelBatchUseCase(newBatchPipeline(t), 2, time.Minute, nil)

	var docs []domain.Document
	for i := 0; i < 5; i++ {
		docs = append(docs, domain.Document{Filename: fmt.Sprintf("note-%d.pdf", i)})
	}

	records := uc.Run(context.Background(), docs)
	if len(records) != len(docs) {
		t.Fatalf("got %d records, want %d", len(records), len(docs))
	}

	seen := make(map[string]struct{})
	for _, rec := range records {
		if _, dup := seen[rec.Filename]; dup {
			t.Fatalf("duplicate record for %s", rec.Filename)
		}
		seen[rec.Filename] = struct{}{}
	}
	for _, doc := range docs {
		if _, ok := seen[doc.Filename]; !ok {
			t.Fatalf("no record for %s", doc.Filename)
		}
	}
}

func TestParallelTimeoutYieldsPlaceholderRecord(t *testing.T) {
	pipeline := NewProcessNoteUseCase(
		blockingExtractor{},
		&classifierFake{},
		newTestSelector(t, &pickerFake{}),
		nil,
	)
	uc := NewParallelBatchUseCase(pipeline, 1, 10*time.Millisecond, nil)

	records := uc.Run(context.Background(), []domain.Document{{Filename: "stuck.pdf"}})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Filename != "stuck.pdf" {
		t.Fatalf("Filename = %q", rec.Filename)
	}
	if !strings.HasPrefix(rec.Comment, "Error processing file:") {
		t.Fatalf("Comment = %q, want error placeholder", rec.Comment)
	}
	if rec.FinalCPTCodes != "" {
		t.Fatalf("placeholder record carries codes: %+v", rec)
	}
}

func TestParallelEmptyInput(t *testing.T) {
	uc := NewParallelBatchUseCase(newBatchPipeline(t), 4, time.Minute, nil)
	if records := uc.Run(context.Background(), nil); records != nil {
		t.Fatalf("Run(nil) = %v, want nil", records)
	}
}
