package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/coding/cptmap"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/coding/selector"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// blockingExtractor parks until the task context expires, standing in for
// a hung OCR subprocess.
type blockingExtractor struct{}

func (blockingExtractor) Extract(ctx context.Context, _ []byte) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type classifierFake struct {
	categories []domain.TopLevelCategory
	err        error

	lastMasked string
}

func (f *classifierFake) Classify(_ context.Context, maskedText string) ([]domain.TopLevelCategory, error) {
	f.lastMasked = maskedText
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

type pickerFake struct {
	codes []string
	em    string
}

func (f *pickerFake) PickCodes(context.Context, string, []domain.CategoryCodes, []string) ([]string, error) {
	return f.codes, nil
}

func (f *pickerFake) PickEM(context.Context, string, []domain.CPTCandidate) (string, error) {
	return f.em, nil
}

const usecaseMapping = `{
  "Laboratory and Diagnostic Tests": [
    {"CPT": "87804", "Description": "Flu rapid test"}
  ],
  "Office and Patient Visits": [
    {"CPT": "99000", "Description": "Specimen handling"}
  ]
}`

func newTestSelector(t *testing.T, picker *pickerFake) *selector.Selector {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cpt_codes.json")
	if err := os.WriteFile(path, []byte(usecaseMapping), 0o644); err != nil {
		t.Fatalf("write mapping: %v", err)
	}
	mapping, err := cptmap.Load(path)
	if err != nil {
		t.Fatalf("load mapping: %v", err)
	}
	return selector.New(picker, nil, mapping, nil)
}

const sampleNote = `SMITH, JANE
DOB: 03/04/1980 DOS: 03/15/2023
Acc No.: 445566
Assessment: J06.9 upper respiratory infection
Provider: John Adams, MD`

func TestProcessBuildsRecord(t *testing.T) {
	classifier := &classifierFake{categories: []domain.TopLevelCategory{domain.CategoryLabTests}}
	uc := NewProcessNoteUseCase(
		&extractorFake{text: sampleNote},
		classifier,
		newTestSelector(t, &pickerFake{codes: []string{"87804"}}),
		nil,
	)

	rec, err := uc.Process(context.Background(), domain.Document{Filename: "note.pdf"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if rec.Filename != "note.pdf" {
		t.Fatalf("Filename = %q", rec.Filename)
	}
	if rec.PatientName != "SMITH, JANE" {
		t.Fatalf("PatientName = %q", rec.PatientName)
	}
	if rec.DOB != "03/04/1980" || rec.AccountNumber != "445566" {
		t.Fatalf("demographics not recovered: %+v", rec)
	}
	if rec.PredictedCategories != string(domain.CategoryLabTests) {
		t.Fatalf("PredictedCategories = %q", rec.PredictedCategories)
	}
	if rec.FinalCPTCodes != "87804" {
		t.Fatalf("FinalCPTCodes = %q", rec.FinalCPTCodes)
	}
	if rec.ICDCodes != "J06.9" {
		t.Fatalf("ICDCodes = %q", rec.ICDCodes)
	}
}

func TestProcessMasksTextBeforeClassification(t *testing.T) {
	classifier := &classifierFake{}
	uc := NewProcessNoteUseCase(
		&extractorFake{text: sampleNote},
		classifier,
		newTestSelector(t, &pickerFake{}),
		nil,
	)

	if _, err := uc.Process(context.Background(), domain.Document{Filename: "note.pdf"}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	for _, literal := range []string{"SMITH, JANE", "03/04/1980", "445566"} {
		if strings.Contains(classifier.lastMasked, literal) {
			t.Fatalf("classifier saw unmasked text containing %q: %q", literal, classifier.lastMasked)
		}
	}
}

func TestProcessTreatsExtractionFailureAsEmptyText(t *testing.T) {
	classifier := &classifierFake{}
	uc := NewProcessNoteUseCase(
		&extractorFake{err: errors.New("parser blew up")},
		classifier,
		newTestSelector(t, &pickerFake{}),
		nil,
	)

	rec, err := uc.Process(context.Background(), domain.Document{Filename: "note.pdf"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if rec.PatientName != "" || rec.DOB != "" || rec.FinalCPTCodes != "" {
		t.Fatalf("expected absent fields, got %+v", rec)
	}
}

func TestProcessProceedsWithoutCategoriesOnClassifierFailure(t *testing.T) {
	uc := NewProcessNoteUseCase(
		&extractorFake{text: sampleNote},
		&classifierFake{err: errors.New("service down")},
		newTestSelector(t, &pickerFake{codes: []string{"87804"}}),
		nil,
	)

	rec, err := uc.Process(context.Background(), domain.Document{Filename: "note.pdf"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if rec.PredictedCategories != "" || rec.FinalCPTCodes != "" {
		t.Fatalf("expected empty categories and codes, got %+v", rec)
	}
	if rec.DOB != "03/04/1980" {
		t.Fatalf("demographics lost on classifier failure: %+v", rec)
	}
}

func TestProcessReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := NewProcessNoteUseCase(
		&extractorFake{text: sampleNote},
		&classifierFake{},
		newTestSelector(t, &pickerFake{}),
		nil,
	)

	if _, err := uc.Process(ctx, domain.Document{Filename: "note.pdf"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Process err = %v, want context.Canceled", err)
	}
}
