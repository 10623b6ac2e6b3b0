package cptmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

const mappingJSON = `{
  "Office and Patient Visits": [
    {"CPT": "99213", "Description": "Established patient, level 3"}
  ],
  "  LABORATORY AND DIAGNOSTIC TESTS ": [
    {"CPT": "87804", "Description": "Flu rapid test"},
    {"CPT": "87807", "Description": "RSV rapid test"},
    {"CPT": "  ", "Description": "blank code is dropped"}
  ]
}`

func writeMapping(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cpt_codes.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write mapping: %v", err)
	}
	return path
}

func TestLoadNormalizesKeys(t *testing.T) {
	m, err := Load(writeMapping(t, mappingJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	codes, ok := m.Codes(domain.CategoryLabTests)
	if !ok {
		t.Fatalf("lab tests category not found despite cosmetic key differences")
	}
	if len(codes) != 2 {
		t.Fatalf("got %d codes, want 2 (blank entries dropped)", len(codes))
	}
	if codes[0].Code != "87804" || codes[1].Code != "87807" {
		t.Fatalf("codes out of mapping order: %+v", codes)
	}
}

func TestSubtreePreservesCallerOrderAndSkipsUnknown(t *testing.T) {
	m, err := Load(writeMapping(t, mappingJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	subtree := m.Subtree([]domain.TopLevelCategory{
		domain.CategoryLabTests,
		domain.CategoryVaccines, // not in the mapping
		domain.CategoryOfficeVisits,
	})
	if len(subtree) != 2 {
		t.Fatalf("got %d subtree entries, want 2", len(subtree))
	}
	if subtree[0].Category != domain.CategoryLabTests || subtree[1].Category != domain.CategoryOfficeVisits {
		t.Fatalf("subtree order = [%s, %s]", subtree[0].Category, subtree[1].Category)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	_, err := Load(writeMapping(t, "{not json"))
	if err == nil {
		t.Fatalf("expected error for malformed json")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid-input kind", err)
	}
}
