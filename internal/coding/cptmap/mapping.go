package cptmap

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

// Mapping is the static category -> allowed codes reference. Loaded once
// per process; read-only afterwards.
type Mapping struct {
	byKey map[string][]domain.CPTCandidate
}

type mappingEntry struct {
	Code        string `json:"CPT"`
	Description string `json:"Description"`
}

// Load reads the JSON mapping file. Keys are case/whitespace-normalized so
// that lookups by category survive cosmetic edits to the reference file.
func Load(path string) (*Mapping, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cpt mapping: %w", err)
	}

	var parsed map[string][]mappingEntry
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse cpt mapping", err)
	}

	byKey := make(map[string][]domain.CPTCandidate, len(parsed))
	for key, entries := range parsed {
		codes := make([]domain.CPTCandidate, 0, len(entries))
		for _, e := range entries {
			if strings.TrimSpace(e.Code) == "" {
				continue
			}
			codes = append(codes, domain.CPTCandidate{
				Code:        strings.TrimSpace(e.Code),
				Description: strings.TrimSpace(e.Description),
			})
		}
		byKey[normalizeKey(key)] = codes
	}
	return &Mapping{byKey: byKey}, nil
}

// Codes returns the ordered candidate list for one category.
func (m *Mapping) Codes(category domain.TopLevelCategory) ([]domain.CPTCandidate, bool) {
	codes, ok := m.byKey[category.Key()]
	return codes, ok
}

// Subtree restricts the mapping to the given categories, preserving the
// caller's category order. Categories missing from the mapping are skipped.
func (m *Mapping) Subtree(categories []domain.TopLevelCategory) []domain.CategoryCodes {
	var subtree []domain.CategoryCodes
	for _, c := range categories {
		codes, ok := m.byKey[c.Key()]
		if !ok || len(codes) == 0 {
			continue
		}
		subtree = append(subtree, domain.CategoryCodes{Category: c, Codes: codes})
	}
	return subtree
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
