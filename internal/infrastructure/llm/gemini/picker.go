package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

// Picker implements the code-selection side of the reasoning service: the
// constrained multi-code pick and the single-code E/M pick. Its output is
// decoded here but trusted nowhere; the selector re-filters every code.
type Picker struct {
	client *Client
}

func NewPicker(client *Client) *Picker {
	return &Picker{client: client}
}

func (p *Picker) PickCodes(ctx context.Context, maskedText string, allowed []domain.CategoryCodes, referenced []string) ([]string, error) {
	respText, err := p.client.generateJSON(ctx, buildSelectionPrompt(maskedText, allowed, referenced), "select_codes")
	if err != nil {
		return nil, err
	}

	var result struct {
		SelectedCPTCodes []struct {
			CPT         string `json:"cpt"`
			Description string `json:"description"`
		} `json:"selected_cpt_codes"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(respText)), &result); err != nil {
		return nil, fmt.Errorf("parse cpt selection json: %w", err)
	}

	codes := make([]string, 0, len(result.SelectedCPTCodes))
	for _, item := range result.SelectedCPTCodes {
		code := strings.TrimSpace(item.CPT)
		if code == "" {
			continue
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func (p *Picker) PickEM(ctx context.Context, maskedText string, allowed []domain.CPTCandidate) (string, error) {
	respText, err := p.client.generateJSON(ctx, buildEMPrompt(maskedText, allowed), "select_em")
	if err != nil {
		return "", err
	}

	var result struct {
		EMCode string `json:"em_code"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(respText)), &result); err != nil {
		return "", fmt.Errorf("parse e/m selection json: %w", err)
	}
	return strings.TrimSpace(result.EMCode), nil
}
