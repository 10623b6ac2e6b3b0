package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

// Classifier implements category prediction over the closed enumeration.
// The decode layer filters anything the model returns that is not a member
// of the enumeration; local logic never adds a category of its own.
type Classifier struct {
	client *Client
	logger *slog.Logger
}

func NewClassifier(client *Client, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{client: client, logger: logger}
}

func (c *Classifier) Classify(ctx context.Context, maskedText string) ([]domain.TopLevelCategory, error) {
	respText, err := c.client.generateJSON(ctx, buildCategoriesPrompt(maskedText), "classify")
	if err != nil {
		return nil, err
	}

	var result struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(respText)), &result); err != nil {
		return nil, fmt.Errorf("parse category prediction json: %w", err)
	}

	seen := make(map[domain.TopLevelCategory]struct{})
	var categories []domain.TopLevelCategory
	for _, raw := range result.Categories {
		category, ok := domain.ParseCategory(raw)
		if !ok {
			c.logger.Warn("dropping category outside enumeration", "value", raw)
			continue
		}
		if _, dup := seen[category]; dup {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}
	return categories, nil
}
