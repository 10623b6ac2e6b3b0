package usecase

import (
	"context"
	"log/slog"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/coding/selector"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/ports"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/textproc"
)

// ProcessNoteUseCase runs one document through the full pipeline:
// extract -> normalize -> mask -> demographics -> classify -> select.
//
// Field-level misses and collaborator failures degrade to absent values;
// the only hard error is context cancellation, so a timed-out parallel
// task can be converted into a placeholder record by the caller.
type ProcessNoteUseCase struct {
	extractor  ports.TextExtractor
	classifier ports.CategoryClassifier
	selector   *selector.Selector
	logger     *slog.Logger
}

func NewProcessNoteUseCase(
	extractor ports.TextExtractor,
	classifier ports.CategoryClassifier,
	sel *selector.Selector,
	logger *slog.Logger,
) *ProcessNoteUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessNoteUseCase{
		extractor:  extractor,
		classifier: classifier,
		selector:   sel,
		logger:     logger,
	}
}

func (uc *ProcessNoteUseCase) Process(ctx context.Context, doc domain.Document) (domain.Record, error) {
	text, err := uc.extractor.Extract(ctx, doc.Content)
	if err != nil {
		// Extraction only errors on cancellation; anything else is "empty".
		if ctx.Err() != nil {
			return domain.Record{}, ctx.Err()
		}
		uc.logger.Warn("extraction error treated as empty text", "filename", doc.Filename, "error", err)
		text = ""
	}

	normalized := textproc.Normalize(text)
	masked := textproc.MaskPHI(normalized)

	// Demographics come from the pre-mask normalized text; only the
	// masked form ever reaches the reasoning service.
	demographics := textproc.ExtractDemographics(normalized)

	categories, err := uc.classifier.Classify(ctx, masked)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Record{}, ctx.Err()
		}
		uc.logger.Warn("classification failed, proceeding without categories",
			"filename", doc.Filename, "error", err)
		categories = nil
	}

	codes := uc.selector.Select(ctx, masked, categories, demographics.ServiceDate)
	if ctx.Err() != nil {
		return domain.Record{}, ctx.Err()
	}

	return domain.NewRecord(doc.Filename, demographics, categories, codes), nil
}
