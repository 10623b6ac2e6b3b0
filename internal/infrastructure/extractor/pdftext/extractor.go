package pdftext

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; empty -> "tesseract"

	Lang     string // OCR language, default "eng"
	DPI      int    // rasterization DPI for scanned PDFs, default 300
	PSM      int    // page segmentation mode; 6 suits single-column notes
	MaxPages int    // 0 = no limit
}

// Extractor pulls text out of PDF bytes: the embedded text layer first,
// OCR when the layer is empty. Extraction never fails hard — a document
// with no recoverable text yields an empty string and downstream stages
// produce absent fields.
type Extractor struct {
	cfg    Config
	runner Runner
	layer  func(content []byte) string
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, layer: textLayer, logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, content []byte) (string, error) {
	text := e.layer(content)
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	e.logger.Info("empty text layer, falling back to ocr", "bytes", len(content))
	text, err := e.ocr(ctx, content)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		e.logger.Warn("ocr fallback failed, yielding empty text", "error", err)
		return "", nil
	}
	return text, nil
}

// textLayer reads the embedded text layer page by page. Any failure —
// including parser panics on malformed files — is treated as "empty".
func textLayer(content []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return ""
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil || pageText == "" {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String()
}
