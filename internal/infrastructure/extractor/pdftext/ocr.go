package pdftext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ocr rasterizes every page and runs tesseract over each image.
func (e *Extractor) ocr(ctx context.Context, content []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "ucp-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove ocr temp dir", "dir", tmpDir, "error", err)
		}
	}()

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, content, 0o600); err != nil {
		return "", err
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.DPI), "-png", pdfPath, prefix)
	if err != nil {
		return "", fmt.Errorf("rasterize pdf: %w: %s", err, strings.TrimSpace(string(errb)))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no page images")
	}

	var b strings.Builder
	for _, img := range matches {
		txt, err := e.tesseractPage(ctx, img)
		if err != nil {
			e.logger.Warn("ocr page failed", "image", img, "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt)
	}
	return b.String(), nil
}

func (e *Extractor) tesseractPage(ctx context.Context, imagePath string) (string, error) {
	// tesseract <img> stdout -l eng --psm 6
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract,
		imagePath, "stdout",
		"-l", e.cfg.Lang,
		"--psm", strconv.Itoa(e.cfg.PSM),
	)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}
