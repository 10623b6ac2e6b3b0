package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/bootstrap"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/config"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/export"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/observability/logging"
)

func main() {
	var (
		dir      = flag.String("dir", "./notes", "directory of SOAP note PDFs to process")
		parallel = flag.Bool("parallel", false, "process with the bounded worker pool instead of the resumable sequential run")
		xlsxPath = flag.String("xlsx", "", "optional path to export results as a workbook")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.NewJSONLogger("codingd", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := bootstrap.NewPipeline(cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	docs, err := loadDocuments(*dir)
	if err != nil {
		log.Fatalf("load documents: %v", err)
	}
	if len(docs) == 0 {
		log.Fatalf("no pdf files found in %s", *dir)
	}
	logger.Info("starting batch", "files", len(docs), "parallel", *parallel)

	var records []domain.Record
	if *parallel {
		records = pipeline.ParallelUC.Run(ctx, docs)
	} else {
		records, err = pipeline.BatchUC.Run(ctx, docs)
		if err != nil {
			// Checkpoint survives; the next run resumes where this one stopped.
			logger.Error("batch interrupted", "processed", len(records), "error", err)
			os.Exit(1)
		}
	}

	logger.Info("batch complete", "records", len(records))

	if *xlsxPath != "" {
		if err := export.WriteXLSX(*xlsxPath, records); err != nil {
			log.Fatalf("export workbook: %v", err)
		}
		logger.Info("exported workbook", "path", *xlsxPath)
	}
}

func loadDocuments(dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs []domain.Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, domain.Document{
			ID:       entry.Name(),
			Filename: entry.Name(),
			Content:  content,
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Filename < docs[j].Filename })
	return docs, nil
}
