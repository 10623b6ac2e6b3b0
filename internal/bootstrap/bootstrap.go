package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/coding/cptmap"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/coding/selector"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/config"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/ports"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/usecase"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/infrastructure/batchstore"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/infrastructure/extractor/pdftext"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/infrastructure/holiday"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/infrastructure/llm/gemini"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/infrastructure/queue/nats"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/infrastructure/repository/postgres"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/infrastructure/resilience"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/infrastructure/storage/localfs"
)

// Pipeline bundles the shared single-document processing assembly used by
// every entry point: CLI batch runs and the queued worker alike.
type Pipeline struct {
	Config config.Config

	ProcessUC  *usecase.ProcessNoteUseCase
	BatchUC    *usecase.BatchUseCase
	ParallelUC *usecase.ParallelBatchUseCase
	Store      ports.BatchStore
}

func NewPipeline(cfg config.Config, logger *slog.Logger) (*Pipeline, error) {
	mapping, err := cptmap.Load(cfg.CPTMappingPath)
	if err != nil {
		return nil, fmt.Errorf("load cpt mapping: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	client := gemini.New(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey, gemini.Options{
		RequestsPerMinute:  cfg.GeminiRPM,
		ResilienceExecutor: executor,
	})
	classifier := gemini.NewClassifier(client, logger)
	picker := gemini.NewPicker(client)

	sel := selector.New(picker, holiday.NewUS(), mapping, logger)

	extractor := pdftext.New(pdftext.Config{
		Pdftoppm:  cfg.PdftoppmBin,
		Tesseract: cfg.TesseractBin,
		Lang:      cfg.OCRLang,
		DPI:       cfg.OCRDPI,
		PSM:       cfg.OCRPSM,
		MaxPages:  cfg.OCRMaxPages,
	}, logger)

	store := batchstore.New(cfg.ResultsCurrentPath, cfg.ResultsLastPath, logger)

	processUC := usecase.NewProcessNoteUseCase(extractor, classifier, sel, logger)

	return &Pipeline{
		Config:     cfg,
		ProcessUC:  processUC,
		BatchUC:    usecase.NewBatchUseCase(processUC, store, logger),
		ParallelUC: usecase.NewParallelBatchUseCase(processUC, cfg.MaxWorkers, cfg.TaskTimeout, logger),
		Store:      store,
	}, nil
}

// WorkerApp is the queued processing variant: notes arrive as storage keys
// on the message queue and completed records land in the archive database.
type WorkerApp struct {
	Pipeline *Pipeline

	Queue   ports.MessageQueue
	Storage ports.ObjectStorage
	Repo    ports.RecordRepository

	closeFn func()
}

func NewWorker(ctx context.Context, cfg config.Config, logger *slog.Logger) (*WorkerApp, error) {
	pipeline, err := NewPipeline(cfg, logger)
	if err != nil {
		return nil, err
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewRecordRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	return &WorkerApp{
		Pipeline: pipeline,
		Queue:    queue,
		Storage:  storage,
		Repo:     repo,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *WorkerApp) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// IngestApp is the upload side of the queued variant: it only needs object
// storage and the queue.
type IngestApp struct {
	EnqueueUC *usecase.EnqueueNoteUseCase

	closeFn func()
}

func NewIngest(cfg config.Config) (*IngestApp, error) {
	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	return &IngestApp{
		EnqueueUC: usecase.NewEnqueueNoteUseCase(storage, queue),
		closeFn:   queue.Close,
	}, nil
}

func (a *IngestApp) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
