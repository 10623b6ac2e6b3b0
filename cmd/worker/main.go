package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/bootstrap"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/config"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/usecase"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/observability/logging"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/observability/metrics"
)

const serviceName = "coding-worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewWorker(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		logger.Info("metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	// Records from the queued flow are archived under a daily batch.
	batchID := func() string {
		return time.Now().UTC().Format("2006-01-02")
	}

	handle := func(handlerCtx context.Context, storageKey string) error {
		workerMetrics.StartNote()
		started := time.Now()

		processCtx, cancel := context.WithTimeout(handlerCtx, cfg.TaskTimeout)
		defer cancel()

		rec, err := processKey(processCtx, app, storageKey)
		workerMetrics.FinishNote(serviceName, time.Since(started), err)
		if err != nil {
			// Failures still produce an archived placeholder so the batch
			// accounts for every ingested note.
			rec = domain.ErrorRecord(usecase.FilenameFromKey(storageKey),
				fmt.Sprintf("Error processing file: %v", err))
			workerMetrics.RecordPlaceholder()
		} else {
			workerMetrics.ObserveFinalCodes(countCodes(rec.FinalCPTCodes))
		}

		if err := app.Repo.InsertRecord(handlerCtx, batchID(), rec); err != nil {
			return fmt.Errorf("archive record: %w", err)
		}
		logger.Info("note processed", "key", storageKey, "final_codes", rec.FinalCPTCodes)
		return err
	}

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	if err := app.Queue.SubscribeNoteIngested(ctx, handle); err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}

func countCodes(joined string) int {
	if joined == "" {
		return 0
	}
	return len(strings.Split(joined, ", "))
}

func processKey(ctx context.Context, app *bootstrap.WorkerApp, storageKey string) (domain.Record, error) {
	body, err := app.Storage.Open(ctx, storageKey)
	if err != nil {
		return domain.Record{}, fmt.Errorf("open stored note: %w", err)
	}
	defer body.Close()

	content, err := io.ReadAll(body)
	if err != nil {
		return domain.Record{}, fmt.Errorf("read stored note: %w", err)
	}

	return app.Pipeline.ProcessUC.Process(ctx, domain.Document{
		ID:       storageKey,
		Filename: usecase.FilenameFromKey(storageKey),
		Content:  content,
	})
}
