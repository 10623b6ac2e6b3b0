package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/bootstrap"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/config"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/observability/logging"
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatalf("usage: ingest <note.pdf> [note2.pdf ...]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.NewJSONLogger("ingest", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewIngest(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	for _, path := range flag.Args() {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("open %s: %v", path, err)
		}

		key, err := app.EnqueueUC.Upload(ctx, filepath.Base(path), f)
		f.Close()
		if err != nil {
			log.Fatalf("enqueue %s: %v", path, err)
		}
		logger.Info("note enqueued", "path", path, "key", key)
	}
}
