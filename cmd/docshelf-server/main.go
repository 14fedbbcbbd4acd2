// Package main provides the docshelf HTTP server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raphaelgruber/docshelf/internal/config"
	"github.com/raphaelgruber/docshelf/internal/db"
	"github.com/raphaelgruber/docshelf/internal/extract"
	"github.com/raphaelgruber/docshelf/internal/index"
	"github.com/raphaelgruber/docshelf/internal/llm"
	"github.com/raphaelgruber/docshelf/internal/metrics"
	"github.com/raphaelgruber/docshelf/internal/server"
	"github.com/raphaelgruber/docshelf/internal/service"
)

func main() {
	wipeDB := flag.Bool("wipe", false, "wipe all data from database on startup (testing only)")
	flag.Parse()

	cfg := config.Load()

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("failed to close log file", "error", err)
		}
	}()
	slog.SetDefault(logger)

	logger.Info("starting docshelf-server", "port", cfg.ServerPort)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbClient, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	if err != nil {
		cancel()
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if *wipeDB || os.Getenv("DOCSHELF_WIPE_DB") == "true" {
		if err := dbClient.WipeData(ctx); err != nil {
			cancel()
			logger.Error("failed to wipe database", "error", err)
			os.Exit(1)
		}
	}

	if err := dbClient.InitSchema(ctx, cfg.EmbedDim); err != nil {
		cancel()
		logger.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}
	cancel()
	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	// LLM components degrade gracefully: without an embedder search falls
	// back to full text, without a model answers are raw retrieval misses.
	var embedder *llm.Embedder
	var model *llm.Model

	embedder, err = llm.NewEmbedder(cfg)
	if err != nil {
		logger.Warn("embedder unavailable, using full-text search only", "error", err)
		embedder = nil
	}
	model, err = llm.NewModel(cfg)
	if err != nil {
		logger.Warn("LLM unavailable, query answers degraded", "error", err)
		model = nil
	}

	collector := metrics.NewCollector()

	// OCR degrades the same way: a missing or broken command only costs
	// image-only pages their text.
	var ocr extract.OCR
	if cfg.OCRCommand != "" {
		ocr, err = extract.CommandOCR(cfg.OCRCommand, collector)
		if err != nil {
			logger.Warn("OCR unavailable, image-only pages yield no text", "error", err)
			ocr = nil
		}
	}

	jobs := service.NewJobStore(cfg.JobRetention, logger)
	folders := service.NewFolderService(dbClient, jobs, logger)
	writer := index.NewStoreWriter(dbClient, embedder, collector, logger)
	ingestor := service.NewIngestor(folders, jobs, extract.NewRegistry(ocr), writer, collector, logger)

	searcher := index.NewSearcher(dbClient, embedder, collector, logger)
	var answerer service.Answerer
	if model != nil {
		answerer = model
	} else {
		answerer = unavailableAnswerer{}
	}
	query := service.NewQueryService(folders, searcher, answerer, collector, cfg.RetrieveLimit, logger)

	srv := server.New(":"+cfg.ServerPort, folders, ingestor, jobs, query, dbClient, collector, logger)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs.StartJanitor(runCtx)

	if err := srv.Run(runCtx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// unavailableAnswerer reports the LLM as unreachable so the query router
// serves its fallback answer instead of crashing.
type unavailableAnswerer struct{}

func (unavailableAnswerer) Answer(context.Context, string, string) (string, error) {
	return "", llm.ErrUnreachable
}
