package index

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/raphaelgruber/docshelf/internal/db"
	"github.com/raphaelgruber/docshelf/internal/llm"
	"github.com/raphaelgruber/docshelf/internal/metrics"
	"github.com/raphaelgruber/docshelf/internal/models"
)

// StoreWriter indexes extracted document text into the database. Chunks are
// embedded when an embedder is configured; without one, search relies on
// full-text matching only.
type StoreWriter struct {
	db       *db.Client
	embedder *llm.Embedder
	metrics  *metrics.Collector
	cfg      ChunkConfig
	logger   *slog.Logger
}

// NewStoreWriter creates a writer. embedder and collector may be nil.
func NewStoreWriter(client *db.Client, embedder *llm.Embedder, collector *metrics.Collector, logger *slog.Logger) *StoreWriter {
	return &StoreWriter{
		db:       client,
		embedder: embedder,
		metrics:  collector,
		cfg:      DefaultChunkConfig(),
		logger:   logger,
	}
}

// Write replaces the indexed content of (folder, filename) with the given
// page texts. Re-uploading a file under the same name overwrites its chunks
// and document record.
func (w *StoreWriter) Write(ctx context.Context, folder, filename string, pages []string) error {
	if err := w.db.DeleteFileChunks(ctx, folder, filename); err != nil {
		return fmt.Errorf("clearing previous chunks for %s: %w", filename, err)
	}

	var inputs []models.ChunkInput
	for pageNum, text := range pages {
		for pos, content := range SplitText(text, w.cfg) {
			inputs = append(inputs, models.ChunkInput{
				Folder:   folder,
				Filename: filename,
				Page:     pageNum,
				Position: pos,
				Content:  content,
			})
		}
	}

	if w.embedder != nil && len(inputs) > 0 {
		if err := w.embedChunks(ctx, inputs); err != nil {
			return err
		}
	}

	if len(inputs) > 0 {
		start := time.Now()
		if err := w.db.InsertChunks(ctx, inputs); err != nil {
			return fmt.Errorf("inserting chunks for %s: %w", filename, err)
		}
		w.record(metrics.OpIndexWrite, time.Since(start), nil)
	}

	if err := w.db.UpsertDocument(ctx, folder, filename, models.FileSuccess, nil, len(pages)); err != nil {
		return fmt.Errorf("recording document %s: %w", filename, err)
	}

	w.logger.Info("file indexed",
		"folder", folder,
		"filename", filename,
		"pages", len(pages),
		"chunks", len(inputs))
	return nil
}

// RecordFailure stores a document record for a file that could not be
// indexed, preserving the reason for folder file listings.
func (w *StoreWriter) RecordFailure(ctx context.Context, folder, filename string, status models.FileStatus, reason string) error {
	return w.db.UpsertDocument(ctx, folder, filename, status, &reason, 0)
}

func (w *StoreWriter) embedChunks(ctx context.Context, inputs []models.ChunkInput) error {
	texts := make([]string, len(inputs))
	for i, in := range inputs {
		texts[i] = in.Content
	}

	start := time.Now()
	vectors, err := w.embedder.EmbedBatch(ctx, texts)
	w.record(metrics.OpEmbedding, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(inputs), err)
	}
	for i := range inputs {
		inputs[i].Embedding = vectors[i]
	}
	return nil
}

func (w *StoreWriter) record(op string, d time.Duration, err error) {
	if w.metrics != nil {
		w.metrics.Record(op, d, err)
	}
}

// SanitizeFilename strips path components so uploads cannot escape their
// folder namespace.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimSpace(name)
}
