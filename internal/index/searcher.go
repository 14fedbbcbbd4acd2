package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/docshelf/internal/db"
	"github.com/raphaelgruber/docshelf/internal/llm"
	"github.com/raphaelgruber/docshelf/internal/metrics"
)

// Hit is a retrieved chunk with provenance.
type Hit struct {
	Folder   string
	Filename string
	Page     int
	Content  string
}

// Searcher retrieves relevant chunks scoped to a set of folders. With an
// embedder it performs vector search; otherwise full-text matching.
type Searcher struct {
	db       *db.Client
	embedder *llm.Embedder
	metrics  *metrics.Collector
	logger   *slog.Logger
}

func NewSearcher(client *db.Client, embedder *llm.Embedder, collector *metrics.Collector, logger *slog.Logger) *Searcher {
	return &Searcher{db: client, embedder: embedder, metrics: collector, logger: logger}
}

// Search returns up to limit chunks relevant to the question from the given
// folders. An empty folder set yields no hits.
func (s *Searcher) Search(ctx context.Context, question string, folders []string, limit int) ([]Hit, error) {
	if len(folders) == 0 {
		return nil, nil
	}

	var embedding []float32
	if s.embedder != nil {
		start := time.Now()
		vec, err := s.embedder.Embed(ctx, question)
		s.record(metrics.OpEmbedding, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("embedding question: %w", err)
		}
		embedding = vec
	}

	start := time.Now()
	rows, err := s.db.SearchChunks(ctx, question, embedding, folders, limit)
	s.record(metrics.OpRetrieve, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}

	hits := make([]Hit, 0, len(rows))
	for _, r := range rows {
		hits = append(hits, Hit{
			Folder:   r.Folder,
			Filename: r.Filename,
			Page:     r.Page,
			Content:  r.Content,
		})
	}

	s.logger.Debug("retrieval complete", "folders", len(folders), "hits", len(hits))
	return hits, nil
}

func (s *Searcher) record(op string, d time.Duration, err error) {
	if s.metrics != nil {
		s.metrics.Record(op, d, err)
	}
}
