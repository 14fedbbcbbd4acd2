package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/raphaelgruber/docshelf/internal/index"
	"github.com/raphaelgruber/docshelf/internal/llm"
	"github.com/raphaelgruber/docshelf/internal/metrics"
	"github.com/raphaelgruber/docshelf/internal/models"
)

// Retriever fetches relevant chunks for a question from a folder set.
// index.Searcher satisfies it.
type Retriever interface {
	Search(ctx context.Context, question string, folders []string, limit int) ([]index.Hit, error)
}

// Answerer generates an answer from a question and retrieved context.
// llm.Model satisfies it.
type Answerer interface {
	Answer(ctx context.Context, question, contextText string) (string, error)
}

// User-facing fallback answers. The query path converts transport faults
// into these instead of surfacing raw errors.
const (
	answerNoResults    = "Data not found in document."
	answerStoreFailure = "Error accessing document database."
	answerUnreachable  = "The answering service is unreachable. Please check that the model backend is running and try again."
	answerTimeout      = "The answering service timed out. Please try again with a shorter question or check the model backend."
)

// Answer is the result of one ask call.
type Answer struct {
	Text    string
	Folders []string
	Sources []index.Hit
}

// QueryService routes scoped questions to retrieval and generation.
type QueryService struct {
	folders   *FolderService
	retriever Retriever
	answerer  Answerer
	metrics   *metrics.Collector
	limit     int
	logger    *slog.Logger
}

// NewQueryService creates the query router. limit caps retrieved chunks per
// question; non-positive falls back to 3.
func NewQueryService(folders *FolderService, retriever Retriever, answerer Answerer, collector *metrics.Collector, limit int, logger *slog.Logger) *QueryService {
	if limit <= 0 {
		limit = 3
	}
	return &QueryService{
		folders:   folders,
		retriever: retriever,
		answerer:  answerer,
		metrics:   collector,
		limit:     limit,
		logger:    logger,
	}
}

// Ask answers a question within a scope. Blank questions fail with
// ErrEmptyQuestion and unknown named scopes with ErrFolderNotFound; every
// other fault on the query path degrades to a user-presentable fallback
// answer with a nil error.
func (s *QueryService) Ask(ctx context.Context, question string, scope models.Scope) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}

	folders, err := s.folders.ResolveScope(ctx, scope)
	if err != nil {
		return Answer{}, err
	}
	if len(folders) == 0 {
		// Global scope over an empty registry: nothing to search.
		return Answer{Text: answerNoResults, Folders: folders}, nil
	}

	hits, err := s.retriever.Search(ctx, question, folders, s.limit)
	if err != nil {
		s.logger.Error("retrieval failed", "scope", scope.String(), "error", err)
		return Answer{Text: s.fallback(err), Folders: folders}, nil
	}
	if len(hits) == 0 {
		return Answer{Text: answerNoResults, Folders: folders}, nil
	}

	contexts := make([]string, len(hits))
	for i, h := range hits {
		contexts[i] = h.Content
	}

	start := time.Now()
	text, err := s.answerer.Answer(ctx, question, strings.Join(contexts, "\n\n"))
	s.record(metrics.OpLLMGenerate, time.Since(start), err)
	if err != nil {
		s.logger.Error("answer generation failed", "scope", scope.String(), "error", err)
		return Answer{Text: s.fallback(err), Folders: folders, Sources: hits}, nil
	}

	return Answer{Text: text, Folders: folders, Sources: hits}, nil
}

// fallback maps a query-path fault onto a user-presentable answer.
func (s *QueryService) fallback(err error) string {
	switch {
	case errors.Is(err, llm.ErrTimeout):
		return answerTimeout
	case errors.Is(err, llm.ErrUnreachable):
		return answerUnreachable
	default:
		return answerStoreFailure
	}
}

func (s *QueryService) record(op string, d time.Duration, err error) {
	if s.metrics != nil {
		s.metrics.Record(op, d, err)
	}
}
