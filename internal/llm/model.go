// Package llm provides LLM and embedding services using langchaingo.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/raphaelgruber/docshelf/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Transport-level failures on the answering path. The query router converts
// these into user-presentable fallback answers.
var (
	ErrUnreachable = errors.New("answering model unreachable")
	ErrTimeout     = errors.New("answering model timed out")
)

// answerSystemPrompt is the strict document-grounded answering contract.
// The model may only use the retrieved context, never outside knowledge.
const answerSystemPrompt = `You are a strict document-based assistant. Your knowledge is limited to the provided CONTEXT only; it may contain text extracted from documents or scanned images.

Rules:
1. Answer all parts of the question exactly as asked.
2. Use ONLY information explicitly written in the CONTEXT.
3. Never assume, infer, or add external knowledge.
4. If any requested value is missing or unclear, respond exactly: Query not found in document.
5. Respond in one complete professional sentence, combining multiple values with commas. No bullet points, headings, or reasoning.`

// Model wraps a langchaingo LLM for answer synthesis.
type Model struct {
	llm       llms.Model
	modelName string
}

// NewModel creates an LLM model based on configuration.
func NewModel(cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
	}, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}

// Answer synthesizes an answer to the question from retrieved context.
// Transport failures are classified as ErrUnreachable or ErrTimeout.
func (m *Model) Answer(ctx context.Context, question, contextText string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, answerSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf("CONTEXT:\n%s\n\nUSER QUESTION:\n%s", contextText, question)),
	}

	response, err := m.llm.GenerateContent(ctx, messages, llms.WithTemperature(0))
	if err != nil {
		return "", classifyTransportError(err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

// classifyTransportError maps connection and deadline failures onto the
// package sentinels so callers can errors.Is them.
func classifyTransportError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if strings.Contains(err.Error(), "connection refused") {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	return err
}
