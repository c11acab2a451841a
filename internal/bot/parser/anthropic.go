package parser

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"talentops-bot/internal/common/config"
)

// ErrAPIKeyRequired is returned when no model API key is configured.
var ErrAPIKeyRequired = errors.New("API key required")

// AnthropicInterpreter is the production Interpreter backed by the
// Anthropic Messages API.
type AnthropicInterpreter struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func NewAnthropicInterpreter(cfg config.LLMConfig) (*AnthropicInterpreter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY or llm.api_key", ErrAPIKeyRequired)
	}

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &AnthropicInterpreter{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     anthropic.Model(cfg.Model),
		maxTokens: maxTokens,
	}, nil
}

// Interpret sends the prompt and returns the first text block of the
// reply. Rate limits and server-side failures come back wrapped in
// TransientError so the caller may retry once.
func (a *AnthropicInterpreter) Interpret(ctx context.Context, prompt string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if isRetryable(err) {
			return "", &TransientError{Err: err}
		}
		return "", err
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("empty model response")
	}
	content := message.Content[0]
	if content.Type != "text" {
		return "", fmt.Errorf("unexpected response block type %q", content.Type)
	}
	return content.Text, nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	return false
}
