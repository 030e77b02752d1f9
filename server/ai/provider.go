// Package ai wraps the OpenAI-compatible chat API behind the small set of
// completions the wage pipeline needs: routing decisions, SQL condition
// generation and natural-language answer composition.
package ai

import (
	"context"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Config holds the AI provider configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	ChatModel  string
	MaxRetries int
	Timeout    time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.openai.com/v1",
		APIKey:     "",
		ChatModel:  "gpt-4o-mini",
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	}
}

// Generation parameters per task. Condition generation wants near-greedy
// decoding; answer composition gets more room.
const (
	conditionTemperature = 0.1
	conditionMaxTokens   = 300
	responseTemperature  = 0.3
	responseMaxTokens    = 500
)

// Provider is the LLM client. It satisfies queryengine.Completer.
type Provider struct {
	client *openai.Client
	config *Config
}

// NewProvider creates a new provider, filling unset config values with
// defaults.
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o-mini"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// NewProviderFromEnv creates a provider from environment variables.
func NewProviderFromEnv() (*Provider, error) {
	return NewProvider(&Config{
		BaseURL:    getEnv("WAGEWISE_AI_BASE_URL", "https://api.openai.com/v1"),
		APIKey:     getEnv("WAGEWISE_AI_API_KEY", ""),
		ChatModel:  getEnv("WAGEWISE_AI_CHAT_MODEL", "gpt-4o-mini"),
		MaxRetries: 3,
		Timeout:    30 * time.Second,
	})
}

// Model returns the configured chat model name.
func (p *Provider) Model() string {
	return p.config.ChatModel
}

// Complete sends one system+user exchange and returns the raw response
// text. This is the routing contract: the caller parses the output and
// treats every error as an unusable response.
func (p *Provider) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return p.chat(ctx, systemPrompt, userMessage, 0, 0)
}

// GenerateSQLConditions asks the model to translate a question into the
// structured condition object described by prompt. Low temperature, short
// budget; the output is parsed and validated by the caller.
func (p *Provider) GenerateSQLConditions(ctx context.Context, prompt, question string) (string, error) {
	return p.chat(ctx, prompt, question, conditionTemperature, conditionMaxTokens)
}

// GenerateNaturalResponse asks the model to compose the final answer from
// a context block already containing the question and retrieved data.
func (p *Provider) GenerateNaturalResponse(ctx context.Context, prompt string) (string, error) {
	return p.chat(ctx, prompt, "Generate the response now.", responseTemperature, responseMaxTokens)
}

// CheckConnection verifies that the API is reachable and the key works.
func (p *Provider) CheckConnection(ctx context.Context) error {
	if p.config.APIKey == "" {
		return errors.New("API key is required, set WAGEWISE_AI_API_KEY environment variable")
	}

	reply, err := p.chat(ctx, "You are a connectivity probe.", "Say 'OK'", 0, 10)
	if err != nil {
		return errors.Wrap(err, "connection check failed")
	}
	if strings.TrimSpace(reply) == "" {
		return errors.New("connection check returned an empty response")
	}

	slog.Info("ai provider reachable", "chat_model", p.config.ChatModel)
	return nil
}

func (p *Provider) chat(ctx context.Context, systemPrompt, userMessage string, temperature float32, maxTokens int) (string, error) {
	var result string
	err := p.doWithRetry(ctx, func() error {
		req := openai.ChatCompletionRequest{
			Model: p.config.ChatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userMessage},
			},
			Temperature: temperature,
			MaxTokens:   maxTokens,
		}

		callCtx := ctx
		if p.config.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, p.config.Timeout)
			defer cancel()
		}

		resp, err := p.client.CreateChatCompletion(callCtx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("empty chat response")
		}
		result = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to complete chat")
	}
	return result, nil
}

// doWithRetry executes fn with exponential backoff.
func (p *Provider) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < p.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("AI request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}

// getEnv gets an environment variable with a fallback.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
