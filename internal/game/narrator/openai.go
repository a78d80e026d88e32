package narrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/emberwake/emberwake/internal/platform/timeouts"
)

const (
	defaultModel      = "gpt-4o-mini"
	defaultMaxRetries = 2
)

// ClientConfig defines the inputs for the OpenAI-backed narrator.
type ClientConfig struct {
	APIKey string
	// BaseURL overrides the API host for OpenAI-compatible providers.
	BaseURL string
	Model   string
	// Timeout caps a single generation call.
	Timeout time.Duration
	// MaxRetries bounds how many calls are attempted before giving up.
	MaxRetries int
}

// Client calls an OpenAI-compatible chat completion API to narrate turns.
type Client struct {
	api        *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
}

// NewClient builds a narrator client from config, applying defaults for
// model, timeout, and retry budget.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("narrator api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = timeouts.NarratorRequest
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}

	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:        openai.NewClientWithConfig(apiConfig),
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
	}, nil
}

// Narrate generates an outcome for the request, retrying within the
// configured budget. Exhaustion returns an error; the engine substitutes
// the fallback outcome.
func (c *Client) Narrate(ctx context.Context, req Request) (Outcome, error) {
	system, user, err := BuildMessages(req)
	if err != nil {
		return Outcome{}, err
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		outcome, err := c.narrateOnce(ctx, system, user)
		if err == nil {
			return outcome, nil
		}
		lastErr = err
		log.Printf("narrator call failed attempt=%d max=%d err=%v", attempt, c.maxRetries, err)
		if ctx.Err() != nil {
			break
		}
	}
	return Outcome{}, fmt.Errorf("narrate after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *Client) narrateOnce(ctx context.Context, system, user string) (Outcome, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return Outcome{}, errors.New("empty narrator response")
	}

	return ParseOutcome([]byte(resp.Choices[0].Message.Content))
}
