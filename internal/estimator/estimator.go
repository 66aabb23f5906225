// Package estimator asks a chat-completion endpoint for the nutrition of a
// free-text food description and parses the reply into a record.
package estimator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spboyer/kcal/internal/locale"
	"github.com/spboyer/kcal/internal/models"
	"github.com/spboyer/kcal/internal/utils"
)

const (
	DefaultModel   = openai.GPT4o
	DefaultBaseURL = "https://api.openai.com/v1"

	// Temperature is the sampling temperature sent with every request.
	Temperature float32 = 0.5
)

// Config is read once at construction and never changes afterwards.
type Config struct {
	// APIKey is sent as the bearer credential. An empty key is not rejected
	// here; the endpoint will refuse the request.
	APIKey string
	// BaseURL of the OpenAI-compatible API, without the /chat/completions suffix.
	BaseURL string
	// Model identifier sent with each request.
	Model string
	// Language selects the prompt wording. Zero value uses locale.Supported[0].
	Language language.Tag
	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration
	// HTTPClient overrides the transport. Nil uses http.DefaultClient.
	HTTPClient *http.Client
}

// Client estimates nutrition for food descriptions.
type Client struct {
	model   string
	timeout time.Duration
	printer *message.Printer
	chat    chatCompleter
}

// New creates a Client backed by the go-openai chat-completion client.
func New(cfg Config) *Client {
	return newClient(cfg, newChatClient(cfg))
}

func newClient(cfg Config, chat chatCompleter) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	tag := cfg.Language
	if tag == (language.Tag{}) {
		tag = locale.Supported[0]
	}
	return &Client{
		model:   model,
		timeout: cfg.Timeout,
		printer: locale.Printer(tag),
		chat:    chat,
	}
}

// Model returns the model identifier sent with each request.
func (c *Client) Model() string {
	return c.model
}

// Prompt returns the instruction sent for description.
func (c *Client) Prompt(description string) string {
	return c.printer.Sprintf(locale.KeyEstimate, description)
}

// Estimate performs one blocking chat-completion round trip. It never retries.
// Failures are *EstimationError values.
func (c *Client) Estimate(ctx context.Context, description string) (*models.NutritionRecord, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: c.Prompt(description)},
		},
		Temperature: Temperature,
	}
	utils.CompletionRequestToSlog(req)

	start := time.Now()
	resp, err := c.chat.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Debug("Chat completion failed", "model", c.model, "error", err)
		return nil, transportError(fmt.Errorf("chat completion: %w", err))
	}
	utils.CompletionResponseToSlog(resp, time.Since(start))

	if len(resp.Choices) == 0 {
		return nil, malformedError("reply has no choices")
	}

	record, err := parseRecord(resp.Choices[0].Message.Content)
	if err != nil {
		slog.Debug("Unparseable nutrition reply", "content", resp.Choices[0].Message.Content, "error", err)
		return nil, err
	}
	return record, nil
}
