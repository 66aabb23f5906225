package estimator

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

//go:generate go tool mockgen -source=chat_client.go -destination=chat_client_mock_test.go -package=estimator

// chatCompleter is the subset of [*openai.Client] the estimator needs.
type chatCompleter interface {
	// CreateChatCompletion maps to [openai.Client.CreateChatCompletion]
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

func newChatClient(cfg Config) chatCompleter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}
	return openai.NewClientWithConfig(clientCfg)
}
