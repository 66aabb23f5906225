package utils

import (
	"context"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// CompletionRequestToSlog logs an outgoing chat-completion request at debug level.
func CompletionRequestToSlog(req openai.ChatCompletionRequest) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"model", req.Model,
		"temperature", req.Temperature,
		"messages", len(req.Messages),
	}
	if len(req.Messages) > 0 {
		attrs = addIf(attrs, "prompt", req.Messages[len(req.Messages)-1].Content)
	}

	slog.Debug("Sending chat completion", attrs...)
}

// CompletionResponseToSlog logs a chat-completion reply at debug level.
func CompletionResponseToSlog(resp openai.ChatCompletionResponse, elapsed time.Duration) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"choices", len(resp.Choices),
		"durationMs", elapsed.Milliseconds(),
	}

	attrs = addIf(attrs, "id", resp.ID)
	attrs = addIf(attrs, "model", resp.Model)
	if len(resp.Choices) > 0 {
		attrs = addIf(attrs, "content", resp.Choices[0].Message.Content)
		attrs = addIf(attrs, "finishReason", string(resp.Choices[0].FinishReason))
	}
	attrs = addIf(attrs, "promptTokens", resp.Usage.PromptTokens)
	attrs = addIf(attrs, "completionTokens", resp.Usage.CompletionTokens)

	slog.Debug("Chat completion received", attrs...)
}

func addIf[T comparable](attrs []any, name string, v T) []any {
	var zero T
	if v != zero {
		attrs = append(attrs, name)
		attrs = append(attrs, v)
	}

	return attrs
}
