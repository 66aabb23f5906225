package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const bentoReply = `{"name":"雞腿便當","calories":700,"protein":35,"fat":25,"carbs":80}`

// completionServer answers chat completions with replies in order, repeating
// the last one once they run out.
type completionServer struct {
	*httptest.Server
	calls atomic.Int32
}

func newCompletionServer(t *testing.T, replies ...string) *completionServer {
	t.Helper()
	require.NotEmpty(t, replies)

	s := &completionServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(s.calls.Add(1)) - 1
		content := replies[min(n, len(replies)-1)]

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  openai.GPT4o,
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: content,
				},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *completionServer) BaseURL() string {
	return s.URL + "/v1"
}

// isolate runs the test from an empty directory with a known credential.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("VITE_OPENAI_API_KEY", "")
	return dir
}

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func findCommand(root *cobra.Command, name string) *cobra.Command {
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
