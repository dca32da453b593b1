package gpt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"

	"lifesync/config"
)

func TestCompleteSendsPreambleAndLimits(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("auth header: got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Drink water."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewClient(config.GPTConfig{
		APIKey:      "key",
		Model:       "mistralai/Mistral-7B-Instruct-v0.3",
		BaseURL:     srv.URL + "/v1",
		MaxTokens:   300,
		Temperature: 0.7,
	})

	reply, err := c.Complete(context.Background(), "be brief", "how much water?")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Drink water." {
		t.Errorf("reply: got %q", reply)
	}
	if got.Model != "mistralai/Mistral-7B-Instruct-v0.3" || got.MaxTokens != 300 {
		t.Errorf("request: model=%q max_tokens=%d", got.Model, got.MaxTokens)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != openai.ChatMessageRoleSystem || got.Messages[1].Content != "how much water?" {
		t.Errorf("messages: %+v", got.Messages)
	}
}

func TestCompleteWithoutKey(t *testing.T) {
	c := NewClient(config.GPTConfig{})
	if _, err := c.Complete(context.Background(), "s", "p"); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("got %v, want ErrNoAPIKey", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(config.GPTConfig{APIKey: "key", BaseURL: srv.URL})
	if _, err := c.Complete(context.Background(), "s", "p"); err == nil {
		t.Error("expected an error for an empty choice list")
	}
}
