// Package assistant answers chat messages: a few scripted replies, everything else goes to the language model.
package assistant

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/sashabaranov/go-openai"

	"lifesync/internal/gpt"
	"lifesync/pkg/logger"
)

const (
	SystemPrompt = "You are a helpful fitness and mental assistant. Keep responses concise."

	WelcomeMessage = "Hello! I'm your LifeSync AI assistant. I can help you with fitness advice, nutrition tips, and mental wellness. How can I assist you today?"

	AboutMessage = "LifeSync is a comprehensive lifestyle app that focuses on three core pillars: fitness, nutrition, and mental well-being. We use advanced AI technology to provide personalized recommendations and create a more engaging wellness experience. Our platform offers customized workout plans, nutrition guidance, and wellness tracking, all tailored to your individual needs and goals. Think of us as your personal wellness companion, helping you achieve a healthier and more balanced lifestyle through intelligent, data-driven insights."

	ConnectionMessage = "There was a problem connecting to the AI service. Please try again later."
	AuthMessage       = "There's an authentication issue. Please contact support."
	GenericMessage    = "I apologize, but I'm having trouble processing your request right now."
)

var ErrEmptyMessage = errors.New("message is empty")

type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type Assistant struct {
	llm    Completer
	logger *logger.Logger
}

func New(llm Completer, l *logger.Logger) *Assistant {
	return &Assistant{llm: llm, logger: l}
}

func (a *Assistant) Welcome() string {
	return WelcomeMessage
}

// Reply never fails on model errors; they become one of the fixed apology messages.
func (a *Assistant) Reply(ctx context.Context, message string) (string, error) {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return "", ErrEmptyMessage
	}

	if strings.Contains(text, "what is lifesync") || strings.Contains(text, "what's lifesync") {
		return AboutMessage, nil
	}

	reply, err := a.llm.Complete(ctx, SystemPrompt, text)
	if err != nil {
		a.logger.Errorw("completion failed", "error", err)
		return fallback(err), nil
	}
	return reply, nil
}

func fallback(err error) string {
	if isAuthError(err) {
		return AuthMessage
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return ConnectionMessage
	}
	return GenericMessage
}

func isAuthError(err error) bool {
	if errors.Is(err, gpt.ErrNoAPIKey) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusUnauthorized || reqErr.HTTPStatusCode == http.StatusForbidden
	}
	return false
}
