package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"rfpworks.com/pid-backend/internal/apperr"
)

const pidModelName = "gemini-2.0-flash"

// Generator produces text for a prompt. One request, one response; no
// retries, no streaming.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMService wraps the Gemini client. Constructed without an API key it
// stays usable and reports ErrProviderUnavailable on every call, so a
// missing credential degrades the service rather than crashing it.
type LLMService struct {
	client *genai.Client
}

func NewLLMService(ctx context.Context, apiKey string) (*LLMService, error) {
	if apiKey == "" {
		return &LLMService{}, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &LLMService{client: client}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	if s.client == nil {
		return "", apperr.ErrProviderUnavailable
	}

	model := s.client.GenerativeModel(pidModelName)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return "", fmt.Errorf("%w: gemini returned status %d: %s", apperr.ErrProviderError, gerr.Code, gerr.Message)
		}
		return "", fmt.Errorf("%w: %v", apperr.ErrProviderError, err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", apperr.ErrEmptyResponse
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	// An empty "success" must surface as an error: callers cannot tell
	// no content apart from not yet generated.
	if strings.TrimSpace(text.String()) == "" {
		return "", apperr.ErrEmptyResponse
	}

	return text.String(), nil
}
