package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"avyna.com/backend/internal/config"
)

// generateTimeout bounds a single model call. A timeout reaches the caller
// as an ordinary error and takes the same fallback path as an empty
// response.
const generateTimeout = 30 * time.Second

// ErrEmptyModelResponse marks a call that completed without producing any
// text. Callers must treat it as a generation failure, distinct from a
// transport error only in name.
var ErrEmptyModelResponse = errors.New("model returned no text")

// ModelClient is the orchestrator's view of the generative model.
type ModelClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type LLMService struct {
	client    *genai.Client
	modelName string
}

func NewLLMService(cfg config.Config) *LLMService {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &LLMService{
		client:    client,
		modelName: cfg.GeminiModel,
	}
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	model := s.client.GenerativeModel(s.modelName)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyModelResponse
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if strings.TrimSpace(responseText.String()) == "" {
		return "", ErrEmptyModelResponse
	}

	return responseText.String(), nil
}
