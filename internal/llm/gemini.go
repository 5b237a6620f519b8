package llm

import (
	"context"
	"errors"
	"iter"

	"google.golang.org/genai"

	"learnpath/internal/domain"
)

// GeminiBackend habla con la Gemini API via google.golang.org/genai.
type GeminiBackend struct {
	client       *genai.Client
	model        string
	systemPrompt string
}

func NewGeminiBackend(ctx context.Context, cfg Config) (*GeminiBackend, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		cc.HTTPClient = cfg.HTTPClient
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, initError("gemini", geminiStatus(err), err)
	}
	return &GeminiBackend{client: client, model: cfg.Model, systemPrompt: cfg.SystemPrompt}, nil
}

func (b *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), b.generateConfig())
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (b *GeminiBackend) Stream(ctx context.Context, history []domain.ChatMessage, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		contents := geminiContents(history, message)
		for resp, err := range b.client.Models.GenerateContentStream(ctx, b.model, contents, b.generateConfig()) {
			if err != nil {
				yield("", err)
				return
			}
			if !yield(resp.Text(), nil) {
				return
			}
		}
	}
}

func (b *GeminiBackend) IsTransient(err error) bool {
	if code := geminiStatus(err); transientHTTPStatus(code) {
		return true
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case "DEADLINE_EXCEEDED", "RESOURCE_EXHAUSTED", "UNAVAILABLE", "ABORTED":
			return true
		}
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func (b *GeminiBackend) generateConfig() *genai.GenerateContentConfig {
	if b.systemPrompt == "" {
		return nil
	}
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(b.systemPrompt, genai.RoleUser),
	}
}

// geminiContents mapea el historial al formato de Gemini. Los mensajes de sistema
// viajan como SystemInstruction, no como turnos.
func geminiContents(history []domain.ChatMessage, message string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		switch m.Role {
		case domain.RoleUser:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		case domain.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		}
	}
	return append(contents, genai.NewContentFromText(message, genai.RoleUser))
}

func geminiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}
