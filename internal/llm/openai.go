package llm

import (
	"context"
	"errors"
	"iter"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"learnpath/internal/domain"
)

// OpenAIBackend cubre OpenAI y cualquier API compatible con chat completions.
type OpenAIBackend struct {
	client       openai.Client
	model        string
	systemPrompt string
}

func NewOpenAIBackend(cfg Config) *OpenAIBackend {
	// los reintentos los maneja el Gateway
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	return &OpenAIBackend{
		client:       openai.NewClient(opts...),
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
	}
}

func (b *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := b.client.Chat.Completions.New(ctx, b.params(nil, prompt))
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", nil
	}
	return res.Choices[0].Message.Content, nil
}

func (b *OpenAIBackend) Stream(ctx context.Context, history []domain.ChatMessage, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stream := b.client.Chat.Completions.NewStreaming(ctx, b.params(history, message))
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if !yield(chunk.Choices[0].Delta.Content, nil) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			yield("", err)
		}
	}
}

func (b *OpenAIBackend) IsTransient(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 409 || transientHTTPStatus(apiErr.StatusCode) || apiErr.StatusCode > 500
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func (b *OpenAIBackend) params(history []domain.ChatMessage, message string) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if b.systemPrompt != "" {
		msgs = append(msgs, openai.SystemMessage(b.systemPrompt))
	}
	for _, m := range history {
		switch m.Role {
		case domain.RoleUser:
			msgs = append(msgs, openai.UserMessage(m.Content))
		case domain.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		case domain.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(message))
	return openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(b.model),
		Messages: msgs,
	}
}
