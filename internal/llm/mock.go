package llm

import (
	"context"
	"iter"
	"strings"

	"learnpath/internal/domain"
)

// MockBackend responde con texto fijo. Sirve para correr el CLI y la API sin credenciales.
type MockBackend struct {
	Response string
}

func NewMockBackend() *MockBackend {
	return &MockBackend{Response: "Hola! Soy LearnPath (modo demo). Contame que queres aprender y armamos un plan."}
}

func (m *MockBackend) Generate(ctx context.Context, prompt string) (string, error) {
	return m.Response, ctx.Err()
}

func (m *MockBackend) Stream(ctx context.Context, _ []domain.ChatMessage, _ string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, word := range strings.SplitAfter(m.Response, " ") {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(word, nil) {
				return
			}
		}
	}
}

func (m *MockBackend) IsTransient(error) bool { return false }

// MockClient permite tests de servicios sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error
	// Chunks y StreamErr guionan StreamChat: se emiten los chunks y luego StreamErr si no es nil.
	Chunks    []string
	StreamErr error

	Prompts  []string
	Messages []string
	Contexts [][]domain.ChatMessage
}

func (m *MockClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, m.Err
}

func (m *MockClient) StreamChat(ctx context.Context, history []domain.ChatMessage, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		m.Messages = append(m.Messages, message)
		m.Contexts = append(m.Contexts, append([]domain.ChatMessage(nil), history...))
		for _, c := range m.Chunks {
			if !yield(c, nil) {
				return
			}
		}
		if m.StreamErr != nil {
			yield("", m.StreamErr)
		}
	}
}
