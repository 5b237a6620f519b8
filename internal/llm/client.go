package llm

import (
	"context"
	"iter"

	"learnpath/internal/domain"
)

// Client es la capacidad que consumen los servicios: texto completo o streaming de chat.
type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	StreamChat(ctx context.Context, history []domain.ChatMessage, message string) iter.Seq2[string, error]
}

// Backend es la costura con el SDK de cada proveedor. No aplica reintentos ni traduce errores;
// eso lo hace Gateway.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Stream(ctx context.Context, history []domain.ChatMessage, message string) iter.Seq2[string, error]
	// IsTransient indica si el error del proveedor amerita reintento (rate limit, 5xx, timeouts).
	IsTransient(err error) bool
}

func transientHTTPStatus(code int) bool {
	switch code {
	case 408, 429, 500, 502, 503, 504:
		return true
	}
	return false
}
