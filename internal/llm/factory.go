package llm

import (
	"context"
	"fmt"

	"learnpath/internal/domain"
)

// NewBackend elige la implementacion segun cfg.Provider.
func NewBackend(ctx context.Context, cfg Config) (Backend, error) {
	switch cfg.Provider {
	case "", ProviderGemini:
		return NewGeminiBackend(ctx, cfg)
	case ProviderOpenAI:
		return NewOpenAIBackend(cfg), nil
	case ProviderMock:
		return NewMockBackend(), nil
	default:
		return nil, domain.NewValidationError("provider", "unsupported llm provider %q", cfg.Provider)
	}
}

// initError clasifica una falla al construir el cliente del SDK: credenciales
// rechazadas son error de validacion, el resto es LLM_INIT_FAILED.
func initError(provider string, code int, err error) error {
	switch code {
	case 400, 401, 403:
		return &domain.ValidationError{
			Field:   "api_key",
			Message: fmt.Sprintf("invalid %s API key or model name", provider),
			Err:     err,
		}
	}
	return &domain.InitError{Message: fmt.Sprintf("failed to initialize %s client", provider), Err: err}
}
