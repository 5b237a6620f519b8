package llm

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"learnpath/internal/domain"
	"learnpath/internal/retry"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"

	defaultRequestTimeout = 60 * time.Second
	defaultStreamTimeout  = 120 * time.Second
)

// Config agrupa lo necesario para construir un Gateway.
type Config struct {
	Provider       string
	APIKey         string
	Model          string
	BaseURL        string
	SystemPrompt   string
	RequestTimeout time.Duration
	StreamTimeout  time.Duration

	MaxRetries    int
	RetryMinDelay time.Duration
	RetryMaxDelay time.Duration

	// HTTPClient opcional, usado en tests para apuntar a un servidor local.
	HTTPClient *http.Client
}

func (c Config) validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return domain.NewValidationError("api_key", "API key is required for provider %s", c.Provider)
	}
	if strings.TrimSpace(c.Model) == "" {
		return domain.NewValidationError("model", "model name is required")
	}
	return nil
}

// Gateway implementa Client sobre un Backend: valida input, aplica timeouts,
// reintenta GenerateText y traduce fallas del proveedor a la taxonomia de dominio.
type Gateway struct {
	backend        Backend
	requestTimeout time.Duration
	streamTimeout  time.Duration
	retry          retry.Policy
	logger         *zap.Logger
}

// NewGateway valida la configuracion y construye el backend del proveedor elegido.
func NewGateway(ctx context.Context, cfg Config, logger *zap.Logger) (*Gateway, error) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderGemini
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	backend, err := NewBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("llm gateway initialized",
			zap.String("provider", cfg.Provider),
			zap.String("model", cfg.Model),
		)
	}
	return NewGatewayWithBackend(cfg, backend, logger), nil
}

// NewGatewayWithBackend arma el gateway sobre un backend ya construido.
func NewGatewayWithBackend(cfg Config, backend Backend, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	streamTimeout := cfg.StreamTimeout
	if streamTimeout <= 0 {
		streamTimeout = defaultStreamTimeout
	}
	g := &Gateway{
		backend:        backend,
		requestTimeout: requestTimeout,
		streamTimeout:  streamTimeout,
		logger:         logger,
	}
	g.retry = retry.Policy{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   cfg.RetryMinDelay,
		MaxDelay:    cfg.RetryMaxDelay,
		Retryable:   g.isTransient,
		Logger:      logger,
	}
	return g
}

// WithSleep reemplaza la espera entre reintentos. Solo para tests.
func (g *Gateway) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Gateway {
	g.retry.Sleep = sleep
	return g
}

func (g *Gateway) isTransient(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || g.backend.IsTransient(err)
}

func (g *Gateway) GenerateText(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", domain.NewValidationError("prompt", "prompt must not be empty")
	}

	generate := retry.Wrap(g.retry, func(ctx context.Context) (string, error) {
		reqCtx, cancel := context.WithTimeout(ctx, g.requestTimeout)
		defer cancel()
		return g.backend.Generate(reqCtx, prompt)
	})

	text, err := generate(ctx)
	if err != nil {
		g.logger.Error("llm generation failed",
			zap.Int("prompt_length", len(prompt)),
			zap.Error(err),
		)
		return "", domain.NewServiceError(domain.CodeGenerationFailed, "failed to generate content", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		g.logger.Warn("llm returned empty response", zap.Int("prompt_length", len(prompt)))
		return "", domain.NewServiceError(domain.CodeEmptyResponse, "llm returned an empty response", nil)
	}
	return text, nil
}

func (g *Gateway) StreamChat(ctx context.Context, history []domain.ChatMessage, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if strings.TrimSpace(message) == "" {
			yield("", domain.NewValidationError("message", "message must not be empty"))
			return
		}

		streamCtx, cancel := context.WithTimeout(ctx, g.streamTimeout)
		defer cancel()

		for chunk, err := range g.backend.Stream(streamCtx, history, message) {
			if err != nil {
				g.logger.Error("llm stream failed",
					zap.Int("history_length", len(history)),
					zap.Error(err),
				)
				yield("", domain.NewServiceError(domain.CodeStreamFailed, "failed to stream response", err))
				return
			}
			if chunk == "" {
				continue
			}
			if !yield(chunk, nil) {
				return
			}
		}

		// algunos SDK cortan el stream en silencio al vencer el contexto
		if err := streamCtx.Err(); err != nil {
			g.logger.Error("llm stream interrupted", zap.Error(err))
			yield("", domain.NewServiceError(domain.CodeStreamFailed, "stream interrupted", err))
		}
	}
}
