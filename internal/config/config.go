package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"go.uber.org/zap/zapcore"

	"learnpath/internal/llm"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LLMProvider   string `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	LLMRequestTimeout time.Duration `env:"LLM_REQUEST_TIMEOUT" envDefault:"60s"`
	LLMStreamTimeout  time.Duration `env:"LLM_STREAM_TIMEOUT" envDefault:"120s"`
	LLMMaxRetries     int           `env:"LLM_MAX_RETRIES" envDefault:"3"`
	LLMRetryMinDelay  time.Duration `env:"LLM_RETRY_MIN_DELAY" envDefault:"1s"`
	LLMRetryMaxDelay  time.Duration `env:"LLM_RETRY_MAX_DELAY" envDefault:"10s"`

	ChatMaxInputLength int `env:"CHAT_MAX_INPUT_LENGTH" envDefault:"4000"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	LogOutput string `env:"LOG_OUTPUT" envDefault:"stdout"`

	// Postgres y Redis son opcionales: sin ellos los roadmaps no se guardan ni se cachean.
	DatabaseURL      string        `env:"DATABASE_URL"`
	DatabaseMaxConns int           `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	RoadmapCacheTTL  time.Duration `env:"ROADMAP_CACHE_TTL" envDefault:"24h"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	return parse(env.Options{})
}

// LoadConfigFrom carga la configuración desde un mapa en lugar del entorno del proceso.
func LoadConfigFrom(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rechaza combinaciones que romperian el gateway o el logger en runtime.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case llm.ProviderGemini, llm.ProviderOpenAI, llm.ProviderMock:
	default:
		return fmt.Errorf("config: unsupported LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.LLMRequestTimeout <= 0 || c.LLMStreamTimeout <= 0 {
		return fmt.Errorf("config: llm timeouts must be positive")
	}
	if c.LLMMaxRetries < 1 {
		return fmt.Errorf("config: LLM_MAX_RETRIES must be at least 1, got %d", c.LLMMaxRetries)
	}
	if c.LLMRetryMinDelay <= 0 || c.LLMRetryMaxDelay < c.LLMRetryMinDelay {
		return fmt.Errorf("config: invalid retry delays min=%s max=%s", c.LLMRetryMinDelay, c.LLMRetryMaxDelay)
	}
	if c.ChatMaxInputLength <= 0 {
		return fmt.Errorf("config: CHAT_MAX_INPUT_LENGTH must be positive")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("config: LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	if c.DatabaseMaxConns <= 0 {
		return fmt.Errorf("config: DATABASE_MAX_CONNS must be positive")
	}
	return nil
}

// LLMConfig arma la configuracion del gateway para el proveedor elegido.
func (c *Config) LLMConfig(systemPrompt string) llm.Config {
	out := llm.Config{
		Provider:       c.LLMProvider,
		SystemPrompt:   systemPrompt,
		RequestTimeout: c.LLMRequestTimeout,
		StreamTimeout:  c.LLMStreamTimeout,
		MaxRetries:     c.LLMMaxRetries,
		RetryMinDelay:  c.LLMRetryMinDelay,
		RetryMaxDelay:  c.LLMRetryMaxDelay,
	}
	switch c.LLMProvider {
	case llm.ProviderOpenAI:
		out.APIKey, out.Model, out.BaseURL = c.OpenAIAPIKey, c.OpenAIModel, c.OpenAIBaseURL
	case llm.ProviderGemini:
		out.APIKey, out.Model, out.BaseURL = c.GeminiAPIKey, c.GeminiModel, c.GeminiBaseURL
	}
	return out
}
