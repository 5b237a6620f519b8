package config

import (
	"strings"
	"testing"
	"time"

	"learnpath/internal/llm"
)

func TestLoadConfigFrom_Defaults(t *testing.T) {
	cfg, err := LoadConfigFrom(map[string]string{"GEMINI_API_KEY": "k"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "8080" || cfg.LLMProvider != "gemini" || cfg.GeminiModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.LLMRequestTimeout != 60*time.Second || cfg.LLMStreamTimeout != 120*time.Second {
		t.Fatalf("unexpected timeouts %v / %v", cfg.LLMRequestTimeout, cfg.LLMStreamTimeout)
	}
	if cfg.LLMMaxRetries != 3 || cfg.LLMRetryMinDelay != time.Second || cfg.LLMRetryMaxDelay != 10*time.Second {
		t.Fatalf("unexpected retry defaults %+v", cfg)
	}
	if cfg.ChatMaxInputLength != 4000 || cfg.RoadmapCacheTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults %+v", cfg)
	}

	llmCfg := cfg.LLMConfig("sistema")
	if llmCfg.APIKey != "k" || llmCfg.Model != "gemini-2.5-flash" || llmCfg.SystemPrompt != "sistema" {
		t.Fatalf("unexpected llm config %+v", llmCfg)
	}
}

func TestLoadConfigFrom_OpenAIProvider(t *testing.T) {
	cfg, err := LoadConfigFrom(map[string]string{
		"LLM_PROVIDER":    "openai",
		"OPENAI_API_KEY":  "sk-test",
		"OPENAI_BASE_URL": "http://localhost:11434/v1",
		"LLM_MAX_RETRIES": "5",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	llmCfg := cfg.LLMConfig("")
	if llmCfg.Provider != llm.ProviderOpenAI || llmCfg.APIKey != "sk-test" || llmCfg.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected llm config %+v", llmCfg)
	}
	if llmCfg.BaseURL != "http://localhost:11434/v1" || llmCfg.MaxRetries != 5 {
		t.Fatalf("unexpected llm config %+v", llmCfg)
	}
}

func TestLoadConfigFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"provider", map[string]string{"LLM_PROVIDER": "claude"}, "LLM_PROVIDER"},
		{"retries", map[string]string{"LLM_MAX_RETRIES": "0"}, "LLM_MAX_RETRIES"},
		{"delays", map[string]string{"LLM_RETRY_MIN_DELAY": "5s", "LLM_RETRY_MAX_DELAY": "1s"}, "retry delays"},
		{"log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"log format", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT"},
		{"timeout", map[string]string{"LLM_STREAM_TIMEOUT": "0s"}, "timeouts"},
		{"bad duration", map[string]string{"LLM_REQUEST_TIMEOUT": "soon"}, "LLMRequestTimeout"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfigFrom(tc.env)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}
