package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"learnpath/internal/config"
)

func TestNew_WritesJSONAtConfiguredLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := New(&config.Config{LogLevel: "warn", LogFormat: "json", LogOutput: path})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info disabled at warn level")
	}
	logger.Warn("roadmap cache set failed")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"roadmap cache set failed"`) || !strings.Contains(out, `"service":"learnpath"`) {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New(&config.Config{LogLevel: "verbose", LogFormat: "json"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
