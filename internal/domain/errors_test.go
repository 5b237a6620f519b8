package domain

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestValidationErrorEnvelope(t *testing.T) {
	err := NewValidationError("goal", "is required")
	if err.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", err.StatusCode())
	}
	body, ok := err.ToMap()["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error envelope, got %+v", err.ToMap())
	}
	if body["code"] != CodeValidation || body["field"] != "goal" || body["message"] != "is required" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if !strings.Contains(err.Error(), "VALIDATION_ERROR") || !strings.Contains(err.Error(), "400") {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestServiceErrorWrapsCause(t *testing.T) {
	cause := errors.New("upstream 503")
	err := NewServiceError(CodeGenerationFailed, "failed to generate content", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
	if err.Code() != CodeGenerationFailed || err.StatusCode() != http.StatusBadGateway {
		t.Fatalf("unexpected code/status: %s %d", err.Code(), err.StatusCode())
	}
	if !strings.Contains(err.Error(), "upstream 503") {
		t.Fatalf("expected cause in message, got %q", err.Error())
	}

	var zero ServiceError
	if zero.Code() != CodeLLMService {
		t.Fatalf("expected default code %s, got %s", CodeLLMService, zero.Code())
	}
}

func TestInitErrorEnvelope(t *testing.T) {
	err := &InitError{Message: "failed to init gemini client", Err: errors.New("boom")}
	body := err.ToMap()["error"].(map[string]any)
	if body["code"] != CodeLLMInitFailed || body["status_code"] != http.StatusInternalServerError {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if errors.Unwrap(err) == nil {
		t.Fatalf("expected wrapped cause")
	}
}
