package domain

import (
	"fmt"
	"net/http"
)

// Codigos estables expuestos al cliente en el envelope {"error": {...}}.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeLLMService       = "LLM_SERVICE_ERROR"
	CodeGenerationFailed = "GENERATION_FAILED"
	CodeEmptyResponse    = "EMPTY_RESPONSE"
	CodeStreamFailed     = "STREAM_FAILED"
	CodeLLMInitFailed    = "LLM_INIT_FAILED"
)

// ValidationError indica input mal formado o incompleto. Es culpa del caller y nunca se reintenta.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s (%d): %s", CodeValidation, http.StatusBadRequest, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s: %s", CodeValidation, http.StatusBadRequest, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Code() string { return CodeValidation }

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *ValidationError) ToMap() map[string]any {
	body := map[string]any{
		"code":        CodeValidation,
		"message":     e.Message,
		"status_code": http.StatusBadRequest,
	}
	if e.Field != "" {
		body["field"] = e.Field
	}
	return map[string]any{"error": body}
}

// ServiceError cubre fallas del proveedor LLM: red, cuota, 5xx, respuesta vacia o bloqueada.
type ServiceError struct {
	ErrCode string
	Message string
	Err     error
}

func NewServiceError(code, message string, cause error) *ServiceError {
	return &ServiceError{ErrCode: code, Message: message, Err: cause}
}

func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("%s (%d): %s", e.Code(), e.StatusCode(), e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ServiceError) Unwrap() error { return e.Err }

func (e *ServiceError) Code() string {
	if e.ErrCode == "" {
		return CodeLLMService
	}
	return e.ErrCode
}

func (e *ServiceError) StatusCode() int { return http.StatusBadGateway }

func (e *ServiceError) ToMap() map[string]any {
	return map[string]any{"error": map[string]any{
		"code":        e.Code(),
		"message":     e.Message,
		"status_code": e.StatusCode(),
	}}
}

// InitError se produce al construir el cliente LLM con una configuracion que el SDK rechaza.
type InitError struct {
	Message string
	Err     error
}

func (e *InitError) Error() string {
	msg := fmt.Sprintf("%s (%d): %s", CodeLLMInitFailed, http.StatusInternalServerError, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InitError) Unwrap() error { return e.Err }

func (e *InitError) Code() string { return CodeLLMInitFailed }

func (e *InitError) StatusCode() int { return http.StatusInternalServerError }

func (e *InitError) ToMap() map[string]any {
	return map[string]any{"error": map[string]any{
		"code":        CodeLLMInitFailed,
		"message":     e.Message,
		"status_code": http.StatusInternalServerError,
	}}
}
