package service

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"go.uber.org/zap"

	"learnpath/internal/domain"
	"learnpath/internal/history"
	"learnpath/internal/llm"
)

// Fragmentos fijos que ve el usuario. Nunca se guardan en el historial.
const (
	MsgEmptyInput      = "Por favor, escribe tu mensaje."
	MsgInputTooLong    = "Tu mensaje es demasiado largo. Acórtalo e inténtalo de nuevo."
	MsgConnectionError = "\n\n[Error de conexión: no se pudo completar la respuesta, inténtalo de nuevo]"
	MsgSystemError     = "\n\n[Error del sistema: ocurrió un problema inesperado]"

	DefaultMaxInputLength = 4000
)

// ChatState es la etapa del turno en curso.
type ChatState string

const (
	StateIdle            ChatState = "idle"
	StateValidatingInput ChatState = "validating_input"
	StateBuildingContext ChatState = "building_context"
	StateStreaming       ChatState = "streaming"
	StateCommitting      ChatState = "committing"
	StateDiscarding      ChatState = "discarding"
)

// ChatService maneja un turno de conversacion de punta a punta sobre un historial propio.
type ChatService struct {
	client         llm.Client
	history        history.Store
	maxInputLength int
	logger         *zap.Logger
	state          atomic.Value
}

func NewChatService(client llm.Client, store history.Store, maxInputLength int, logger *zap.Logger) *ChatService {
	if maxInputLength <= 0 {
		maxInputLength = DefaultMaxInputLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ChatService{
		client:         client,
		history:        store,
		maxInputLength: maxInputLength,
		logger:         logger,
	}
	s.state.Store(StateIdle)
	return s
}

func (s *ChatService) State() ChatState {
	return s.state.Load().(ChatState)
}

func (s *ChatService) setState(st ChatState) {
	s.state.Store(st)
}

// ProcessMessage devuelve los fragmentos de la respuesta a medida que llegan.
// Nunca devuelve errores ni deja escapar un panic del cliente: toda falla se convierte
// en un fragmento de texto y el turno fallido no se guarda como respuesta del asistente.
func (s *ChatService) ProcessMessage(ctx context.Context, input string) iter.Seq[string] {
	return func(yield func(string) bool) {
		s.setState(StateValidatingInput)
		defer s.setState(StateIdle)

		var (
			response strings.Builder
			errored  bool
			stopped  bool
			// inYield distingue un panic del consumidor (se propaga) de uno del cliente LLM
			inYield bool
		)
		emit := func(chunk string) bool {
			inYield = true
			ok := yield(chunk)
			inYield = false
			return ok
		}
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if inYield {
				panic(r)
			}
			s.setState(StateDiscarding)
			s.logger.Error("panic during chat stream",
				zap.String("category", "unexpected"),
				zap.Any("panic", r),
				zap.Int("response_length", response.Len()),
			)
			if !stopped {
				emit(MsgSystemError)
			}
		}()

		message := strings.TrimSpace(input)
		if message == "" {
			s.logger.Warn("empty chat input received")
			emit(MsgEmptyInput)
			return
		}
		if n := utf8.RuneCountInString(message); n > s.maxInputLength {
			s.logger.Warn("chat input too long",
				zap.Int("input_length", n),
				zap.Int("max_input_length", s.maxInputLength),
			)
			emit(MsgInputTooLong)
			return
		}

		s.setState(StateBuildingContext)
		s.history.Add(domain.NewChatMessage(domain.RoleUser, message))
		turnContext := contextForTurn(s.history.Load())

		s.logger.Info("processing chat turn",
			zap.Int("input_length", len(message)),
			zap.Int("context_length", len(turnContext)),
		)

		s.setState(StateStreaming)
		for chunk, err := range s.client.StreamChat(ctx, turnContext, message) {
			if err != nil {
				fragment := s.failureFragment(err, len(message), len(turnContext))
				response.WriteString(fragment)
				errored = true
				stopped = !emit(fragment)
				break
			}
			response.WriteString(chunk)
			if !emit(chunk) {
				stopped = true
				break
			}
		}

		switch {
		case errored, stopped, response.Len() == 0:
			s.setState(StateDiscarding)
			s.logger.Info("chat turn discarded",
				zap.Bool("errored", errored),
				zap.Bool("consumer_stopped", stopped),
				zap.Int("response_length", response.Len()),
			)
		default:
			s.setState(StateCommitting)
			s.history.Add(domain.NewChatMessage(domain.RoleAssistant, response.String()))
			s.logger.Info("chat turn committed", zap.Int("response_length", response.Len()))
		}
	}
}

// History devuelve el historial de la sesion. Es una vista, no una copia.
func (s *ChatService) History() []domain.ChatMessage {
	return s.history.Load()
}

func (s *ChatService) ClearHistory() {
	s.history.Clear()
}

func (s *ChatService) failureFragment(err error, inputLength, contextLength int) string {
	var sErr *domain.ServiceError
	if errors.As(err, &sErr) {
		s.logger.Error("llm service error during chat stream",
			zap.String("category", "llm_service"),
			zap.Int("input_length", inputLength),
			zap.Int("context_length", contextLength),
			zap.Error(err),
		)
		return MsgConnectionError
	}
	s.logger.Error("unexpected error during chat stream",
		zap.String("category", "unexpected"),
		zap.Int("input_length", inputLength),
		zap.Int("context_length", contextLength),
		zap.Error(err),
	)
	return MsgSystemError
}

// contextForTurn excluye el mensaje recien agregado. En el primer turno el contexto es vacio.
func contextForTurn(all []domain.ChatMessage) []domain.ChatMessage {
	if len(all) <= 1 {
		return nil
	}
	n := len(all) - 1
	return all[:n:n]
}
