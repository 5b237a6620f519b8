package service

import (
	"context"
	"errors"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"learnpath/internal/domain"
	"learnpath/internal/history"
	"learnpath/internal/llm"
)

var ErrSessionNotFound = errors.New("session not found")

// ChatSession es una conversacion aislada: historial propio y un turno a la vez.
type ChatSession struct {
	ID        string
	CreatedAt time.Time

	mu   sync.Mutex
	chat *ChatService
}

// Send procesa un turno completo. El lock se mantiene mientras el caller itera,
// asi dos turnos de la misma sesion nunca se intercalan.
func (s *ChatSession) Send(ctx context.Context, input string) iter.Seq[string] {
	return func(yield func(string) bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for chunk := range s.chat.ProcessMessage(ctx, input) {
			if !yield(chunk) {
				return
			}
		}
	}
}

// Messages devuelve una copia del historial.
func (s *ChatSession) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ChatMessage(nil), s.chat.History()...)
}

func (s *ChatSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat.ClearHistory()
}

func (s *ChatSession) State() ChatState {
	return s.chat.State()
}

// SessionRegistry reemplaza al historial global: cada sesion se crea y se busca explicitamente.
type SessionRegistry struct {
	client         llm.Client
	maxInputLength int
	logger         *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*ChatSession
}

func NewSessionRegistry(client llm.Client, maxInputLength int, logger *zap.Logger) *SessionRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRegistry{
		client:         client,
		maxInputLength: maxInputLength,
		logger:         logger,
		sessions:       make(map[string]*ChatSession),
	}
}

func (r *SessionRegistry) Create() *ChatSession {
	id := uuid.NewString()
	logger := r.logger.With(zap.String("session_id", id))
	session := &ChatSession{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		chat:      NewChatService(r.client, history.NewMemory(), r.maxInputLength, logger),
	}

	r.mu.Lock()
	r.sessions[id] = session
	r.mu.Unlock()

	logger.Info("chat session created")
	return session
}

func (r *SessionRegistry) Get(id string) (*ChatSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (r *SessionRegistry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	r.logger.Info("chat session deleted", zap.String("session_id", id))
	return nil
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
