package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"learnpath/internal/llm"
)

func TestSessionRegistry_SessionsAreIsolated(t *testing.T) {
	reg := NewSessionRegistry(&llm.MockClient{Chunks: []string{"respuesta"}}, 100, zap.NewNop())
	a := reg.Create()
	b := reg.Create()
	if a.ID == b.ID {
		t.Fatalf("expected distinct session ids")
	}

	for range a.Send(context.Background(), "hola") {
	}

	if len(a.Messages()) != 2 {
		t.Fatalf("expected 2 messages in session a, got %d", len(a.Messages()))
	}
	if len(b.Messages()) != 0 {
		t.Fatalf("expected session b untouched, got %d", len(b.Messages()))
	}
}

func TestSessionRegistry_GetAndDelete(t *testing.T) {
	reg := NewSessionRegistry(&llm.MockClient{}, 100, nil)
	s := reg.Create()

	got, err := reg.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("expected session, got %v / %v", got, err)
	}
	if err := reg.Delete(s.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := reg.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := reg.Delete(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on second delete, got %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Len())
	}
}

func TestChatSession_MessagesReturnsCopyAndClear(t *testing.T) {
	reg := NewSessionRegistry(&llm.MockClient{Chunks: []string{"ok"}}, 100, nil)
	s := reg.Create()
	for range s.Send(context.Background(), "hola") {
	}

	msgs := s.Messages()
	msgs[0].Content = "alterado"
	if s.Messages()[0].Content != "hola" {
		t.Fatalf("expected history unaffected by caller mutation")
	}

	s.Clear()
	if len(s.Messages()) != 0 {
		t.Fatalf("expected cleared history")
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle state, got %s", s.State())
	}
}
