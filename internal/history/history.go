// Package history guarda la conversacion de una sesion en memoria.
package history

import "learnpath/internal/domain"

// Store es el historial de una conversacion, en orden de insercion.
type Store interface {
	Add(msg domain.ChatMessage)
	// Load devuelve una vista del historial; el caller no debe modificarla.
	Load() []domain.ChatMessage
	Clear()
}

// Memory es un Store en memoria. No es seguro para uso concurrente: cada sesion
// tiene un unico escritor.
type Memory struct {
	messages []domain.ChatMessage
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Add(msg domain.ChatMessage) {
	m.messages = append(m.messages, msg)
}

func (m *Memory) Load() []domain.ChatMessage {
	return m.messages
}

func (m *Memory) Clear() {
	m.messages = nil
}

// Len devuelve la cantidad de mensajes guardados.
func (m *Memory) Len() int {
	return len(m.messages)
}
