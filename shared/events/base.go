package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Base de todos los eventos de integración
type IntegrationEvent struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento
}

// NewIntegrationEvent construye el sobre con el payload ya serializado.
func NewIntegrationEvent(eventType string, payload interface{}) (IntegrationEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return IntegrationEvent{}, err
	}
	return IntegrationEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}
