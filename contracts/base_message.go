package contracts

import (
	"time"

	"github.com/google/uuid"
)

// BaseMessage provides common fields for all message types
type BaseMessage struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Type          string    `json:"type"`
	CorrelationID string    `json:"correlationId,omitempty"`
}

// NewBaseMessage creates a new base message with generated ID and current timestamp
func NewBaseMessage(messageType string) BaseMessage {
	return BaseMessage{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Type:      messageType,
	}
}

// GetID returns the message ID
func (m BaseMessage) GetID() string {
	return m.ID
}

// GetTimestamp returns the message timestamp
func (m BaseMessage) GetTimestamp() time.Time {
	return m.Timestamp
}

// GetType returns the message type
func (m BaseMessage) GetType() string {
	return m.Type
}

// GetCorrelationID returns the correlation ID
func (m BaseMessage) GetCorrelationID() string {
	return m.CorrelationID
}

// SetCorrelationID sets the correlation ID
func (m *BaseMessage) SetCorrelationID(correlationID string) {
	m.CorrelationID = correlationID
}

// GenericMessage carries an opaque payload and free-form headers for callers
// that have no typed message definition of their own.
type GenericMessage struct {
	BaseMessage
	Headers map[string]interface{} `json:"headers,omitempty"`
	Payload []byte                 `json:"payload,omitempty"`
}

// NewGenericMessage creates a generic message with the given type and payload
func NewGenericMessage(messageType string, payload []byte) *GenericMessage {
	return &GenericMessage{
		BaseMessage: NewBaseMessage(messageType),
		Headers:     make(map[string]interface{}),
		Payload:     payload,
	}
}

// GetHeaders returns the message headers
func (m *GenericMessage) GetHeaders() map[string]interface{} {
	return m.Headers
}

// SetHeader sets a single header value
func (m *GenericMessage) SetHeader(key string, value interface{}) {
	if m.Headers == nil {
		m.Headers = make(map[string]interface{})
	}
	m.Headers[key] = value
}

// GetPayload returns the raw payload
func (m *GenericMessage) GetPayload() []byte {
	return m.Payload
}
