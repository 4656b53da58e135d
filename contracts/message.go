package contracts

import (
	"time"
)

// Message is the base interface for all messages flowing through a channel.
// The channel pipeline treats messages as opaque values: it never inspects
// or mutates content, it only forwards whatever each interceptor hook
// returns onward.
type Message interface {
	GetID() string
	GetTimestamp() time.Time
	GetType() string
	GetCorrelationID() string
	SetCorrelationID(correlationID string)
}

// HeaderCarrier is implemented by messages that expose free-form headers.
type HeaderCarrier interface {
	GetHeaders() map[string]interface{}
}

// PayloadCarrier is implemented by messages that carry a raw payload.
type PayloadCarrier interface {
	GetPayload() []byte
}
