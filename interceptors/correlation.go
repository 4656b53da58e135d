package interceptors

import (
	"context"

	"github.com/crosswire/crosswire-go/channel"
	"github.com/crosswire/crosswire-go/contracts"
	"github.com/google/uuid"
)

// CorrelationInterceptor stamps outgoing messages that have no correlation
// ID with a generated one.
type CorrelationInterceptor struct {
	channel.BaseInterceptor
}

// NewCorrelationInterceptor creates a new correlation interceptor
func NewCorrelationInterceptor() *CorrelationInterceptor {
	return &CorrelationInterceptor{}
}

// PreSend assigns a correlation ID if missing
func (i *CorrelationInterceptor) PreSend(ctx context.Context, msg contracts.Message, ch *channel.Channel) (contracts.Message, error) {
	if msg.GetCorrelationID() == "" {
		msg.SetCorrelationID(uuid.NewString())
	}
	return msg, nil
}

// Name implements the optional naming hook used in log lines
func (i *CorrelationInterceptor) Name() string {
	return "CorrelationInterceptor"
}
