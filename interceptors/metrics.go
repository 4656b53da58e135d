package interceptors

import (
	"context"

	"github.com/crosswire/crosswire-go/channel"
	"github.com/crosswire/crosswire-go/contracts"
)

// MetricsCollector receives channel traffic metrics
type MetricsCollector interface {
	// RecordSend records a completed send attempt
	RecordSend(channelName, messageType string, sent bool, err error)

	// RecordReceive records a completed receive attempt
	RecordReceive(channelName, messageType string, err error)
}

// MetricsInterceptor reports send and receive outcomes to a collector. It
// observes from the completion hooks, so vetoed and failed operations are
// counted too.
type MetricsInterceptor struct {
	channel.BaseInterceptor
	collector MetricsCollector
}

// NewMetricsInterceptor creates a new metrics interceptor
func NewMetricsInterceptor(collector MetricsCollector) *MetricsInterceptor {
	return &MetricsInterceptor{collector: collector}
}

// AfterSendCompletion records the send outcome
func (i *MetricsInterceptor) AfterSendCompletion(ctx context.Context, msg contracts.Message, ch *channel.Channel, sent bool, cause error) error {
	i.collector.RecordSend(ch.Name(), messageType(msg), sent, cause)
	return nil
}

// AfterReceiveCompletion records the receive outcome
func (i *MetricsInterceptor) AfterReceiveCompletion(ctx context.Context, msg contracts.Message, ch *channel.Channel, cause error) error {
	i.collector.RecordReceive(ch.Name(), messageType(msg), cause)
	return nil
}

// Name implements the optional naming hook used in log lines
func (i *MetricsInterceptor) Name() string {
	return "MetricsInterceptor"
}
