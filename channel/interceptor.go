package channel

import (
	"context"
	"fmt"

	"github.com/crosswire/crosswire-go/contracts"
)

// ChannelInterceptor wraps send and receive operations on a channel with
// lifecycle hooks. Interceptors are registered on a channel in a fixed
// order; that order is the invocation order for the pre/post hooks and the
// reverse order for the completion hooks.
//
// A hook signals a veto by returning a nil message (PreSend, PostReceive)
// or false (PreReceive) together with a nil error. A non-nil error from any
// pre/post hook aborts the operation and takes the fault path instead.
type ChannelInterceptor interface {
	// PreSend is invoked before the message is handed to the transport.
	// It may return a transformed message, the message unchanged, or nil
	// to veto the send.
	PreSend(ctx context.Context, msg contracts.Message, ch *Channel) (contracts.Message, error)

	// PostSend is invoked after the transport step, once pre-send fully
	// passed, with the transport's verdict.
	PostSend(ctx context.Context, msg contracts.Message, ch *Channel, sent bool) error

	// AfterSendCompletion is invoked in reverse registration order after a
	// send completes, succeeds or fails, but only if this interceptor's
	// PreSend completed successfully during the same call. A returned
	// error is logged and suppressed, never propagated. msg is nil when
	// the send was vetoed.
	AfterSendCompletion(ctx context.Context, msg contracts.Message, ch *Channel, sent bool, cause error) error

	// PreReceive is invoked before the transport is polled. Returning
	// false vetoes the receive.
	PreReceive(ctx context.Context, ch *Channel) (bool, error)

	// PostReceive is invoked once a message is available. It may return a
	// transformed message or nil to discard it.
	PostReceive(ctx context.Context, msg contracts.Message, ch *Channel) (contracts.Message, error)

	// AfterReceiveCompletion mirrors AfterSendCompletion for the receive
	// side. msg is nil when nothing was received.
	AfterReceiveCompletion(ctx context.Context, msg contracts.Message, ch *Channel, cause error) error
}

// BaseInterceptor provides no-op implementations of every hook. Embed it
// and override only the hooks you need.
type BaseInterceptor struct{}

// PreSend returns the message unchanged
func (BaseInterceptor) PreSend(ctx context.Context, msg contracts.Message, ch *Channel) (contracts.Message, error) {
	return msg, nil
}

// PostSend does nothing
func (BaseInterceptor) PostSend(ctx context.Context, msg contracts.Message, ch *Channel, sent bool) error {
	return nil
}

// AfterSendCompletion does nothing
func (BaseInterceptor) AfterSendCompletion(ctx context.Context, msg contracts.Message, ch *Channel, sent bool, cause error) error {
	return nil
}

// PreReceive allows the receive
func (BaseInterceptor) PreReceive(ctx context.Context, ch *Channel) (bool, error) {
	return true, nil
}

// PostReceive returns the message unchanged
func (BaseInterceptor) PostReceive(ctx context.Context, msg contracts.Message, ch *Channel) (contracts.Message, error) {
	return msg, nil
}

// AfterReceiveCompletion does nothing
func (BaseInterceptor) AfterReceiveCompletion(ctx context.Context, msg contracts.Message, ch *Channel, cause error) error {
	return nil
}

// interceptorName resolves a diagnostic name for log lines. Interceptors
// may implement Name(); otherwise the dynamic type is used.
func interceptorName(i ChannelInterceptor) string {
	if n, ok := i.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", i)
}
