package channel

import (
	"context"
	"log/slog"

	"github.com/crosswire/crosswire-go/contracts"
)

// interceptorChain orchestrates the interceptor passes for a single send or
// receive call. A fresh chain is created per call and works off the
// interceptor snapshot captured at call start, so a concurrent registry
// change never shifts which interceptor an index refers to mid-call.
//
// The progress counters record how far the matching pre pass got; the
// completion passes run in reverse and are bounded by them, so only
// interceptors whose pre hook completed get a completion callback.
type interceptorChain struct {
	interceptors []ChannelInterceptor
	logger       *slog.Logger

	sendInterceptorIndex    int
	receiveInterceptorIndex int
}

func newChain(interceptors []ChannelInterceptor, logger *slog.Logger) *interceptorChain {
	return &interceptorChain{
		interceptors:            interceptors,
		logger:                  logger,
		sendInterceptorIndex:    -1,
		receiveInterceptorIndex: -1,
	}
}

// applyPreSend runs the forward pre-send pass. It returns the possibly
// transformed message, or nil with a nil error when an interceptor vetoed
// the send. On veto the completion hooks for the interceptors that already
// ran are notified here, with sent=false and no cause.
func (ic *interceptorChain) applyPreSend(ctx context.Context, msg contracts.Message, ch *Channel) (contracts.Message, error) {
	for _, interceptor := range ic.interceptors {
		next, err := interceptor.PreSend(ctx, msg, ch)
		if err != nil {
			return nil, err
		}
		if next == nil {
			ic.logger.Debug("interceptor returned nil from PreSend, precluding the send",
				"channel", ch.name,
				"interceptor", interceptorName(interceptor))
			ic.triggerAfterSendCompletion(ctx, nil, ch, false, nil)
			return nil, nil
		}
		msg = next
		ic.sendInterceptorIndex++
	}
	return msg, nil
}

// applyPostSend runs the forward post-send pass over all interceptors.
func (ic *interceptorChain) applyPostSend(ctx context.Context, msg contracts.Message, ch *Channel, sent bool) error {
	for _, interceptor := range ic.interceptors {
		if err := interceptor.PostSend(ctx, msg, ch, sent); err != nil {
			return err
		}
	}
	return nil
}

// triggerAfterSendCompletion notifies, in reverse order, every interceptor
// whose PreSend completed during this call. Errors and panics from
// individual completion hooks are logged and suppressed so one failing hook
// cannot prevent the remaining notifications or mask the send outcome.
func (ic *interceptorChain) triggerAfterSendCompletion(ctx context.Context, msg contracts.Message, ch *Channel, sent bool, cause error) {
	for i := ic.sendInterceptorIndex; i >= 0; i-- {
		ic.notifySendCompletion(ctx, ic.interceptors[i], msg, ch, sent, cause)
	}
}

func (ic *interceptorChain) notifySendCompletion(ctx context.Context, interceptor ChannelInterceptor, msg contracts.Message, ch *Channel, sent bool, cause error) {
	defer func() {
		if r := recover(); r != nil {
			ic.logger.Error("panic from AfterSendCompletion",
				"channel", ch.name,
				"interceptor", interceptorName(interceptor),
				"panic", r)
		}
	}()
	if err := interceptor.AfterSendCompletion(ctx, msg, ch, sent, cause); err != nil {
		ic.logger.Error("error from AfterSendCompletion",
			"channel", ch.name,
			"interceptor", interceptorName(interceptor),
			"error", err)
	}
}

// applyPreReceive runs the forward pre-receive pass. It returns false with
// a nil error when an interceptor vetoed the receive, after notifying the
// completion hooks for the interceptors that already ran.
func (ic *interceptorChain) applyPreReceive(ctx context.Context, ch *Channel) (bool, error) {
	for _, interceptor := range ic.interceptors {
		proceed, err := interceptor.PreReceive(ctx, ch)
		if err != nil {
			return false, err
		}
		if !proceed {
			ic.logger.Debug("interceptor returned false from PreReceive, precluding the receive",
				"channel", ch.name,
				"interceptor", interceptorName(interceptor))
			ic.triggerAfterReceiveCompletion(ctx, nil, ch, nil)
			return false, nil
		}
		ic.receiveInterceptorIndex++
	}
	return true, nil
}

// applyPostReceive runs the forward post-receive pass. The first
// interceptor to return nil halts the pass and the absence propagates.
func (ic *interceptorChain) applyPostReceive(ctx context.Context, msg contracts.Message, ch *Channel) (contracts.Message, error) {
	for _, interceptor := range ic.interceptors {
		next, err := interceptor.PostReceive(ctx, msg, ch)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		msg = next
	}
	return msg, nil
}

// triggerAfterReceiveCompletion mirrors triggerAfterSendCompletion for the
// receive side, bounded by the pre-receive progress counter.
func (ic *interceptorChain) triggerAfterReceiveCompletion(ctx context.Context, msg contracts.Message, ch *Channel, cause error) {
	for i := ic.receiveInterceptorIndex; i >= 0; i-- {
		ic.notifyReceiveCompletion(ctx, ic.interceptors[i], msg, ch, cause)
	}
}

func (ic *interceptorChain) notifyReceiveCompletion(ctx context.Context, interceptor ChannelInterceptor, msg contracts.Message, ch *Channel, cause error) {
	defer func() {
		if r := recover(); r != nil {
			ic.logger.Error("panic from AfterReceiveCompletion",
				"channel", ch.name,
				"interceptor", interceptorName(interceptor),
				"panic", r)
		}
	}()
	if err := interceptor.AfterReceiveCompletion(ctx, msg, ch, cause); err != nil {
		ic.logger.Error("error from AfterReceiveCompletion",
			"channel", ch.name,
			"interceptor", interceptorName(interceptor),
			"error", err)
	}
}
