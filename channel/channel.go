package channel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crosswire/crosswire-go/contracts"
	"github.com/google/uuid"
)

// IndefiniteTimeout tells the transport to block without a deadline.
const IndefiniteTimeout time.Duration = -1

// Transport is the delivery capability a channel wraps. The channel
// forwards the timeout unchanged; honoring it is the transport's contract.
type Transport interface {
	// Send delivers the message and reports whether the transport
	// accepted it. A false result with a nil error means the transport
	// declined, for example because a bounded queue was full within the
	// timeout.
	Send(ctx context.Context, msg contracts.Message, timeout time.Duration) (bool, error)
}

// ReceivingTransport additionally collects messages from an external
// source. A nil message with a nil error means nothing was available
// within the timeout.
type ReceivingTransport interface {
	Transport
	Receive(ctx context.Context, timeout time.Duration) (contracts.Message, error)
}

// Channel dispatches messages to a transport, wrapping every send in the
// registered interceptors' lifecycle hooks. Concurrent sends on the same
// channel are safe: each call gets its own chain instance working off an
// immutable snapshot of the interceptor list.
type Channel struct {
	name      string
	transport Transport
	logger    *slog.Logger

	mu           sync.RWMutex
	interceptors []ChannelInterceptor
}

// ChannelOption configures a Channel
type ChannelOption func(*Channel)

// WithLogger sets the diagnostic logger
func WithLogger(logger *slog.Logger) ChannelOption {
	return func(c *Channel) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInterceptors registers interceptors in the given order
func WithInterceptors(interceptors ...ChannelInterceptor) ChannelOption {
	return func(c *Channel) {
		c.interceptors = append([]ChannelInterceptor(nil), interceptors...)
	}
}

// NewChannel creates a channel over the given transport. An empty name gets
// a generated one.
func NewChannel(name string, transport Transport, options ...ChannelOption) *Channel {
	c := &Channel{
		name:      name,
		transport: transport,
		logger:    slog.Default(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.name == "" {
		c.name = "channel-" + uuid.NewString()[:8]
	}
	return c
}

// Name returns the channel's display name
func (c *Channel) Name() string {
	return c.name
}

// String implements fmt.Stringer
func (c *Channel) String() string {
	return "Channel[" + c.name + "]"
}

// SetInterceptors replaces all registered interceptors.
func (c *Channel) SetInterceptors(interceptors ...ChannelInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interceptors = append([]ChannelInterceptor(nil), interceptors...)
}

// AddInterceptor appends an interceptor to the end of the list.
func (c *Channel) AddInterceptor(interceptor ChannelInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]ChannelInterceptor, 0, len(c.interceptors)+1)
	next = append(next, c.interceptors...)
	c.interceptors = append(next, interceptor)
}

// AddInterceptorAt inserts an interceptor at the given index. Out-of-range
// indexes are clamped to the ends of the list.
func (c *Channel) AddInterceptorAt(index int, interceptor ChannelInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if index > len(c.interceptors) {
		index = len(c.interceptors)
	}
	next := make([]ChannelInterceptor, 0, len(c.interceptors)+1)
	next = append(next, c.interceptors[:index]...)
	next = append(next, interceptor)
	next = append(next, c.interceptors[index:]...)
	c.interceptors = next
}

// RemoveInterceptor removes the given interceptor, compared by identity,
// and reports whether it was registered.
func (c *Channel) RemoveInterceptor(interceptor ChannelInterceptor) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.interceptors {
		if existing == interceptor {
			next := make([]ChannelInterceptor, 0, len(c.interceptors)-1)
			next = append(next, c.interceptors[:i]...)
			next = append(next, c.interceptors[i+1:]...)
			c.interceptors = next
			return true
		}
	}
	return false
}

// Interceptors returns a copy of the registered interceptors in order.
func (c *Channel) Interceptors() []ChannelInterceptor {
	return append([]ChannelInterceptor(nil), c.snapshot()...)
}

// snapshot returns the current interceptor slice. Mutators always replace
// the slice wholesale, so the returned value is immutable and safe to use
// for every pass of one call.
func (c *Channel) snapshot() []ChannelInterceptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.interceptors
}

// Send dispatches the message with no deadline. Equivalent to
// SendTimeout with IndefiniteTimeout.
func (c *Channel) Send(ctx context.Context, msg contracts.Message) (bool, error) {
	return c.SendTimeout(ctx, msg, IndefiniteTimeout)
}

// SendTimeout dispatches the message through the interceptor pipeline and
// the transport. It returns true if the transport accepted the message,
// false if the transport declined it or an interceptor vetoed it. Errors
// from the transport or from pre/post hooks surface as a DeliveryError
// unless they already carry messaging semantics; either way the completion
// hooks for interceptors whose PreSend ran are notified first, in reverse
// order.
func (c *Channel) SendTimeout(ctx context.Context, msg contracts.Message, timeout time.Duration) (sent bool, err error) {
	if msg == nil {
		return false, ErrNilMessage
	}
	chain := newChain(c.snapshot(), c.logger)
	defer func() {
		if r := recover(); r != nil {
			fault := NewDeliveryError(msg, c.name, fmt.Errorf("panic during send: %v", r))
			chain.triggerAfterSendCompletion(ctx, msg, c, sent, fault)
			sent, err = false, fault
		}
	}()

	next, perr := chain.applyPreSend(ctx, msg, c)
	if perr != nil {
		chain.triggerAfterSendCompletion(ctx, msg, c, false, perr)
		return false, c.fault(msg, perr)
	}
	if next == nil {
		// Vetoed. The pre-send pass already notified the completion
		// hooks for the interceptors that ran.
		return false, nil
	}
	msg = next

	var terr error
	sent, terr = c.transport.Send(ctx, msg, timeout)
	if terr != nil {
		chain.triggerAfterSendCompletion(ctx, msg, c, sent, terr)
		return false, c.fault(msg, terr)
	}

	if perr := chain.applyPostSend(ctx, msg, c, sent); perr != nil {
		chain.triggerAfterSendCompletion(ctx, msg, c, sent, perr)
		return sent, c.fault(msg, perr)
	}

	chain.triggerAfterSendCompletion(ctx, msg, c, sent, nil)
	return sent, nil
}

// fault wraps cause as a DeliveryError unless it already carries messaging
// semantics, in which case it propagates unwrapped.
func (c *Channel) fault(msg contracts.Message, cause error) error {
	if IsMessagingError(cause) {
		return cause
	}
	return NewDeliveryError(msg, c.name, cause)
}

// PollableChannel is a Channel whose transport can also be polled for
// messages. Receives run through the symmetric receive-side interceptor
// passes.
type PollableChannel struct {
	*Channel
	receiver ReceivingTransport
}

// NewPollableChannel creates a pollable channel over the given transport.
func NewPollableChannel(name string, transport ReceivingTransport, options ...ChannelOption) *PollableChannel {
	return &PollableChannel{
		Channel:  NewChannel(name, transport, options...),
		receiver: transport,
	}
}

// Receive polls with no deadline. Equivalent to ReceiveTimeout with
// IndefiniteTimeout.
func (pc *PollableChannel) Receive(ctx context.Context) (contracts.Message, error) {
	return pc.ReceiveTimeout(ctx, IndefiniteTimeout)
}

// ReceiveTimeout polls the transport through the receive-side interceptor
// passes. It returns nil with a nil error when an interceptor vetoed the
// receive, a post-receive hook discarded the message, or nothing was
// available within the timeout.
func (pc *PollableChannel) ReceiveTimeout(ctx context.Context, timeout time.Duration) (msg contracts.Message, err error) {
	chain := newChain(pc.snapshot(), pc.logger)
	defer func() {
		if r := recover(); r != nil {
			fault := NewDeliveryError(msg, pc.name, fmt.Errorf("panic during receive: %v", r))
			chain.triggerAfterReceiveCompletion(ctx, msg, pc.Channel, fault)
			msg, err = nil, fault
		}
	}()

	proceed, perr := chain.applyPreReceive(ctx, pc.Channel)
	if perr != nil {
		chain.triggerAfterReceiveCompletion(ctx, nil, pc.Channel, perr)
		return nil, pc.fault(nil, perr)
	}
	if !proceed {
		return nil, nil
	}

	received, terr := pc.receiver.Receive(ctx, timeout)
	if terr != nil {
		chain.triggerAfterReceiveCompletion(ctx, nil, pc.Channel, terr)
		return nil, pc.fault(nil, terr)
	}

	if received != nil {
		received, perr = chain.applyPostReceive(ctx, received, pc.Channel)
		if perr != nil {
			chain.triggerAfterReceiveCompletion(ctx, nil, pc.Channel, perr)
			return nil, pc.fault(nil, perr)
		}
	}

	chain.triggerAfterReceiveCompletion(ctx, received, pc.Channel, nil)
	return received, nil
}
