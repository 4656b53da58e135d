// Package inmem provides an in-memory, bounded-queue transport. It is the
// default transport for tests and for wiring channels inside one process.
package inmem

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/crosswire/crosswire-go/channel"
	"github.com/crosswire/crosswire-go/contracts"
)

// ErrClosed is returned by Send and Receive after Close.
var ErrClosed = errors.New("inmem: transport closed")

// Transport is a bounded in-memory queue implementing both
// channel.Transport and channel.ReceivingTransport.
//
// Timeout semantics: a negative timeout (channel.IndefiniteTimeout) blocks
// until the operation can proceed or the context is done; a zero timeout
// tries once without blocking; a positive timeout blocks up to that long.
// A full queue or an empty queue within the timeout is a decline, not an
// error.
type Transport struct {
	queue chan contracts.Message

	closeOnce sync.Once
	done      chan struct{}
}

var _ channel.ReceivingTransport = (*Transport)(nil)

// New creates a transport with the given queue capacity.
func New(capacity int) *Transport {
	if capacity < 0 {
		capacity = 0
	}
	return &Transport{
		queue: make(chan contracts.Message, capacity),
		done:  make(chan struct{}),
	}
}

// Send implements channel.Transport
func (t *Transport) Send(ctx context.Context, msg contracts.Message, timeout time.Duration) (bool, error) {
	if timeout == 0 {
		select {
		case <-t.done:
			return false, ErrClosed
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}
		select {
		case t.queue <- msg:
			return true, nil
		default:
			return false, nil
		}
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case t.queue <- msg:
		return true, nil
	case <-expired:
		return false, nil
	case <-t.done:
		return false, ErrClosed
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Receive implements channel.ReceivingTransport. Messages queued before
// Close are still drained afterwards.
func (t *Transport) Receive(ctx context.Context, timeout time.Duration) (contracts.Message, error) {
	select {
	case msg := <-t.queue:
		return msg, nil
	default:
	}

	if timeout == 0 {
		select {
		case <-t.done:
			return nil, ErrClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			return nil, nil
		}
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case msg := <-t.queue:
		return msg, nil
	case <-expired:
		return nil, nil
	case <-t.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of queued messages
func (t *Transport) Len() int {
	return len(t.queue)
}

// Cap returns the queue capacity
func (t *Transport) Cap() int {
	return cap(t.queue)
}

// Close stops the transport. Pending Receive calls still drain queued
// messages; new sends fail with ErrClosed.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)
	})
	return nil
}
