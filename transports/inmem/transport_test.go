package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/crosswire/crosswire-go/channel"
	"github.com/crosswire/crosswire-go/contracts"
	"github.com/stretchr/testify/assert"
)

func TestTransport(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips a message", func(t *testing.T) {
		transport := New(1)
		msg := contracts.NewGenericMessage("Test", []byte("payload"))

		sent, err := transport.Send(ctx, msg, 0)
		assert.NoError(t, err)
		assert.True(t, sent)

		received, err := transport.Receive(ctx, 0)
		assert.NoError(t, err)
		assert.Same(t, msg, received)
	})

	t.Run("zero timeout declines when the queue is full", func(t *testing.T) {
		transport := New(1)
		_, err := transport.Send(ctx, contracts.NewGenericMessage("Test", nil), 0)
		assert.NoError(t, err)

		sent, err := transport.Send(ctx, contracts.NewGenericMessage("Test", nil), 0)

		assert.NoError(t, err)
		assert.False(t, sent)
	})

	t.Run("positive timeout expires into a decline", func(t *testing.T) {
		transport := New(1)
		_, err := transport.Send(ctx, contracts.NewGenericMessage("Test", nil), 0)
		assert.NoError(t, err)

		start := time.Now()
		sent, err := transport.Send(ctx, contracts.NewGenericMessage("Test", nil), 20*time.Millisecond)

		assert.NoError(t, err)
		assert.False(t, sent)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("receive with nothing queued returns no message", func(t *testing.T) {
		transport := New(1)

		received, err := transport.Receive(ctx, 0)
		assert.NoError(t, err)
		assert.Nil(t, received)

		received, err = transport.Receive(ctx, 20*time.Millisecond)
		assert.NoError(t, err)
		assert.Nil(t, received)
	})

	t.Run("context cancellation is a fault", func(t *testing.T) {
		transport := New(1)
		_, err := transport.Send(ctx, contracts.NewGenericMessage("Test", nil), 0)
		assert.NoError(t, err)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		sent, err := transport.Send(cancelled, contracts.NewGenericMessage("Test", nil), channel.IndefiniteTimeout)

		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, sent)
	})

	t.Run("send after close fails", func(t *testing.T) {
		transport := New(1)
		assert.NoError(t, transport.Close())

		sent, err := transport.Send(ctx, contracts.NewGenericMessage("Test", nil), 0)

		assert.ErrorIs(t, err, ErrClosed)
		assert.False(t, sent)
	})

	t.Run("close drains queued messages first", func(t *testing.T) {
		transport := New(2)
		msg := contracts.NewGenericMessage("Test", nil)
		_, err := transport.Send(ctx, msg, 0)
		assert.NoError(t, err)
		assert.NoError(t, transport.Close())

		received, err := transport.Receive(ctx, 0)
		assert.NoError(t, err)
		assert.Same(t, msg, received)

		_, err = transport.Receive(ctx, 0)
		assert.ErrorIs(t, err, ErrClosed)
	})

	t.Run("reports length and capacity", func(t *testing.T) {
		transport := New(3)
		_, err := transport.Send(ctx, contracts.NewGenericMessage("Test", nil), 0)
		assert.NoError(t, err)

		assert.Equal(t, 1, transport.Len())
		assert.Equal(t, 3, transport.Cap())
	})

	t.Run("unblocks a waiting receiver", func(t *testing.T) {
		transport := New(0)
		msg := contracts.NewGenericMessage("Test", nil)
		done := make(chan contracts.Message, 1)

		go func() {
			received, err := transport.Receive(ctx, time.Second)
			assert.NoError(t, err)
			done <- received
		}()

		sent, err := transport.Send(ctx, msg, time.Second)
		assert.NoError(t, err)
		assert.True(t, sent)
		assert.Same(t, msg, <-done)
	})
}
