// Package rabbitmq provides a channel.Transport that publishes messages to
// a RabbitMQ exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crosswire/crosswire-go/channel"
	"github.com/crosswire/crosswire-go/contracts"
	"github.com/crosswire/crosswire-go/internal/reliability"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Transport publishes channel messages to a RabbitMQ exchange. It is a
// sending transport only; the broker side of consumption is out of scope
// for the channel pipeline.
type Transport struct {
	conn   *amqp.Connection
	amqpCh *amqp.Channel
	mu     sync.Mutex

	exchange    string
	routingKey  string
	retryPolicy reliability.RetryPolicy
	logger      *slog.Logger
}

var _ channel.Transport = (*Transport)(nil)

// TransportOption configures the transport
type TransportOption func(*Transport)

// WithExchange sets the target exchange, declared as a durable topic
// exchange on connect. Empty means the default exchange.
func WithExchange(exchange string) TransportOption {
	return func(t *Transport) {
		t.exchange = exchange
	}
}

// WithRoutingKey sets the routing key for published messages
func WithRoutingKey(routingKey string) TransportOption {
	return func(t *Transport) {
		t.routingKey = routingKey
	}
}

// WithRetryPolicy sets the retry policy for transient publish failures
func WithRetryPolicy(policy reliability.RetryPolicy) TransportOption {
	return func(t *Transport) {
		t.retryPolicy = policy
	}
}

// WithTransportLogger sets the logger
func WithTransportLogger(logger *slog.Logger) TransportOption {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTransport connects to the broker and prepares the target exchange.
func NewTransport(connectionString string, options ...TransportOption) (*Transport, error) {
	t := &Transport{
		routingKey:  "crosswire.messages",
		retryPolicy: reliability.NewExponentialBackoff(100*time.Millisecond, 5*time.Second, 2.0, 3),
		logger:      slog.Default(),
	}
	for _, opt := range options {
		opt(t)
	}

	conn, err := amqp.Dial(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	amqpCh, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if t.exchange != "" {
		err = amqpCh.ExchangeDeclare(
			t.exchange,
			"topic",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			amqpCh.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare exchange %s: %w", t.exchange, err)
		}
	}

	t.conn = conn
	t.amqpCh = amqpCh
	return t, nil
}

// Send implements channel.Transport. The channel-level timeout bounds the
// publish through the context; transient failures are retried per the
// configured policy within that bound.
func (t *Transport) Send(ctx context.Context, msg contracts.Message, timeout time.Duration) (bool, error) {
	if timeout >= 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	env, err := newEnvelope(msg)
	if err != nil {
		return false, err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return false, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	publishing := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     env.ID,
		Type:          env.Type,
		CorrelationId: env.CorrelationID,
		Timestamp:     env.Timestamp,
		Body:          body,
	}
	if len(env.Headers) > 0 {
		publishing.Headers = make(amqp.Table, len(env.Headers))
		for k, v := range env.Headers {
			publishing.Headers[k] = v
		}
	}

	err = reliability.Retry(ctx, t.retryPolicy, func() error {
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.amqpCh.PublishWithContext(ctx, t.exchange, t.routingKey, false, false, publishing)
	})
	if err != nil {
		return false, fmt.Errorf("failed to publish to exchange %q: %w", t.exchange, err)
	}

	t.logger.Debug("published message",
		"exchange", t.exchange,
		"routingKey", t.routingKey,
		"messageId", env.ID,
	)
	return true, nil
}

// Close closes the AMQP channel and connection
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.amqpCh != nil {
		t.amqpCh.Close()
	}
	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}

// envelope is the wire form of a channel message.
type envelope struct {
	ID            string                 `json:"id"`
	Type          string                 `json:"type"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlationId,omitempty"`
	Headers       map[string]interface{} `json:"headers,omitempty"`
	Payload       []byte                 `json:"payload,omitempty"`
}

// newEnvelope builds the wire envelope. Messages carrying a raw payload
// publish it as-is; typed messages are serialized whole into the payload.
func newEnvelope(msg contracts.Message) (*envelope, error) {
	env := &envelope{
		ID:            msg.GetID(),
		Type:          msg.GetType(),
		Timestamp:     msg.GetTimestamp(),
		CorrelationID: msg.GetCorrelationID(),
	}
	if hc, ok := msg.(contracts.HeaderCarrier); ok {
		env.Headers = hc.GetHeaders()
	}
	if pc, ok := msg.(contracts.PayloadCarrier); ok {
		env.Payload = pc.GetPayload()
		return env, nil
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message %s: %w", msg.GetID(), err)
	}
	env.Payload = payload
	return env, nil
}
