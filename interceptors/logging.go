package interceptors

import (
	"context"
	"log/slog"

	"github.com/crosswire/crosswire-go/channel"
	"github.com/crosswire/crosswire-go/contracts"
)

// LoggingInterceptor logs message sends and receives
type LoggingInterceptor struct {
	channel.BaseInterceptor
	logger *slog.Logger
}

// NewLoggingInterceptor creates a new logging interceptor
func NewLoggingInterceptor(logger *slog.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingInterceptor{logger: logger}
}

// PreSend logs the outgoing message
func (i *LoggingInterceptor) PreSend(ctx context.Context, msg contracts.Message, ch *channel.Channel) (contracts.Message, error) {
	i.logger.Debug("sending message",
		"channel", ch.Name(),
		"messageId", msg.GetID(),
		"messageType", msg.GetType(),
	)
	return msg, nil
}

// AfterSendCompletion logs the send outcome
func (i *LoggingInterceptor) AfterSendCompletion(ctx context.Context, msg contracts.Message, ch *channel.Channel, sent bool, cause error) error {
	if cause != nil {
		i.logger.Error("send failed",
			"channel", ch.Name(),
			"messageId", messageID(msg),
			"error", cause,
		)
		return nil
	}
	i.logger.Debug("send completed",
		"channel", ch.Name(),
		"messageId", messageID(msg),
		"sent", sent,
	)
	return nil
}

// AfterReceiveCompletion logs the receive outcome
func (i *LoggingInterceptor) AfterReceiveCompletion(ctx context.Context, msg contracts.Message, ch *channel.Channel, cause error) error {
	if cause != nil {
		i.logger.Error("receive failed",
			"channel", ch.Name(),
			"error", cause,
		)
		return nil
	}
	i.logger.Debug("receive completed",
		"channel", ch.Name(),
		"messageId", messageID(msg),
	)
	return nil
}

// Name implements the optional naming hook used in log lines
func (i *LoggingInterceptor) Name() string {
	return "LoggingInterceptor"
}

// messageID tolerates the nil message passed to completion hooks on veto.
func messageID(msg contracts.Message) string {
	if msg == nil {
		return ""
	}
	return msg.GetID()
}

func messageType(msg contracts.Message) string {
	if msg == nil {
		return ""
	}
	return msg.GetType()
}
