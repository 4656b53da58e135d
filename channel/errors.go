package channel

import (
	"errors"
	"fmt"

	"github.com/crosswire/crosswire-go/contracts"
)

// ErrNilMessage is returned when Send is called without a message.
var ErrNilMessage = errors.New("message must not be nil")

// MessagingError is the base fault type for channel operations. Errors of
// this type, or wrapping one, already carry delivery semantics and
// propagate to callers unwrapped.
type MessagingError struct {
	FailedMessage contracts.Message
	ChannelName   string
	Reason        string
	Cause         error
}

// NewMessagingError creates a messaging error
func NewMessagingError(msg contracts.Message, channelName, reason string, cause error) *MessagingError {
	return &MessagingError{
		FailedMessage: msg,
		ChannelName:   channelName,
		Reason:        reason,
		Cause:         cause,
	}
}

// Error implements error
func (e *MessagingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s on channel %s: %v", e.Reason, e.ChannelName, e.Cause)
	}
	return fmt.Sprintf("%s on channel %s", e.Reason, e.ChannelName)
}

// Unwrap returns the causing error
func (e *MessagingError) Unwrap() error {
	return e.Cause
}

func (e *MessagingError) messagingFault() {}

// DeliveryError indicates the delivery of a message failed, either in the
// transport step or in an interceptor hook outside the completion passes.
// It carries the message that failed and the causing error.
type DeliveryError struct {
	MessagingError
}

// NewDeliveryError creates a delivery error for the given message and cause
func NewDeliveryError(msg contracts.Message, channelName string, cause error) *DeliveryError {
	return &DeliveryError{
		MessagingError: MessagingError{
			FailedMessage: msg,
			ChannelName:   channelName,
			Reason:        "failed to deliver message",
			Cause:         cause,
		},
	}
}

type messagingFault interface {
	messagingFault()
}

// IsMessagingError reports whether err is, or wraps, a MessagingError or
// DeliveryError.
func IsMessagingError(err error) bool {
	var mf messagingFault
	return errors.As(err, &mf)
}
