// Package channel implements a message channel whose sends and receives
// are wrapped by an ordered chain of interceptors.
//
// A Channel delegates delivery to a pluggable Transport and orchestrates
// the registered ChannelInterceptors around it: PreSend hooks run forward
// and may transform or veto the message, PostSend hooks run forward after
// the transport step, and AfterSendCompletion hooks run in reverse order,
// bounded to the interceptors whose PreSend completed. A PollableChannel
// adds the symmetric receive-side passes over a ReceivingTransport.
//
// Each call gets its own chain instance working off an immutable snapshot
// of the interceptor list, so concurrent sends and concurrent registry
// changes are safe with respect to each other.
//
// Example:
//
//	ch := channel.NewChannel("orders", transport,
//		channel.WithInterceptors(
//			interceptors.NewLoggingInterceptor(nil),
//			interceptors.NewCorrelationInterceptor(),
//		))
//	sent, err := ch.Send(ctx, msg)
package channel
