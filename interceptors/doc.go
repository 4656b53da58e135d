// Package interceptors provides ready-made channel interceptors for common
// cross-cutting concerns.
//
// Included:
//   - LoggingInterceptor: logs sends and receives with their outcome
//   - MetricsInterceptor: reports outcomes to a MetricsCollector
//     (PrometheusCollector is the prometheus-backed implementation)
//   - CorrelationInterceptor: stamps missing correlation IDs
//   - FilterInterceptor: vetoes messages failing a predicate, optionally
//     compiled from an expr expression via NewExprFilter
//
// All of them embed channel.BaseInterceptor and override only the hooks
// they need, which is also the recommended shape for custom interceptors:
//
//	type auditInterceptor struct {
//		channel.BaseInterceptor
//	}
//
//	func (auditInterceptor) PostSend(ctx context.Context, msg contracts.Message, ch *channel.Channel, sent bool) error {
//		// record the verdict somewhere
//		return nil
//	}
package interceptors
