package interceptors

import (
	"context"
	"fmt"

	"github.com/crosswire/crosswire-go/channel"
	"github.com/crosswire/crosswire-go/contracts"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Predicate decides whether a message may pass the filter
type Predicate func(ctx context.Context, msg contracts.Message) (bool, error)

// FilterInterceptor vetoes messages that fail a predicate. On the send
// side a failing message precludes the transport step; on the receive side
// it is discarded after the transport produced it. A predicate error takes
// the fault path instead of a veto.
type FilterInterceptor struct {
	channel.BaseInterceptor
	predicate Predicate
}

// NewFilterInterceptor creates a filter from a predicate
func NewFilterInterceptor(predicate Predicate) *FilterInterceptor {
	return &FilterInterceptor{predicate: predicate}
}

// PreSend vetoes the send when the predicate rejects the message
func (i *FilterInterceptor) PreSend(ctx context.Context, msg contracts.Message, ch *channel.Channel) (contracts.Message, error) {
	ok, err := i.predicate(ctx, msg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return msg, nil
}

// PostReceive discards the message when the predicate rejects it
func (i *FilterInterceptor) PostReceive(ctx context.Context, msg contracts.Message, ch *channel.Channel) (contracts.Message, error) {
	ok, err := i.predicate(ctx, msg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return msg, nil
}

// Name implements the optional naming hook used in log lines
func (i *FilterInterceptor) Name() string {
	return "FilterInterceptor"
}

// NewExprFilter compiles a boolean expression and returns a filter that
// evaluates it against the message. The expression sees "id", "type",
// "correlationId" and, for messages exposing them, "headers".
//
// Example: type == "OrderPlaced" && headers.region in ["eu", "us"]
func NewExprFilter(code string) (*FilterInterceptor, error) {
	program, err := expr.Compile(code, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter expression: %w", err)
	}
	return NewFilterInterceptor(exprPredicate(program)), nil
}

func exprPredicate(program *vm.Program) Predicate {
	return func(ctx context.Context, msg contracts.Message) (bool, error) {
		env := map[string]interface{}{
			"id":            msg.GetID(),
			"type":          msg.GetType(),
			"correlationId": msg.GetCorrelationID(),
			"headers":       map[string]interface{}{},
		}
		if hc, ok := msg.(contracts.HeaderCarrier); ok && hc.GetHeaders() != nil {
			env["headers"] = hc.GetHeaders()
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return false, fmt.Errorf("evaluate filter expression: %w", err)
		}
		pass, _ := out.(bool)
		return pass, nil
	}
}
