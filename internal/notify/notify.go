// Package notify tells the studio about new quote requests.
package notify

import (
	"context"
	"errors"

	"github.com/lmstudios/lmsite/internal/state"
)

// Notifier is told about every stored quote.
type Notifier interface {
	Notify(ctx context.Context, q *state.Quote) error
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, q *state.Quote) error

// Notify calls f.
func (f Func) Notify(ctx context.Context, q *state.Quote) error {
	return f(ctx, q)
}

// Multi fans a quote out to every notifier. All notifiers run even when
// some fail; the failures are joined.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, q *state.Quote) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, q); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
