// Package reconcile holds the quantity rules of an incoming line item.
//
// A line starts as received + short == ordered with nothing rejected. Later
// actions move quantity from received or short into rejected, or settle part
// of the short quantity through a later delivery. Ordered never changes and
// received + short + rejected never exceeds it.
package reconcile

import (
	"errors"
	"fmt"
)

var (
	ErrNonPositiveQuantity  = errors.New("quantity must be greater than 0")
	ErrNegativeQuantity     = errors.New("quantities cannot be negative")
	ErrReceivedExceedsTotal = errors.New("received cannot exceed total quantity")
	ErrExceedsTotal         = errors.New("received + short + rejected cannot exceed total quantity")
)

// InsufficientError is returned when a move asks for more than the source holds.
type InsufficientError struct {
	Source    string
	Available int
	Requested int
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("cannot move %d from %s: only %d available", e.Requested, e.Source, e.Available)
}

// Quantities of one incoming line.
type Quantities struct {
	Total    int
	Received int
	Short    int
	Rejected int
}

// New builds the quantities of a freshly received line; short is derived.
func New(total, received int) (Quantities, error) {
	if total <= 0 {
		return Quantities{}, ErrNonPositiveQuantity
	}
	if received < 0 {
		return Quantities{}, ErrNegativeQuantity
	}
	if received > total {
		return Quantities{}, ErrReceivedExceedsTotal
	}
	return Quantities{Total: total, Received: received, Short: total - received}, nil
}

// Check validates the invariants that hold for a line at any time.
func (q Quantities) Check() error {
	if q.Received < 0 || q.Short < 0 || q.Rejected < 0 {
		return ErrNegativeQuantity
	}
	if q.Received+q.Short+q.Rejected > q.Total {
		return ErrExceedsTotal
	}
	return nil
}

// MoveReceivedToRejected moves n units that failed inspection out of received.
func (q Quantities) MoveReceivedToRejected(n int) (Quantities, error) {
	if n <= 0 {
		return q, ErrNonPositiveQuantity
	}
	if n > q.Received {
		return q, &InsufficientError{Source: "received", Available: q.Received, Requested: n}
	}
	q.Received -= n
	q.Rejected += n
	return q, nil
}

// MoveShortToRejected writes off n short units as rejected.
func (q Quantities) MoveShortToRejected(n int) (Quantities, error) {
	if n <= 0 {
		return q, ErrNonPositiveQuantity
	}
	if n > q.Short {
		return q, &InsufficientError{Source: "short", Available: q.Short, Requested: n}
	}
	q.Short -= n
	q.Rejected += n
	return q, nil
}

// SettleShort lowers short to the given value after a late delivery.
func (q Quantities) SettleShort(short int) (Quantities, error) {
	if short < 0 {
		return q, ErrNegativeQuantity
	}
	if short > q.Short {
		return q, fmt.Errorf("short can only decrease: current %d, requested %d", q.Short, short)
	}
	q.Short = short
	return q, nil
}

// Adjust overwrites short and/or rejected; nil keeps the current value.
func (q Quantities) Adjust(short, rejected *int) (Quantities, error) {
	if short != nil {
		q.Short = *short
	}
	if rejected != nil {
		q.Rejected = *rejected
	}
	if err := q.Check(); err != nil {
		return q, err
	}
	return q, nil
}
