// SPDX-FileCopyrightText: 2019-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package counter

import (
	"context"

	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/primitive"
	"github.com/tram-stm/go-tram/pkg/stm"
)

// Counter provides a transactional numeric value
type Counter[N stm.Number] interface {
	primitive.Primitive

	// Cell returns the cell holding the counter's value
	Cell() *stm.Cell[N]

	// Get gets the current value of the counter
	Get(ctx context.Context) (N, error)

	// Set sets the value of the counter
	Set(ctx context.Context, value N) error

	// Update replaces the value of the counter with the result of f
	Update(ctx context.Context, f func(N) (N, error)) (N, error)

	// Add adds delta to the counter and returns the new value
	Add(ctx context.Context, delta N) (N, error)

	// Sub subtracts delta from the counter and returns the new value
	Sub(ctx context.Context, delta N) (N, error)

	// Mul multiplies the counter by factor and returns the new value
	Mul(ctx context.Context, factor N) (N, error)

	// Div divides the counter by divisor and returns the new value.
	// Integer counters truncate the quotient.
	Div(ctx context.Context, divisor N) (N, error)

	// Pow raises the counter to the given power and returns the new value
	Pow(ctx context.Context, exp uint) (N, error)

	// Clear resets the counter to zero
	Clear(ctx context.Context) error

	// Transfer moves amount from the counter to the given counter in a single transaction
	Transfer(ctx context.Context, to Counter[N], amount N) error
}

type counterPrimitive[N stm.Number] struct {
	primitive.Primitive
	cell    *stm.Cell[N]
	options *primitive.Options
}

func (c *counterPrimitive[N]) Cell() *stm.Cell[N] {
	return c.cell
}

func (c *counterPrimitive[N]) Get(ctx context.Context) (N, error) {
	return c.cell.Value(), nil
}

func (c *counterPrimitive[N]) Set(ctx context.Context, value N) error {
	_, err := c.Update(ctx, func(N) (N, error) {
		return value, nil
	})
	return err
}

func (c *counterPrimitive[N]) Update(ctx context.Context, f func(N) (N, error)) (N, error) {
	var value N
	write := stm.Atomic[N](func(current N) (N, error) {
		next, err := f(current)
		if err != nil {
			return current, err
		}
		value = next
		return next, nil
	})
	result, err := c.options.Engine.Transaction(ctx, []stm.Object{c.cell}, write, c.options.TransactionOptions()...)
	if err := primitive.Done(result, err); err != nil {
		var zero N
		return zero, err
	}
	return value, nil
}

func (c *counterPrimitive[N]) Add(ctx context.Context, delta N) (N, error) {
	return c.Update(ctx, func(value N) (N, error) {
		return value + delta, nil
	})
}

func (c *counterPrimitive[N]) Sub(ctx context.Context, delta N) (N, error) {
	return c.Update(ctx, func(value N) (N, error) {
		return value - delta, nil
	})
}

func (c *counterPrimitive[N]) Mul(ctx context.Context, factor N) (N, error) {
	return c.Update(ctx, func(value N) (N, error) {
		return value * factor, nil
	})
}

func (c *counterPrimitive[N]) Div(ctx context.Context, divisor N) (N, error) {
	if divisor == 0 {
		var zero N
		return zero, errors.NewInvalid("division by zero")
	}
	return c.Update(ctx, func(value N) (N, error) {
		return value / divisor, nil
	})
}

func (c *counterPrimitive[N]) Pow(ctx context.Context, exp uint) (N, error) {
	return c.Update(ctx, func(value N) (N, error) {
		result := N(1)
		for base, e := value, exp; e > 0; e >>= 1 {
			if e&1 == 1 {
				result *= base
			}
			base *= base
		}
		return result, nil
	})
}

func (c *counterPrimitive[N]) Clear(ctx context.Context) error {
	return c.Set(ctx, 0)
}

func (c *counterPrimitive[N]) Transfer(ctx context.Context, to Counter[N], amount N) error {
	return primitive.Done(stm.TransferValue[N](ctx, c.options.Engine, c.cell, to.Cell(), amount, c.options.TransactionOptions()...))
}

var _ Counter[int64] = (*counterPrimitive[int64])(nil)
