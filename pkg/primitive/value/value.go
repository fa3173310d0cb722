// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"context"

	"github.com/tram-stm/go-tram/pkg/primitive"
	"github.com/tram-stm/go-tram/pkg/stm"
)

// Value is a transactional value of any type. Values are replaced wholesale; a value read
// from the primitive must not be mutated in place.
type Value[V any] interface {
	primitive.Primitive

	// Cell returns the cell holding the value
	Cell() *stm.Cell[V]

	// Get gets the value and its version
	Get(ctx context.Context) (stm.Versioned[V], error)

	// Set sets the value
	Set(ctx context.Context, value V) error

	// Swap sets the value and returns the previous value
	Swap(ctx context.Context, value V) (V, error)

	// Update replaces the value with the result of f
	Update(ctx context.Context, f func(V) (V, error)) (V, error)
}

type valuePrimitive[V any] struct {
	primitive.Primitive
	cell    *stm.Cell[V]
	options *primitive.Options
}

func (v *valuePrimitive[V]) Cell() *stm.Cell[V] {
	return v.cell
}

func (v *valuePrimitive[V]) Get(ctx context.Context) (stm.Versioned[V], error) {
	return v.cell.Get(), nil
}

func (v *valuePrimitive[V]) Set(ctx context.Context, value V) error {
	_, err := v.Swap(ctx, value)
	return err
}

func (v *valuePrimitive[V]) Swap(ctx context.Context, value V) (V, error) {
	var prev V
	_, err := v.Update(ctx, func(current V) (V, error) {
		prev = current
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return prev, nil
}

func (v *valuePrimitive[V]) Update(ctx context.Context, f func(V) (V, error)) (V, error) {
	var value V
	write := stm.Atomic[V](func(current V) (V, error) {
		next, err := f(current)
		if err != nil {
			return current, err
		}
		value = next
		return next, nil
	})
	result, err := v.options.Engine.Transaction(ctx, []stm.Object{v.cell}, write, v.options.TransactionOptions()...)
	if err := primitive.Done(result, err); err != nil {
		var zero V
		return zero, err
	}
	return value, nil
}

var _ Value[string] = (*valuePrimitive[string])(nil)
