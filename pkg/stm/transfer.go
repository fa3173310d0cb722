// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stm

import (
	"context"

	"github.com/tram-stm/go-tram/pkg/collection"
	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/stream"
	"golang.org/x/exp/constraints"
)

// Number is a numeric cell value
type Number interface {
	constraints.Integer | constraints.Float
}

// TransferValue atomically subtracts amount from source and adds it to destination.
// No reader observes the amount missing from both cells.
func TransferValue[N Number](ctx context.Context, e *Engine, source, destination *Cell[N], amount N, opts ...TransactionOption) (Result, error) {
	var dst Object = destination
	return e.Transaction(ctx, []Object{source, destination}, func(cells []Object, values []any) stream.Stream[Write] {
		return Each(cells, values, func(cell Object, value any) (any, error) {
			n, ok := value.(N)
			if !ok {
				return nil, errors.NewUnsupported("cannot transfer %T from %T", amount, value)
			}
			if cell == dst {
				return n + amount, nil
			}
			return n - amount, nil
		})
	}, opts...)
}

// TransferItem atomically removes the item at key from the source's collection and adds it to
// the destination's collection. Sequences append the item; mappings store it under key.
// Both cells must hold collections supporting the transfer, otherwise the transaction fails
// with an Unsupported error. A missing key or an index out of range fails the transaction
// without retrying it.
func TransferItem(ctx context.Context, e *Engine, source, destination Object, key any, opts ...TransactionOption) (Result, error) {
	return e.Transaction(ctx, []Object{source, destination}, func(cells []Object, values []any) stream.Stream[Write] {
		var item any
		return Each(cells, values, func(cell Object, value any) (any, error) {
			if cell == source {
				from, ok := value.(collection.ItemSource)
				if !ok {
					return nil, errors.NewUnsupported("cannot take items from %T", value)
				}
				taken, rest, err := from.TakeItem(key)
				if err != nil {
					return nil, err
				}
				item = taken
				return rest, nil
			}
			to, ok := value.(collection.ItemSink)
			if !ok {
				return nil, errors.NewUnsupported("cannot put items into %T", value)
			}
			return to.PutItem(key, item)
		})
	}, opts...)
}
