// SPDX-FileCopyrightText: 2019-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package set

import (
	"context"

	"github.com/tram-stm/go-tram/pkg/collection"
	"github.com/tram-stm/go-tram/pkg/primitive"
	"github.com/tram-stm/go-tram/pkg/stm"
	"github.com/tram-stm/go-tram/pkg/stream"
)

// Set provides a transactional set data structure
type Set[E comparable] interface {
	primitive.Primitive

	// Cell returns the cell holding the set's elements
	Cell() *stm.Cell[collection.Dict[E, struct{}]]

	// Add adds a value to the set
	// A bool indicating whether the value was added will be returned
	Add(ctx context.Context, value E) (bool, error)

	// Remove removes a value from the set
	// A bool indicating whether the set contained the given value will be returned
	Remove(ctx context.Context, value E) (bool, error)

	// Contains returns a bool indicating whether the set contains the given value
	Contains(ctx context.Context, value E) (bool, error)

	// Len gets the set size in number of elements
	Len(ctx context.Context) (int, error)

	// Clear removes all values from the set
	Clear(ctx context.Context) error

	// Elements streams the elements of the set as of the call, in no particular order
	Elements(ctx context.Context) (ElementStream[E], error)
}

type ElementStream[E any] stream.Stream[E]

type setPrimitive[E comparable] struct {
	primitive.Primitive
	cell    *stm.Cell[collection.Dict[E, struct{}]]
	options *primitive.Options
}

func (s *setPrimitive[E]) Cell() *stm.Cell[collection.Dict[E, struct{}]] {
	return s.cell
}

func (s *setPrimitive[E]) update(ctx context.Context, f func(collection.Dict[E, struct{}]) (collection.Dict[E, struct{}], error)) error {
	result, err := s.options.Engine.Transaction(ctx, []stm.Object{s.cell}, stm.Atomic[collection.Dict[E, struct{}]](f), s.options.TransactionOptions()...)
	return primitive.Done(result, err)
}

func (s *setPrimitive[E]) Add(ctx context.Context, value E) (bool, error) {
	var added bool
	err := s.update(ctx, func(elems collection.Dict[E, struct{}]) (collection.Dict[E, struct{}], error) {
		added = !elems.Contains(value)
		if !added {
			return elems, nil
		}
		return elems.Put(value, struct{}{}), nil
	})
	return added, err
}

func (s *setPrimitive[E]) Remove(ctx context.Context, value E) (bool, error) {
	var removed bool
	err := s.update(ctx, func(elems collection.Dict[E, struct{}]) (collection.Dict[E, struct{}], error) {
		removed = elems.Contains(value)
		if !removed {
			return elems, nil
		}
		return elems.Delete(value)
	})
	return removed, err
}

func (s *setPrimitive[E]) Contains(ctx context.Context, value E) (bool, error) {
	return s.cell.Value().Contains(value), nil
}

func (s *setPrimitive[E]) Len(ctx context.Context) (int, error) {
	return s.cell.Value().Len(), nil
}

func (s *setPrimitive[E]) Clear(ctx context.Context) error {
	return s.update(ctx, func(collection.Dict[E, struct{}]) (collection.Dict[E, struct{}], error) {
		return collection.NewDict[E, struct{}](nil), nil
	})
}

func (s *setPrimitive[E]) Elements(ctx context.Context) (ElementStream[E], error) {
	return stream.NewSliceStream[E](s.cell.Value().Keys()), nil
}

var _ Set[string] = (*setPrimitive[string])(nil)
