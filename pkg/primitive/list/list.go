// SPDX-FileCopyrightText: 2019-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package list

import (
	"context"

	"github.com/tram-stm/go-tram/pkg/collection"
	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/logging"
	"github.com/tram-stm/go-tram/pkg/primitive"
	"github.com/tram-stm/go-tram/pkg/stm"
	"github.com/tram-stm/go-tram/pkg/stream"
)

var log = logging.GetLogger("primitive", "list")

// List provides a transactional sequence. Negative indexes count from the end of the list.
type List[E any] interface {
	primitive.Primitive

	// Cell returns the cell holding the list
	Cell() *stm.Cell[collection.List[E]]

	// Append pushes a value on to the end of the list
	Append(ctx context.Context, value E) error

	// Extend pushes values on to the end of the list
	Extend(ctx context.Context, values ...E) error

	// Insert inserts a value at the given index
	Insert(ctx context.Context, index int, value E) error

	// Set sets the value at the given index
	Set(ctx context.Context, index int, value E) error

	// Get gets the value at the given index
	Get(ctx context.Context, index int) (E, error)

	// Remove removes and returns the value at the given index
	Remove(ctx context.Context, index int) (E, error)

	// Pop removes and returns the last value in the list
	Pop(ctx context.Context) (E, error)

	// RemoveFunc removes the first value for which f returns true
	RemoveFunc(ctx context.Context, f func(E) bool) (E, error)

	// IndexFunc returns the index of the first value for which f returns true
	IndexFunc(ctx context.Context, f func(E) bool) (int, error)

	// Sort sorts the list
	Sort(ctx context.Context, less func(a, b E) bool) error

	// Map replaces every value with the result of f
	Map(ctx context.Context, f func(E) (E, error)) error

	// Len gets the length of the list
	Len(ctx context.Context) (int, error)

	// Clear removes all values from the list
	Clear(ctx context.Context) error

	// Copy returns the current contents of the list
	Copy(ctx context.Context) (collection.List[E], error)

	// Items streams the values of the list as of the call
	Items(ctx context.Context) (ItemStream[E], error)

	// Transfer moves the value at the given index to the end of the given list in a single transaction
	Transfer(ctx context.Context, to List[E], index int) error
}

type ItemStream[E any] stream.Stream[E]

type listPrimitive[E any] struct {
	primitive.Primitive
	cell    *stm.Cell[collection.List[E]]
	options *primitive.Options
}

func (l *listPrimitive[E]) Cell() *stm.Cell[collection.List[E]] {
	return l.cell
}

func (l *listPrimitive[E]) update(ctx context.Context, f func(collection.List[E]) (collection.List[E], error)) error {
	result, err := l.options.Engine.Transaction(ctx, []stm.Object{l.cell}, stm.Atomic[collection.List[E]](f), l.options.TransactionOptions()...)
	if err := primitive.Done(result, err); err != nil {
		log.Debugf("Update of list %s failed: %v", l.Name(), err)
		return err
	}
	return nil
}

func (l *listPrimitive[E]) Append(ctx context.Context, value E) error {
	return l.Extend(ctx, value)
}

func (l *listPrimitive[E]) Extend(ctx context.Context, values ...E) error {
	return l.update(ctx, func(list collection.List[E]) (collection.List[E], error) {
		return list.Append(values...), nil
	})
}

func (l *listPrimitive[E]) Insert(ctx context.Context, index int, value E) error {
	return l.update(ctx, func(list collection.List[E]) (collection.List[E], error) {
		return list.Insert(index, value), nil
	})
}

func (l *listPrimitive[E]) Set(ctx context.Context, index int, value E) error {
	return l.update(ctx, func(list collection.List[E]) (collection.List[E], error) {
		return list.Set(index, value)
	})
}

func (l *listPrimitive[E]) Get(ctx context.Context, index int) (E, error) {
	return l.cell.Value().Get(index)
}

func (l *listPrimitive[E]) Remove(ctx context.Context, index int) (E, error) {
	var value E
	err := l.update(ctx, func(list collection.List[E]) (collection.List[E], error) {
		elem, rest, err := list.Pop(index)
		if err != nil {
			return nil, err
		}
		value = elem
		return rest, nil
	})
	if err != nil {
		var zero E
		return zero, err
	}
	return value, nil
}

func (l *listPrimitive[E]) Pop(ctx context.Context) (E, error) {
	return l.Remove(ctx, -1)
}

func (l *listPrimitive[E]) RemoveFunc(ctx context.Context, f func(E) bool) (E, error) {
	var value E
	err := l.update(ctx, func(list collection.List[E]) (collection.List[E], error) {
		index := list.IndexFunc(f)
		if index < 0 {
			return nil, errors.NewNotFound("no matching value in list")
		}
		elem, rest, err := list.Pop(index)
		if err != nil {
			return nil, err
		}
		value = elem
		return rest, nil
	})
	if err != nil {
		var zero E
		return zero, err
	}
	return value, nil
}

func (l *listPrimitive[E]) IndexFunc(ctx context.Context, f func(E) bool) (int, error) {
	index := l.cell.Value().IndexFunc(f)
	if index < 0 {
		return index, errors.NewNotFound("no matching value in list")
	}
	return index, nil
}

func (l *listPrimitive[E]) Sort(ctx context.Context, less func(a, b E) bool) error {
	return l.update(ctx, func(list collection.List[E]) (collection.List[E], error) {
		return list.SortFunc(less), nil
	})
}

func (l *listPrimitive[E]) Map(ctx context.Context, f func(E) (E, error)) error {
	return l.update(ctx, func(list collection.List[E]) (collection.List[E], error) {
		return list.Map(f)
	})
}

func (l *listPrimitive[E]) Len(ctx context.Context) (int, error) {
	return l.cell.Value().Len(), nil
}

func (l *listPrimitive[E]) Clear(ctx context.Context) error {
	return l.update(ctx, func(collection.List[E]) (collection.List[E], error) {
		return collection.NewList[E](), nil
	})
}

func (l *listPrimitive[E]) Copy(ctx context.Context) (collection.List[E], error) {
	return l.cell.Value().Clone(), nil
}

func (l *listPrimitive[E]) Items(ctx context.Context) (ItemStream[E], error) {
	return stream.NewSliceStream[E](l.cell.Value()), nil
}

func (l *listPrimitive[E]) Transfer(ctx context.Context, to List[E], index int) error {
	return primitive.Done(stm.TransferItem(ctx, l.options.Engine, l.cell, to.Cell(), index, l.options.TransactionOptions()...))
}

var _ List[string] = (*listPrimitive[string])(nil)
