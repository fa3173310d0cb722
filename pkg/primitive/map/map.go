// SPDX-FileCopyrightText: 2019-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package _map //nolint:golint

import (
	"context"
	"fmt"

	"github.com/tram-stm/go-tram/pkg/collection"
	"github.com/tram-stm/go-tram/pkg/primitive"
	"github.com/tram-stm/go-tram/pkg/stm"
	"github.com/tram-stm/go-tram/pkg/stream"
)

// Map is a transactional set of keys and values
type Map[K comparable, V any] interface {
	primitive.Primitive

	// Cell returns the cell holding the map
	Cell() *stm.Cell[collection.Dict[K, V]]

	// Put sets a key/value pair in the map
	Put(ctx context.Context, key K, value V) error

	// PutAll sets every key/value pair of entries in the map
	PutAll(ctx context.Context, entries map[K]V) error

	// Get gets the value of the given key
	Get(ctx context.Context, key K) (V, error)

	// GetOrDefault gets the value of the given key or def if the key is not present
	GetOrDefault(ctx context.Context, key K, def V) (V, error)

	// Contains returns whether the map contains the given key
	Contains(ctx context.Context, key K) (bool, error)

	// Remove removes a key from the map and returns its value
	Remove(ctx context.Context, key K) (V, error)

	// Update replaces the value of the given key with the result of f
	Update(ctx context.Context, key K, f func(V) (V, error)) (V, error)

	// Len returns the number of entries in the map
	Len(ctx context.Context) (int, error)

	// Keys returns the keys of the map in no particular order
	Keys(ctx context.Context) ([]K, error)

	// Values returns the values of the map in no particular order
	Values(ctx context.Context) ([]V, error)

	// Clear removes all entries from the map
	Clear(ctx context.Context) error

	// Copy returns the current contents of the map
	Copy(ctx context.Context) (collection.Dict[K, V], error)

	// List streams the entries of the map as of the call
	List(ctx context.Context) (EntryStream[K, V], error)

	// Transfer moves the entry with the given key to the given map in a single transaction
	Transfer(ctx context.Context, to Map[K, V], key K) error
}

type EntryStream[K comparable, V any] stream.Stream[*Entry[K, V]]

// Entry is a key/value pair
type Entry[K comparable, V any] struct {
	// Key is the key of the pair
	Key K
	// Value is the value of the pair
	Value V
}

func (kv *Entry[K, V]) String() string {
	return fmt.Sprintf("key: %v\nvalue: %v", kv.Key, kv.Value)
}

type mapPrimitive[K comparable, V any] struct {
	primitive.Primitive
	cell    *stm.Cell[collection.Dict[K, V]]
	options *primitive.Options
}

func (m *mapPrimitive[K, V]) Cell() *stm.Cell[collection.Dict[K, V]] {
	return m.cell
}

func (m *mapPrimitive[K, V]) update(ctx context.Context, f func(collection.Dict[K, V]) (collection.Dict[K, V], error)) error {
	result, err := m.options.Engine.Transaction(ctx, []stm.Object{m.cell}, stm.Atomic[collection.Dict[K, V]](f), m.options.TransactionOptions()...)
	return primitive.Done(result, err)
}

func (m *mapPrimitive[K, V]) Put(ctx context.Context, key K, value V) error {
	return m.update(ctx, func(dict collection.Dict[K, V]) (collection.Dict[K, V], error) {
		return dict.Put(key, value), nil
	})
}

func (m *mapPrimitive[K, V]) PutAll(ctx context.Context, entries map[K]V) error {
	return m.update(ctx, func(dict collection.Dict[K, V]) (collection.Dict[K, V], error) {
		return dict.Update(entries), nil
	})
}

func (m *mapPrimitive[K, V]) Get(ctx context.Context, key K) (V, error) {
	return m.cell.Value().Lookup(key)
}

func (m *mapPrimitive[K, V]) GetOrDefault(ctx context.Context, key K, def V) (V, error) {
	return m.cell.Value().GetOrDefault(key, def), nil
}

func (m *mapPrimitive[K, V]) Contains(ctx context.Context, key K) (bool, error) {
	return m.cell.Value().Contains(key), nil
}

func (m *mapPrimitive[K, V]) Remove(ctx context.Context, key K) (V, error) {
	var value V
	err := m.update(ctx, func(dict collection.Dict[K, V]) (collection.Dict[K, V], error) {
		removed, rest, err := dict.Pop(key)
		if err != nil {
			return nil, err
		}
		value = removed
		return rest, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return value, nil
}

func (m *mapPrimitive[K, V]) Update(ctx context.Context, key K, f func(V) (V, error)) (V, error) {
	var value V
	err := m.update(ctx, func(dict collection.Dict[K, V]) (collection.Dict[K, V], error) {
		current, err := dict.Lookup(key)
		if err != nil {
			return nil, err
		}
		next, err := f(current)
		if err != nil {
			return nil, err
		}
		value = next
		return dict.Put(key, next), nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return value, nil
}

func (m *mapPrimitive[K, V]) Len(ctx context.Context) (int, error) {
	return m.cell.Value().Len(), nil
}

func (m *mapPrimitive[K, V]) Keys(ctx context.Context) ([]K, error) {
	return m.cell.Value().Keys(), nil
}

func (m *mapPrimitive[K, V]) Values(ctx context.Context) ([]V, error) {
	return m.cell.Value().Values(), nil
}

func (m *mapPrimitive[K, V]) Clear(ctx context.Context) error {
	return m.update(ctx, func(collection.Dict[K, V]) (collection.Dict[K, V], error) {
		return collection.NewDict[K, V](nil), nil
	})
}

func (m *mapPrimitive[K, V]) Copy(ctx context.Context) (collection.Dict[K, V], error) {
	return m.cell.Value().Clone(), nil
}

func (m *mapPrimitive[K, V]) List(ctx context.Context) (EntryStream[K, V], error) {
	dict := m.cell.Value()
	ch := make(chan stream.Result[*Entry[K, V]])
	go func() {
		defer close(ch)
		for key, value := range dict {
			select {
			case ch <- stream.Result[*Entry[K, V]]{Value: &Entry[K, V]{Key: key, Value: value}}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return stream.NewChannelStream[*Entry[K, V]](ch), nil
}

func (m *mapPrimitive[K, V]) Transfer(ctx context.Context, to Map[K, V], key K) error {
	return primitive.Done(stm.TransferItem(ctx, m.options.Engine, m.cell, to.Cell(), key, m.options.TransactionOptions()...))
}

var _ Map[string, string] = (*mapPrimitive[string, string])(nil)
