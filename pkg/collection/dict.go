// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package collection

import (
	"github.com/tram-stm/go-tram/pkg/errors"
	"golang.org/x/exp/maps"
)

// Dict is an immutable mapping
type Dict[K comparable, V any] map[K]V

// NewDict creates a dict holding a copy of the given entries
func NewDict[K comparable, V any](entries map[K]V) Dict[K, V] {
	if entries == nil {
		return Dict[K, V]{}
	}
	return Dict[K, V](maps.Clone(entries))
}

// FromKeys creates a dict mapping every key to value
func FromKeys[K comparable, V any](keys []K, value V) Dict[K, V] {
	d := make(Dict[K, V], len(keys))
	for _, key := range keys {
		d[key] = value
	}
	return d
}

func (d Dict[K, V]) Len() int {
	return len(d)
}

// Get returns the value for key and whether it is present
func (d Dict[K, V]) Get(key K) (V, bool) {
	value, ok := d[key]
	return value, ok
}

// Lookup returns the value for key or a NotFound error
func (d Dict[K, V]) Lookup(key K) (V, error) {
	value, ok := d[key]
	if !ok {
		return value, errors.NewNotFound("key %v not found", key)
	}
	return value, nil
}

// GetOrDefault returns the value for key, or def if key is absent
func (d Dict[K, V]) GetOrDefault(key K, def V) V {
	if value, ok := d[key]; ok {
		return value
	}
	return def
}

// Contains returns whether key is present
func (d Dict[K, V]) Contains(key K) bool {
	_, ok := d[key]
	return ok
}

// Put returns the dict with key set to value
func (d Dict[K, V]) Put(key K, value V) Dict[K, V] {
	result := d.Clone()
	result[key] = value
	return result
}

// Update returns the dict with every entry of other set
func (d Dict[K, V]) Update(other map[K]V) Dict[K, V] {
	result := d.Clone()
	for key, value := range other {
		result[key] = value
	}
	return result
}

// Delete returns the dict without key
func (d Dict[K, V]) Delete(key K) (Dict[K, V], error) {
	_, result, err := d.Pop(key)
	return result, err
}

// Pop returns the value for key and the dict without it
func (d Dict[K, V]) Pop(key K) (V, Dict[K, V], error) {
	value, err := d.Lookup(key)
	if err != nil {
		return value, d, err
	}
	result := d.Clone()
	delete(result, key)
	return value, result, nil
}

// Keys returns the keys in unspecified order
func (d Dict[K, V]) Keys() []K {
	return maps.Keys(d)
}

// Values returns the values in unspecified order
func (d Dict[K, V]) Values() []V {
	return maps.Values(d)
}

// Clone returns a copy of the dict
func (d Dict[K, V]) Clone() Dict[K, V] {
	if d == nil {
		return Dict[K, V]{}
	}
	return maps.Clone(d)
}

// TakeItem pops the entry for key
func (d Dict[K, V]) TakeItem(key any) (any, any, error) {
	k, ok := key.(K)
	if !ok {
		var zero K
		return nil, d, errors.NewInvalid("dict key must be %T, not %T", zero, key)
	}
	value, rest, err := d.Pop(k)
	if err != nil {
		return nil, d, err
	}
	return value, rest, nil
}

// PutItem stores item under key
func (d Dict[K, V]) PutItem(key any, item any) (any, error) {
	k, ok := key.(K)
	if !ok {
		var zero K
		return d, errors.NewInvalid("dict key must be %T, not %T", zero, key)
	}
	value, ok := item.(V)
	if !ok {
		var zero V
		return d, errors.NewInvalid("cannot add %T to dict of %T", item, zero)
	}
	return d.Put(k, value), nil
}

var _ ItemSource = Dict[string, any]{}
var _ ItemSink = Dict[string, any]{}
