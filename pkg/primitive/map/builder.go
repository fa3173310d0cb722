// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package _map //nolint:golint

import (
	"context"

	"github.com/tram-stm/go-tram/pkg/collection"
	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/primitive"
	"github.com/tram-stm/go-tram/pkg/stm"
)

func NewBuilder[K comparable, V any](name string) *Builder[K, V] {
	return &Builder[K, V]{
		options: primitive.NewOptions(name),
	}
}

type Builder[K comparable, V any] struct {
	options *primitive.Options
	initial collection.Dict[K, V]
}

func (b *Builder[K, V]) Engine(engine *stm.Engine) *Builder[K, V] {
	b.options.SetEngine(engine)
	return b
}

func (b *Builder[K, V]) Retries(retries int) *Builder[K, V] {
	b.options.SetRetries(retries)
	return b
}

// Initial sets the map's starting entries
func (b *Builder[K, V]) Initial(entries map[K]V) *Builder[K, V] {
	b.initial = collection.NewDict[K, V](entries)
	return b
}

// FromKeys starts the map with every key mapped to value
func (b *Builder[K, V]) FromKeys(keys []K, value V) *Builder[K, V] {
	b.initial = collection.FromKeys[K, V](keys, value)
	return b
}

func (b *Builder[K, V]) Get(ctx context.Context) (Map[K, V], error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.FromContext(err)
	}
	cell := stm.NewCellWithClock[collection.Dict[K, V]](b.initial.Clone(), b.options.Engine.Clock())
	return &mapPrimitive[K, V]{
		Primitive: primitive.New(b.options.Name, cell),
		cell:      cell,
		options:   b.options,
	}, nil
}

var _ primitive.Builder[*Builder[string, string], Map[string, string]] = (*Builder[string, string])(nil)
