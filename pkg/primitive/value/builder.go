// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"context"

	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/primitive"
	"github.com/tram-stm/go-tram/pkg/stm"
)

func NewBuilder[V any](name string) *Builder[V] {
	return &Builder[V]{
		options: primitive.NewOptions(name),
	}
}

type Builder[V any] struct {
	options *primitive.Options
	initial V
}

func (b *Builder[V]) Engine(engine *stm.Engine) *Builder[V] {
	b.options.SetEngine(engine)
	return b
}

func (b *Builder[V]) Retries(retries int) *Builder[V] {
	b.options.SetRetries(retries)
	return b
}

func (b *Builder[V]) Initial(value V) *Builder[V] {
	b.initial = value
	return b
}

func (b *Builder[V]) Get(ctx context.Context) (Value[V], error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.FromContext(err)
	}
	cell := stm.NewCellWithClock[V](b.initial, b.options.Engine.Clock())
	return &valuePrimitive[V]{
		Primitive: primitive.New(b.options.Name, cell),
		cell:      cell,
		options:   b.options,
	}, nil
}

var _ primitive.Builder[*Builder[string], Value[string]] = (*Builder[string])(nil)
