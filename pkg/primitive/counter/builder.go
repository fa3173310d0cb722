// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package counter

import (
	"context"

	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/primitive"
	"github.com/tram-stm/go-tram/pkg/stm"
)

func NewBuilder[N stm.Number](name string) *Builder[N] {
	return &Builder[N]{
		options: primitive.NewOptions(name),
	}
}

type Builder[N stm.Number] struct {
	options *primitive.Options
	initial N
}

func (b *Builder[N]) Engine(engine *stm.Engine) *Builder[N] {
	b.options.SetEngine(engine)
	return b
}

func (b *Builder[N]) Retries(retries int) *Builder[N] {
	b.options.SetRetries(retries)
	return b
}

// Initial sets the counter's starting value
func (b *Builder[N]) Initial(value N) *Builder[N] {
	b.initial = value
	return b
}

func (b *Builder[N]) Get(ctx context.Context) (Counter[N], error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.FromContext(err)
	}
	cell := stm.NewCellWithClock[N](b.initial, b.options.Engine.Clock())
	return &counterPrimitive[N]{
		Primitive: primitive.New(b.options.Name, cell),
		cell:      cell,
		options:   b.options,
	}, nil
}

var _ primitive.Builder[*Builder[int64], Counter[int64]] = (*Builder[int64])(nil)
