// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package list

import (
	"context"

	"github.com/tram-stm/go-tram/pkg/collection"
	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/primitive"
	"github.com/tram-stm/go-tram/pkg/stm"
)

func NewBuilder[E any](name string) *Builder[E] {
	return &Builder[E]{
		options: primitive.NewOptions(name),
	}
}

type Builder[E any] struct {
	options *primitive.Options
	initial collection.List[E]
}

func (b *Builder[E]) Engine(engine *stm.Engine) *Builder[E] {
	b.options.SetEngine(engine)
	return b
}

func (b *Builder[E]) Retries(retries int) *Builder[E] {
	b.options.SetRetries(retries)
	return b
}

// Initial sets the list's starting values
func (b *Builder[E]) Initial(values ...E) *Builder[E] {
	b.initial = collection.NewList[E](values...)
	return b
}

func (b *Builder[E]) Get(ctx context.Context) (List[E], error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.FromContext(err)
	}
	initial := b.initial.Clone()
	cell := stm.NewCellWithClock[collection.List[E]](initial, b.options.Engine.Clock())
	return &listPrimitive[E]{
		Primitive: primitive.New(b.options.Name, cell),
		cell:      cell,
		options:   b.options,
	}, nil
}

var _ primitive.Builder[*Builder[string], List[string]] = (*Builder[string])(nil)
