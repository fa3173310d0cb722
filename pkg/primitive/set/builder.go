// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package set

import (
	"context"

	"github.com/tram-stm/go-tram/pkg/collection"
	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/primitive"
	"github.com/tram-stm/go-tram/pkg/stm"
)

func NewBuilder[E comparable](name string) *Builder[E] {
	return &Builder[E]{
		options: primitive.NewOptions(name),
	}
}

type Builder[E comparable] struct {
	options *primitive.Options
	initial []E
}

func (b *Builder[E]) Engine(engine *stm.Engine) *Builder[E] {
	b.options.SetEngine(engine)
	return b
}

func (b *Builder[E]) Retries(retries int) *Builder[E] {
	b.options.SetRetries(retries)
	return b
}

// Initial sets the set's starting elements
func (b *Builder[E]) Initial(elems ...E) *Builder[E] {
	b.initial = elems
	return b
}

func (b *Builder[E]) Get(ctx context.Context) (Set[E], error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.FromContext(err)
	}
	elems := collection.FromKeys[E, struct{}](b.initial, struct{}{})
	cell := stm.NewCellWithClock[collection.Dict[E, struct{}]](elems, b.options.Engine.Clock())
	return &setPrimitive[E]{
		Primitive: primitive.New(b.options.Name, cell),
		cell:      cell,
		options:   b.options,
	}, nil
}

var _ primitive.Builder[*Builder[string], Set[string]] = (*Builder[string])(nil)
