// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stm

import (
	"io"

	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/stream"
)

// Write is a proposed new value for a cell
type Write struct {
	Cell  Object
	Value any
}

// WriteFunc computes the writes of a transaction from the values observed for its participants.
// cells and values are in the same order. A WriteFunc may run several times per transaction and
// must not have side effects on shared state. An error returned by the stream aborts the
// transaction without retrying it.
type WriteFunc func(cells []Object, values []any) stream.Stream[Write]

// Reader reads cells on behalf of a transaction attempt
type Reader interface {
	// Read returns the value of the cell as seen by the attempt and records the read
	Read(cell Object) any
}

// ReadFunc observes the participants of a transaction
type ReadFunc func(reader Reader, cells []Object) ([]any, error)

// ReadAll reads every participant in order
func ReadAll(reader Reader, cells []Object) ([]any, error) {
	values := make([]any, len(cells))
	for i, cell := range cells {
		values[i] = reader.Read(cell)
	}
	return values, nil
}

// Nada proposes every observed value unchanged
var Nada WriteFunc = func(cells []Object, values []any) stream.Stream[Write] {
	return Each(cells, values, func(cell Object, value any) (any, error) {
		return value, nil
	})
}

// Each lazily maps every participant and its observed value to a write
func Each(cells []Object, values []any, f func(cell Object, value any) (any, error)) stream.Stream[Write] {
	i := 0
	return stream.Func[Write](func() (Write, error) {
		if i >= len(cells) || i >= len(values) {
			return Write{}, io.EOF
		}
		cell, value := cells[i], values[i]
		i++
		next, err := f(cell, value)
		if err != nil {
			return Write{}, err
		}
		return Write{Cell: cell, Value: next}, nil
	})
}

// Atomic lifts a function over a single value into a write computation that applies it to
// every participant
func Atomic[V any](f func(V) (V, error)) WriteFunc {
	return func(cells []Object, values []any) stream.Stream[Write] {
		return Each(cells, values, func(cell Object, value any) (any, error) {
			v, ok := value.(V)
			if !ok && value != nil {
				var zero V
				return nil, errors.NewInvalid("cannot apply function of %T to %T", zero, value)
			}
			return f(v)
		})
	}
}
