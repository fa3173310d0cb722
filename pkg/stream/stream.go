// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stream

import "io"

// Stream is a lazy sequence of elements. Next returns io.EOF once the stream is exhausted;
// any other error terminates the stream.
type Stream[T any] interface {
	Next() (T, error)
}

// Func is a stream backed by a generator function
type Func[T any] func() (T, error)

func (f Func[T]) Next() (T, error) {
	return f()
}

// Empty returns a stream with no elements
func Empty[T any]() Stream[T] {
	return Func[T](func() (T, error) {
		var t T
		return t, io.EOF
	})
}

// Error returns a stream that fails with the given error
func Error[T any](err error) Stream[T] {
	return Func[T](func() (T, error) {
		var t T
		return t, err
	})
}

// Result is a stream element delivered over a channel
type Result[T any] struct {
	Value T
	Error error
}

func NewChannelStream[T any](ch <-chan Result[T]) Stream[T] {
	return &channelStream[T]{
		ch: ch,
	}
}

type channelStream[T any] struct {
	ch <-chan Result[T]
}

func (s *channelStream[T]) Next() (T, error) {
	var t T
	result, ok := <-s.ch
	if !ok {
		return t, io.EOF
	}
	return result.Value, result.Error
}

func NewTranscodingStream[I, O any](stream Stream[I], transcoder func(I) (O, error)) Stream[O] {
	return &transcodingStream[I, O]{
		stream:     stream,
		transcoder: transcoder,
	}
}

type transcodingStream[I, O any] struct {
	stream     Stream[I]
	transcoder func(I) (O, error)
}

func (s *transcodingStream[I, O]) Next() (O, error) {
	var out O
	in, err := s.stream.Next()
	if err != nil {
		return out, err
	}
	return s.transcoder(in)
}

func NewSliceStream[T any](elems []T) Stream[T] {
	return &sliceStream[T]{
		elems: elems,
	}
}

// Of returns a stream over the given elements
func Of[T any](elems ...T) Stream[T] {
	return NewSliceStream[T](elems)
}

type sliceStream[T any] struct {
	elems []T
	index int
}

func (s *sliceStream[T]) Next() (T, error) {
	var elem T
	if s.index >= len(s.elems) {
		return elem, io.EOF
	}
	elem = s.elems[s.index]
	s.index++
	return elem, nil
}

// Collect drains the stream into a slice
func Collect[T any](stream Stream[T]) ([]T, error) {
	var elems []T
	err := ForEach[T](stream, func(elem T) error {
		elems = append(elems, elem)
		return nil
	})
	return elems, err
}

// ForEach calls f for each element until the stream ends or f returns an error.
// Reaching the end of the stream is not an error.
func ForEach[T any](stream Stream[T], f func(T) error) error {
	for {
		elem, err := stream.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := f(elem); err != nil {
			return err
		}
	}
}
