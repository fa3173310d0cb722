// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package collection

import (
	"github.com/tram-stm/go-tram/pkg/errors"
	"golang.org/x/exp/slices"
)

// List is an immutable sequence. Negative indexes count from the end of the list.
type List[E any] []E

// NewList creates a list holding a copy of the given elements
func NewList[E any](elems ...E) List[E] {
	return List[E](slices.Clone(elems))
}

func (l List[E]) Len() int {
	return len(l)
}

func (l List[E]) index(i int) (int, error) {
	j := i
	if j < 0 {
		j += len(l)
	}
	if j < 0 || j >= len(l) {
		return 0, errors.NewOutOfRange("index %d out of range for list of length %d", i, len(l))
	}
	return j, nil
}

// Get returns the element at index i
func (l List[E]) Get(i int) (E, error) {
	j, err := l.index(i)
	if err != nil {
		var e E
		return e, err
	}
	return l[j], nil
}

// Append returns the list with the elements added to the end
func (l List[E]) Append(elems ...E) List[E] {
	result := make(List[E], 0, len(l)+len(elems))
	result = append(result, l...)
	return append(result, elems...)
}

// Insert returns the list with elem inserted before index i. Indexes past either end insert
// at that end.
func (l List[E]) Insert(i int, elem E) List[E] {
	if i < 0 {
		i += len(l)
	}
	if i < 0 {
		i = 0
	}
	if i > len(l) {
		i = len(l)
	}
	return List[E](slices.Insert(slices.Clone([]E(l)), i, elem))
}

// Set returns the list with the element at index i replaced
func (l List[E]) Set(i int, elem E) (List[E], error) {
	j, err := l.index(i)
	if err != nil {
		return l, err
	}
	result := slices.Clone(l)
	result[j] = elem
	return result, nil
}

// Delete returns the list without the element at index i
func (l List[E]) Delete(i int) (List[E], error) {
	_, result, err := l.Pop(i)
	return result, err
}

// Pop returns the element at index i and the list without it
func (l List[E]) Pop(i int) (E, List[E], error) {
	var elem E
	j, err := l.index(i)
	if err != nil {
		return elem, l, err
	}
	elem = l[j]
	result := make(List[E], 0, len(l)-1)
	result = append(result, l[:j]...)
	return elem, append(result, l[j+1:]...), nil
}

// IndexFunc returns the index of the first element satisfying f, or -1
func (l List[E]) IndexFunc(f func(E) bool) int {
	return slices.IndexFunc(l, f)
}

// Repeat returns the list repeated n times
func (l List[E]) Repeat(n int) List[E] {
	if n <= 0 {
		return List[E]{}
	}
	result := make(List[E], 0, len(l)*n)
	for i := 0; i < n; i++ {
		result = append(result, l...)
	}
	return result
}

// SortFunc returns a sorted copy of the list
func (l List[E]) SortFunc(less func(a, b E) bool) List[E] {
	result := slices.Clone(l)
	slices.SortStableFunc(result, less)
	return result
}

// Map returns the list with f applied to every element
func (l List[E]) Map(f func(E) (E, error)) (List[E], error) {
	result := make(List[E], len(l))
	for i, elem := range l {
		mapped, err := f(elem)
		if err != nil {
			return l, err
		}
		result[i] = mapped
	}
	return result, nil
}

// Clone returns a copy of the list
func (l List[E]) Clone() List[E] {
	if l == nil {
		return List[E]{}
	}
	return slices.Clone(l)
}

// TakeItem pops the element at the int index key
func (l List[E]) TakeItem(key any) (any, any, error) {
	i, ok := key.(int)
	if !ok {
		return nil, l, errors.NewInvalid("list index must be an int, not %T", key)
	}
	elem, rest, err := l.Pop(i)
	if err != nil {
		return nil, l, err
	}
	return elem, rest, nil
}

// PutItem appends item to the list; the key is ignored
func (l List[E]) PutItem(key any, item any) (any, error) {
	elem, ok := item.(E)
	if !ok {
		var e E
		return l, errors.NewInvalid("cannot add %T to list of %T", item, e)
	}
	return l.Append(elem), nil
}

var _ ItemSource = List[any]{}
var _ ItemSink = List[any]{}
