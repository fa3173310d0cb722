// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package _map //nolint:golint

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tram-stm/go-tram/pkg/collection"
	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/logging"
	"github.com/tram-stm/go-tram/pkg/stm"
)

func TestMapOperations(t *testing.T) {
	logging.SetLevel(logging.DebugLevel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	map1, err := NewBuilder[string, string]("test").Get(ctx)
	require.NoError(t, err)

	value, err := map1.Get(context.Background(), "foo")
	assert.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, "", value)

	size, err := map1.Len(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, size)

	err = map1.Put(context.Background(), "foo", "bar")
	assert.NoError(t, err)

	value, err = map1.Get(context.Background(), "foo")
	assert.NoError(t, err)
	assert.Equal(t, "bar", value)

	ok, err := map1.Contains(context.Background(), "foo")
	assert.NoError(t, err)
	assert.True(t, ok)

	value, err = map1.GetOrDefault(context.Background(), "baz", "dinosaur")
	assert.NoError(t, err)
	assert.Equal(t, "dinosaur", value)

	size, err = map1.Len(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, size)

	value, err = map1.Update(context.Background(), "foo", func(v string) (string, error) {
		return v + "baz", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "barbaz", value)

	_, err = map1.Update(context.Background(), "bar", func(v string) (string, error) {
		return v, nil
	})
	assert.True(t, errors.IsNotFound(err))

	value, err = map1.Remove(context.Background(), "foo")
	assert.NoError(t, err)
	assert.Equal(t, "barbaz", value)

	_, err = map1.Remove(context.Background(), "foo")
	assert.True(t, errors.IsNotFound(err))

	err = map1.PutAll(context.Background(), map[string]string{"one": "1", "two": "2"})
	assert.NoError(t, err)

	keys, err := map1.Keys(context.Background())
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, keys)

	values, err := map1.Values(context.Background())
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "2"}, values)

	entries, err := map1.List(context.Background())
	assert.NoError(t, err)
	listed := make(map[string]string)
	for {
		entry, err := entries.Next()
		if err == io.EOF {
			break
		}
		assert.NoError(t, err)
		listed[entry.Key] = entry.Value
	}
	assert.Equal(t, map[string]string{"one": "1", "two": "2"}, listed)

	copied, err := map1.Copy(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, collection.Dict[string, string]{"one": "1", "two": "2"}, copied)

	err = map1.Clear(context.Background())
	assert.NoError(t, err)
	size, err = map1.Len(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, size)
	assert.Len(t, copied, 2)
}

func TestMapFromKeys(t *testing.T) {
	m, err := NewBuilder[int, *string]("test").FromKeys([]int{1, 2}, nil).Get(context.Background())
	require.NoError(t, err)
	copied, err := m.Copy(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, collection.Dict[int, *string]{1: nil, 2: nil}, copied)
}

func TestMapTransfer(t *testing.T) {
	engine := stm.NewEngine()
	left, err := NewBuilder[string, int]("left").Engine(engine).Initial(map[string]int{"two": 2}).Get(context.Background())
	require.NoError(t, err)
	right, err := NewBuilder[string, int]("right").Engine(engine).Initial(map[string]int{"one": 1}).Get(context.Background())
	require.NoError(t, err)

	assert.NoError(t, left.Transfer(context.TODO(), right, "two"))
	copied, _ := right.Copy(context.TODO())
	assert.Equal(t, collection.Dict[string, int]{"one": 1, "two": 2}, copied)
	copied, _ = left.Copy(context.TODO())
	assert.Empty(t, copied)

	err = left.Transfer(context.TODO(), right, "two")
	assert.True(t, errors.IsNotFound(err))
}

func TestConcurrentPut(t *testing.T) {
	m, err := NewBuilder[string, struct{}]("test").
		Engine(stm.NewEngine(stm.WithMaxRetries(100000))).
		Get(context.Background())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, m.PutAll(context.Background(), map[string]struct{}{fmt.Sprintf("key-%d", i): {}}))
		}(i)
	}
	wg.Wait()

	size, err := m.Len(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, 100, size)
}
