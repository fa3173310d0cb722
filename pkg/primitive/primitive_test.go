// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package primitive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/stm"
)

func TestOptions(t *testing.T) {
	options := NewOptions("test")
	assert.Equal(t, "test", options.Name)
	assert.Same(t, stm.DefaultEngine(), options.Engine)
	assert.Empty(t, options.TransactionOptions())

	options.SetEngine(nil)
	assert.Same(t, stm.DefaultEngine(), options.Engine)
	engine := stm.NewEngine()
	options.SetEngine(engine)
	assert.Same(t, engine, options.Engine)

	options.SetRetries(0)
	assert.Len(t, options.TransactionOptions(), 1)
}

func TestDone(t *testing.T) {
	cell := stm.NewCell(1)
	p := New("test", cell)
	assert.Equal(t, "test", p.Name())
	assert.Equal(t, cell.ID(), p.Object().ID())

	assert.NoError(t, Done(stm.Transaction(context.Background(), []stm.Object{cell}, stm.Nada)))

	err := Done(stm.Transaction(context.Background(), []stm.Object{cell}, stm.Nada, stm.WithRetries(0)))
	assert.True(t, errors.IsAborted(err))

	err = Done(stm.Transaction(context.Background(), nil, stm.Nada))
	assert.True(t, errors.IsInvalid(err))
}
