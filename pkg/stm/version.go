// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stm

import (
	"fmt"

	"go.uber.org/atomic"
)

// Version is a version stamp for optimistic concurrency control
type Version uint64

// Versioned is a versioned value
type Versioned[V any] struct {
	Version Version
	Value   V
}

func (v Versioned[V]) String() string {
	return fmt.Sprintf("%v@%d", v.Value, v.Version)
}

// ID identifies a cell. IDs are assigned from a single process-wide sequence and define the
// order in which transactions lock cells.
type ID uint64

var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Inc())
}
