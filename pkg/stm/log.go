// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stm

import (
	"github.com/tram-stm/go-tram/pkg/errors"
	tramtime "github.com/tram-stm/go-tram/pkg/time"
)

// State is the phase of a transaction attempt
type State int

const (
	Reading State = iota
	ComputingWrites
	Locking
	Validating
	Committing
	Aborting
	Done
	Exhausted
)

func (s State) String() string {
	switch s {
	case Reading:
		return "Reading"
	case ComputingWrites:
		return "ComputingWrites"
	case Locking:
		return "Locking"
	case Validating:
		return "Validating"
	case Committing:
		return "Committing"
	case Aborting:
		return "Aborting"
	case Done:
		return "Done"
	case Exhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// ReadRecord is a value observed by an attempt
type ReadRecord struct {
	Cell    Object
	Value   any
	Version Version
}

// WriteRecord is a value proposed by an attempt
type WriteRecord struct {
	Cell    Object
	Value   any
	Version Version
}

// Log records the reads and writes of a single transaction attempt
type Log struct {
	clock        tramtime.Clock
	participants map[ID]Object
	reads        []ReadRecord
	writes       []WriteRecord
	pending      map[ID]int
	state        State
}

// NewLog creates an empty log for an attempt over the given participants. Write versions are
// sampled from the given clock.
func NewLog(clock tramtime.Clock, participants []Object) *Log {
	l := &Log{
		clock:        clock,
		participants: make(map[ID]Object, len(participants)),
		reads:        make([]ReadRecord, 0, len(participants)),
		pending:      make(map[ID]int),
	}
	for _, cell := range participants {
		l.participants[cell.ID()] = cell
	}
	return l
}

// State returns the attempt's current phase
func (l *Log) State() State {
	return l.state
}

// Reads returns the read records in the order they were made
func (l *Log) Reads() []ReadRecord {
	return l.reads
}

// Writes returns the write records in the order they were proposed
func (l *Log) Writes() []WriteRecord {
	return l.writes
}

// Read returns the attempt's latest proposed value for the cell if it has one, otherwise the
// cell's committed value
func (l *Log) Read(cell Object) any {
	var record ReadRecord
	if i, ok := l.pending[cell.ID()]; ok {
		write := l.writes[i]
		record = ReadRecord{Cell: cell, Value: write.Value, Version: write.Version}
	} else {
		value, version := cell.read()
		record = ReadRecord{Cell: cell, Value: value, Version: version}
	}
	l.reads = append(l.reads, record)
	return record.Value
}

// Write proposes a new value for a participant, stamped with a fresh clock sample
func (l *Log) Write(write Write) error {
	if write.Cell == nil {
		return errors.NewInvalid("write has no cell")
	}
	if _, ok := l.participants[write.Cell.ID()]; !ok {
		return errors.NewInvalid("cell %d is not a participant of the transaction", write.Cell.ID())
	}
	l.pending[write.Cell.ID()] = len(l.writes)
	l.writes = append(l.writes, WriteRecord{
		Cell:    write.Cell,
		Value:   write.Value,
		Version: Version(l.clock.Increment()),
	})
	return nil
}

// validate fails with a Conflict if any cell was committed after the attempt read it.
// The caller must hold the locks of all participants.
func (l *Log) validate() error {
	for _, record := range l.reads {
		if current := record.Cell.Version(); current > record.Version {
			return errors.NewConflict("cell %d changed from version %d to %d", record.Cell.ID(), record.Version, current)
		}
	}
	return nil
}

// commit applies every write. Nothing is applied if any write would be rejected.
// The caller must hold the locks of all participants.
func (l *Log) commit() error {
	versions := make(map[ID]Version, len(l.writes))
	for _, record := range l.writes {
		current, ok := versions[record.Cell.ID()]
		if !ok {
			current = record.Cell.Version()
		}
		if record.Version < current {
			return errors.NewInvalidVersion("cannot overwrite version %d of cell %d with older version %d", current, record.Cell.ID(), record.Version)
		}
		if err := record.Cell.check(record.Value, record.Version); err != nil {
			return err
		}
		versions[record.Cell.ID()] = record.Version
	}
	for _, record := range l.writes {
		if err := record.Cell.commit(record.Value, record.Version); err != nil {
			return errors.NewFault("commit failed after checks passed: %v", err)
		}
	}
	return nil
}
