// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Type is an error type
type Type int

const (
	// Unknown is an unknown error type
	Unknown Type = iota
	// Canceled indicates the operation's context was canceled
	Canceled
	// Timeout indicates the operation's context deadline was exceeded
	Timeout
	// Invalid indicates the caller supplied invalid arguments
	Invalid
	// Unsupported indicates an operation is not supported by a cell's value
	Unsupported
	// NotFound indicates a key was not present in a collection
	NotFound
	// OutOfRange indicates an index was out of a collection's bounds
	OutOfRange
	// Conflict indicates a transaction read was invalidated by a concurrent commit
	Conflict
	// Aborted indicates a transaction exhausted its retries
	Aborted
	// InvalidVersion indicates an attempt to move a cell's version backwards
	InvalidVersion
	// Fault indicates an internal error
	Fault
)

func (t Type) String() string {
	switch t {
	case Canceled:
		return "Canceled"
	case Timeout:
		return "Timeout"
	case Invalid:
		return "Invalid"
	case Unsupported:
		return "Unsupported"
	case NotFound:
		return "NotFound"
	case OutOfRange:
		return "OutOfRange"
	case Conflict:
		return "Conflict"
	case Aborted:
		return "Aborted"
	case InvalidVersion:
		return "InvalidVersion"
	case Fault:
		return "Fault"
	default:
		return "Unknown"
	}
}

// TypedError is an error with a type
type TypedError struct {
	// Type is the error type
	Type Type
	// Message is the error message
	Message string
}

func (e *TypedError) Error() string {
	return e.Message
}

// New creates a new typed error
func New(t Type, msg string, args ...interface{}) error {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return errors.WithStack(&TypedError{
		Type:    t,
		Message: msg,
	})
}

// NewCanceled returns a new Canceled error
func NewCanceled(msg string, args ...interface{}) error {
	return New(Canceled, msg, args...)
}

// NewTimeout returns a new Timeout error
func NewTimeout(msg string, args ...interface{}) error {
	return New(Timeout, msg, args...)
}

// NewInvalid returns a new Invalid error
func NewInvalid(msg string, args ...interface{}) error {
	return New(Invalid, msg, args...)
}

// NewUnsupported returns a new Unsupported error
func NewUnsupported(msg string, args ...interface{}) error {
	return New(Unsupported, msg, args...)
}

// NewNotFound returns a new NotFound error
func NewNotFound(msg string, args ...interface{}) error {
	return New(NotFound, msg, args...)
}

// NewOutOfRange returns a new OutOfRange error
func NewOutOfRange(msg string, args ...interface{}) error {
	return New(OutOfRange, msg, args...)
}

// NewConflict returns a new Conflict error
func NewConflict(msg string, args ...interface{}) error {
	return New(Conflict, msg, args...)
}

// NewAborted returns a new Aborted error
func NewAborted(msg string, args ...interface{}) error {
	return New(Aborted, msg, args...)
}

// NewInvalidVersion returns a new InvalidVersion error
func NewInvalidVersion(msg string, args ...interface{}) error {
	return New(InvalidVersion, msg, args...)
}

// NewFault returns a new Fault error
func NewFault(msg string, args ...interface{}) error {
	return New(Fault, msg, args...)
}

// FromContext converts a context error into a typed error
func FromContext(err error) error {
	switch err {
	case nil:
		return nil
	case context.Canceled:
		return NewCanceled(err.Error())
	case context.DeadlineExceeded:
		return NewTimeout(err.Error())
	default:
		return err
	}
}

// Wrap annotates an error with a message, preserving its type
func Wrap(err error, msg string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, msg, args...)
}

// TypeOf returns the type of the given error
func TypeOf(err error) Type {
	var typed *TypedError
	if errors.As(err, &typed) {
		return typed.Type
	}
	return Unknown
}

// IsType checks whether the given error is of the given type
func IsType(err error, t Type) bool {
	return err != nil && TypeOf(err) == t
}

// IsCanceled checks whether the given error is a Canceled error
func IsCanceled(err error) bool {
	return IsType(err, Canceled)
}

// IsTimeout checks whether the given error is a Timeout error
func IsTimeout(err error) bool {
	return IsType(err, Timeout)
}

// IsInvalid checks whether the given error is an Invalid error
func IsInvalid(err error) bool {
	return IsType(err, Invalid)
}

// IsUnsupported checks whether the given error is an Unsupported error
func IsUnsupported(err error) bool {
	return IsType(err, Unsupported)
}

// IsNotFound checks whether the given error is a NotFound error
func IsNotFound(err error) bool {
	return IsType(err, NotFound)
}

// IsOutOfRange checks whether the given error is an OutOfRange error
func IsOutOfRange(err error) bool {
	return IsType(err, OutOfRange)
}

// IsConflict checks whether the given error is a Conflict error
func IsConflict(err error) bool {
	return IsType(err, Conflict)
}

// IsAborted checks whether the given error is an Aborted error
func IsAborted(err error) bool {
	return IsType(err, Aborted)
}

// IsInvalidVersion checks whether the given error is an InvalidVersion error
func IsInvalidVersion(err error) bool {
	return IsType(err, InvalidVersion)
}

// IsFault checks whether the given error is a Fault error
func IsFault(err error) bool {
	return IsType(err, Fault)
}

// IsRetryable checks whether a transaction attempt failing with the given error may be retried
func IsRetryable(err error) bool {
	return IsConflict(err)
}
