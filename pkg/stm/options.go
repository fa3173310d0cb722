// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package stm

import (
	"github.com/tram-stm/go-tram/pkg/config"
	tramtime "github.com/tram-stm/go-tram/pkg/time"
)

// Option is an Engine option
type Option interface {
	apply(options *Options)
}

// Options are the Engine options
type Options struct {
	Clock      tramtime.Clock
	MaxRetries int
	Strict     bool
	Backoff    Backoff
	Observer   Observer
}

func defaultOptions() Options {
	defaults := config.Default()
	return Options{
		Clock:      tramtime.DefaultClock(),
		MaxRetries: defaults.Engine.MaxRetries,
		Backoff: Backoff{
			Initial: defaults.Engine.Backoff.Initial,
			Max:     defaults.Engine.Backoff.Max,
		},
		Observer: nopObserver{},
	}
}

type funcOption struct {
	f func(*Options)
}

func (o funcOption) apply(options *Options) {
	o.f(options)
}

func newFuncOption(f func(*Options)) Option {
	return funcOption{f: f}
}

// WithConfig applies the engine configuration
func WithConfig(config config.EngineConfig) Option {
	return newFuncOption(func(options *Options) {
		options.MaxRetries = config.MaxRetries
		options.Strict = config.Strict
		options.Backoff = Backoff{
			Initial: config.Backoff.Initial,
			Max:     config.Backoff.Max,
		}
	})
}

// WithClock sets the clock write versions are sampled from
func WithClock(clock tramtime.Clock) Option {
	return newFuncOption(func(options *Options) {
		options.Clock = clock
	})
}

// WithMaxRetries sets the default number of attempts per transaction
func WithMaxRetries(retries int) Option {
	return newFuncOption(func(options *Options) {
		options.MaxRetries = retries
	})
}

// WithStrict reports retry exhaustion as an Aborted error
func WithStrict() Option {
	return newFuncOption(func(options *Options) {
		options.Strict = true
	})
}

// WithBackoff sets the lock polling backoff
func WithBackoff(backoff Backoff) Option {
	return newFuncOption(func(options *Options) {
		options.Backoff = backoff
	})
}

// WithObserver sets the observer notified of transaction outcomes
func WithObserver(observer Observer) Option {
	return newFuncOption(func(options *Options) {
		options.Observer = observer
	})
}

// TransactionOption is an option for a single transaction
type TransactionOption interface {
	beforeTransaction(options *transactionOptions)
}

type transactionOptions struct {
	retries int
	reader  ReadFunc
}

// WithRetries sets the number of attempts for a transaction
func WithRetries(retries int) TransactionOption {
	return RetriesOption{retries: retries}
}

// RetriesOption is a TransactionOption setting the number of attempts
type RetriesOption struct {
	retries int
}

func (o RetriesOption) beforeTransaction(options *transactionOptions) {
	options.retries = o.retries
}

// WithReader sets the function a transaction observes its participants with
func WithReader(reader ReadFunc) TransactionOption {
	return ReaderOption{reader: reader}
}

// ReaderOption is a TransactionOption setting the read computation
type ReaderOption struct {
	reader ReadFunc
}

func (o ReaderOption) beforeTransaction(options *transactionOptions) {
	if o.reader != nil {
		options.reader = o.reader
	}
}

// Observer is notified of transaction outcomes
type Observer interface {
	// Committed is called when a transaction commits after the given number of attempts
	Committed(attempts int)
	// Conflicted is called when an attempt fails validation
	Conflicted()
	// Exhausted is called when a transaction runs out of attempts
	Exhausted()
	// Failed is called when a transaction stops with an error
	Failed(err error)
}

type nopObserver struct{}

func (nopObserver) Committed(int) {}
func (nopObserver) Conflicted()   {}
func (nopObserver) Exhausted()    {}
func (nopObserver) Failed(error)  {}
