// SPDX-FileCopyrightText: 2019-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package primitive

import (
	"context"

	"github.com/tram-stm/go-tram/pkg/errors"
	"github.com/tram-stm/go-tram/pkg/stm"
)

type Builder[B any, T Primitive] interface {
	Engine(engine *stm.Engine) B
	Retries(retries int) B
	Get(ctx context.Context) (T, error)
}

func NewOptions(name string) *Options {
	return &Options{
		Name:   name,
		Engine: stm.DefaultEngine(),
	}
}

type Options struct {
	Name    string
	Engine  *stm.Engine
	Retries *int
}

func (o *Options) SetEngine(engine *stm.Engine) {
	if engine != nil {
		o.Engine = engine
	}
}

func (o *Options) SetRetries(retries int) {
	o.Retries = &retries
}

// TransactionOptions returns the options applied to every transaction run by the primitive
func (o *Options) TransactionOptions() []stm.TransactionOption {
	if o.Retries == nil {
		return nil
	}
	return []stm.TransactionOption{stm.WithRetries(*o.Retries)}
}

// Primitive is the base interface for primitives
type Primitive interface {
	// Name returns the primitive name
	Name() string

	// Object returns the cell backing the primitive
	Object() stm.Object
}

func New(name string, object stm.Object) Primitive {
	return &managedPrimitive{
		name:   name,
		object: object,
	}
}

type managedPrimitive struct {
	name   string
	object stm.Object
}

func (p *managedPrimitive) Name() string {
	return p.name
}

func (p *managedPrimitive) Object() stm.Object {
	return p.object
}

func (p *managedPrimitive) String() string {
	return p.name
}

// Done converts the outcome of a primitive's transaction into an error. An abandoned
// transaction is reported as Aborted since the primitive's operation did not take effect.
func Done(result stm.Result, err error) error {
	if err != nil {
		return err
	}
	if !result.Committed() {
		return errors.NewAborted("transaction %s abandoned after %d attempts", result.ID, result.Attempts)
	}
	return nil
}
