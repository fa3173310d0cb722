// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

/*
Package collection provides immutable collection values for transactional cells.

Every method that changes a collection returns a new collection and leaves the receiver
untouched, so a value observed by one transaction attempt is never mutated by another.
*/
package collection

// Sized is a collection with a length
type Sized interface {
	Len() int
}

// ItemSource is a collection items can be taken out of
type ItemSource interface {
	// TakeItem returns the item at key and the collection without it
	TakeItem(key any) (item any, rest any, err error)
}

// ItemSink is a collection items can be put into
type ItemSink interface {
	// PutItem returns the collection with item added under key
	PutItem(key any, item any) (any, error)
}
