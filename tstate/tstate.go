// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/ava-labs/kittyvm/keys"
)

// TState defines a struct for storing temporary state.
//
// Changes made by committed [TStateView]s accumulate here until the block is
// accepted and [ExportChanges] hands them to the [state.Database].
type TState struct {
	l           sync.RWMutex
	ops         int
	changedKeys map[string]maybe.Maybe[[]byte]
}

// New returns a new instance of TState.
//
// [changedSize] is an estimate of the number of keys that will be changed and is
// used to size the change map.
func New(changedSize int) *TState {
	return &TState{
		changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize),
	}
}

func (ts *TState) getChangedValue(_ context.Context, key string) ([]byte, bool, bool) {
	ts.l.RLock()
	defer ts.l.RUnlock()

	if v, ok := ts.changedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false
		}
		return v.Value(), true, true
	}
	return nil, false, false
}

// Insert should only be called if you know what you are doing (updates
// here may not be reflected in get calls in tstate views and/or may overwrite
// identical keys on disk).
func (ts *TState) Insert(_ context.Context, key, value []byte) error {
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	ts.l.Lock()
	defer ts.l.Unlock()

	ts.changedKeys[string(key)] = maybe.Some(value)
	return nil
}

// OpIndex returns the number of operations committed to ts.
func (ts *TState) OpIndex() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return ts.ops
}

// PendingChanges returns the number of keys changed by committed views.
func (ts *TState) PendingChanges() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return len(ts.changedKeys)
}

// ExportChanges returns every change in [TState] in the form expected by
// [state.Database.Commit].
//
// Once [ExportChanges] is called, [TState] should not be used again.
func (ts *TState) ExportChanges() map[string]maybe.Maybe[[]byte] {
	ts.l.Lock()
	defer ts.l.Unlock()

	changes := ts.changedKeys
	ts.changedKeys = nil
	return changes
}
