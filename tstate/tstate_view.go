// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/ava-labs/kittyvm/keys"
	"github.com/ava-labs/kittyvm/state"
)

const defaultOps = 4

var _ state.Mutable = (*TStateView)(nil)

type op struct {
	k string

	pastExists  bool
	pastV       []byte
	pastChanged bool
}

// TStateView is a single transaction's window onto [TState]. Writes stay in
// the view until [Commit] and can be undone with [Rollback].
type TStateView struct {
	ts                 *TState
	pendingChangedKeys map[string]maybe.Maybe[[]byte]

	// Ops is a record of all operations performed on [TState]. Tracking
	// operations allows for reverting state to a certain point-in-time.
	ops []*op

	// Reads that miss [TState] fall through to [im].
	im state.Immutable
}

func (ts *TState) NewView(im state.Immutable) *TStateView {
	return &TStateView{
		ts:                 ts,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte]),
		ops:                make([]*op, 0, defaultOps),
		im:                 im,
	}
}

// Rollback restores the TState to the ts.op[restorePoint] operation.
func (ts *TStateView) Rollback(_ context.Context, restorePoint int) {
	for i := len(ts.ops) - 1; i >= restorePoint; i-- {
		op := ts.ops[i]

		// Remove all key changes from the view if the key was not previously
		// modified.
		if !op.pastChanged {
			delete(ts.pendingChangedKeys, op.k)
			continue
		}

		// If a key did not previously exist, it goes back to being deleted.
		if !op.pastExists {
			ts.pendingChangedKeys[op.k] = maybe.Nothing[[]byte]()
			continue
		}

		ts.pendingChangedKeys[op.k] = maybe.Some(op.pastV)
	}
	ts.ops = ts.ops[:restorePoint]
}

// OpIndex returns the number of operations done on ts.
func (ts *TStateView) OpIndex() int {
	return len(ts.ops)
}

// GetValue returns the value associated with [key], or
// [database.ErrNotFound] if it does not exist.
func (ts *TStateView) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	v, _, exists, err := ts.getValue(ctx, string(key))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

// getValue returns the value of [key], whether it was changed in this block
// (view or [TState]) and whether it exists.
func (ts *TStateView) getValue(ctx context.Context, key string) ([]byte, bool, bool, error) {
	if v, ok := ts.pendingChangedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false, nil
		}
		return v.Value(), true, true, nil
	}
	if v, changed, exists := ts.ts.getChangedValue(ctx, key); changed {
		return v, true, exists, nil
	}
	v, err := ts.im.GetValue(ctx, []byte(key))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, false, nil
	}
	if err != nil {
		return nil, false, false, err
	}
	return v, false, true, nil
}

// Insert sets or updates [key] to [value].
//
// Any bytes passed into [Insert] will be consumed by [TState] and should
// not be modified/referenced after this call.
func (ts *TStateView) Insert(ctx context.Context, key []byte, value []byte) error {
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	ts.pendingChangedKeys[k] = maybe.Some(value)
	ts.ops = append(ts.ops, &op{
		k: k,

		pastExists:  exists,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

// Remove deletes [key]. Removing a key that does not exist is a no-op.
func (ts *TStateView) Remove(ctx context.Context, key []byte) error {
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	ts.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	ts.ops = append(ts.ops, &op{
		k: k,

		pastExists:  true,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

func (ts *TStateView) PendingChanges() int {
	return len(ts.pendingChangedKeys)
}

// Commit moves every pending change of the view into [TState].
func (ts *TStateView) Commit() {
	ts.ts.l.Lock()
	defer ts.ts.l.Unlock()

	for k, v := range ts.pendingChangedKeys {
		ts.ts.changedKeys[k] = v
	}
	ts.ts.ops += len(ts.ops)
}
