// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/maybe"
)

// Immutable returns [database.ErrNotFound] for keys that do not exist.
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Database is the persisted state a block is executed against.
type Database interface {
	Immutable

	// Commit atomically applies [changes]. A Nothing value deletes the key.
	Commit(ctx context.Context, changes map[string]maybe.Maybe[[]byte]) error
	Close() error
}
