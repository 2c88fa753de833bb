// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import "errors"

var (
	ErrNotReady            = errors.New("vm not ready")
	ErrClosed              = errors.New("vm closed")
	ErrEmptyBlock          = errors.New("no transactions to include")
	ErrTxAccepted          = errors.New("transaction already accepted")
	ErrConflictingPrefixes = errors.New("conflicting state prefixes")
	ErrCorruptBlock        = errors.New("corrupt block index")
)
