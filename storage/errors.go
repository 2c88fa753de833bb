// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrKittiesCountOverflow = errors.New("kitties count overflow")
	ErrNotOwner             = errors.New("not owner")
	ErrInvalidKittyIndex    = errors.New("invalid kitty index")
	ErrCorruptValue         = errors.New("corrupt value")
)
