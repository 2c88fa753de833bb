// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "errors"

var (
	ErrOutputSameParentIndex = errors.New("parents must be different kitties")
	ErrOutputReserveFailed   = errors.New("could not reserve kitty deposit")
	ErrOutputBuyerIsOwner    = errors.New("buyer already owns kitty")
)
