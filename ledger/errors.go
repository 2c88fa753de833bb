// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "errors"

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidBalance      = errors.New("invalid balance")
	ErrKeepAlive           = errors.New("transfer would kill account")
	ErrExistentialDeposit  = errors.New("value too low to create account")
)
