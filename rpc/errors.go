// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

var (
	ErrClosed          = errors.New("closed")
	ErrExpired         = errors.New("expired")
	ErrTxRejected      = errors.New("tx rejected")
	ErrUnexpectedMode  = errors.New("unexpected message mode")
	errUnknownTxResult = errors.New("unknown tx result")
)
