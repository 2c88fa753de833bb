// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	// Parsing
	ErrMisalignedTime = errors.New("misaligned time")
	ErrExtraBytes     = errors.New("extra bytes in block")

	// Transaction validity
	ErrTimestampTooLate  = errors.New("timestamp too late")
	ErrTimestampTooEarly = errors.New("timestamp too early")
	ErrInvalidChainID    = errors.New("invalid chain id")
	ErrDuplicateTx       = errors.New("duplicate transaction")
	ErrAuthFailed        = errors.New("auth failed")

	// Block validity
	ErrTooManyTxs         = errors.New("too many transactions")
	ErrInvalidParent      = errors.New("invalid parent")
	ErrInvalidHeight      = errors.New("invalid height")
	ErrTimestampRegressed = errors.New("timestamp regressed")
)
