// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledger defines the currency that kitty deposits and trades settle
// against, and a [Balances] implementation stored alongside kitty state.
package ledger

import (
	"context"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/state"
)

//go:generate go run go.uber.org/mock/mockgen -package=ledgermock -destination=ledgermock/currency.go . Currency

// ExistenceRequirement controls whether a transfer may leave the sender with
// less than the existential deposit.
type ExistenceRequirement uint8

const (
	// KeepAlive rejects transfers that would drop the sender below the
	// existential deposit.
	KeepAlive ExistenceRequirement = iota
	// AllowDeath lets the sender fall below the existential deposit. Any
	// remaining dust is burned when nothing is reserved.
	AllowDeath
)

func (e ExistenceRequirement) String() string {
	switch e {
	case KeepAlive:
		return "keep-alive"
	case AllowDeath:
		return "allow-death"
	default:
		return "unknown"
	}
}

// Currency is the balance ledger kitty actions settle against. Every mutating
// method either applies fully to [mu] or returns an error without writing.
type Currency interface {
	FreeBalance(ctx context.Context, im state.Immutable, who codec.Address) (uint64, error)
	ReservedBalance(ctx context.Context, im state.Immutable, who codec.Address) (uint64, error)

	// Reserve moves [amount] from free to reserved.
	Reserve(ctx context.Context, mu state.Mutable, who codec.Address, amount uint64) error
	// Unreserve moves up to [amount] from reserved to free and returns the
	// part of [amount] that could not be unreserved.
	Unreserve(ctx context.Context, mu state.Mutable, who codec.Address, amount uint64) (uint64, error)
	// Transfer moves [amount] of free balance from [from] to [to].
	Transfer(
		ctx context.Context,
		mu state.Mutable,
		from codec.Address,
		to codec.Address,
		amount uint64,
		req ExistenceRequirement,
	) error
}
