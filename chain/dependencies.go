// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/ledger"
	"github.com/ava-labs/kittyvm/state"
)

type Rules interface {
	GetChainID() ids.ID

	// GetValidityWindow bounds how far ahead of the block a transaction's
	// expiry may be, in milliseconds.
	GetValidityWindow() int64
	GetMaxBlockTxs() int

	// GetKittyDeposit is the amount reserved from the creator of a kitty.
	GetKittyDeposit() uint64
}

// Env carries the block-level inputs an [Action] may consume.
type Env struct {
	Height    uint64
	Timestamp int64

	// Entropy is shared by every transaction in the block.
	Entropy ids.ID
	// Index is the position of the transaction in its block. Together with
	// [Entropy] it makes randomness inputs unique per call.
	Index uint32

	Currency ledger.Currency
}

type Marshaler interface {
	// Size is the number of bytes [Marshal] writes.
	Size() int
	Marshal(p *codec.Packer)
}

// Output is the notification an [Action] emits on success.
type Output interface {
	codec.Typed
	Marshaler
}

type Action interface {
	codec.Typed
	Marshaler

	// Execute applies the action to [mu] on behalf of [actor]. If it returns
	// an error the caller discards every write made to [mu].
	Execute(
		ctx context.Context,
		r Rules,
		mu state.Mutable,
		env Env,
		actor codec.Address,
	) (Output, error)
}

type Auth interface {
	codec.Typed
	Marshaler

	// Verify checks [msg] was authorized by [Actor].
	Verify(ctx context.Context, msg []byte) error

	// Actor is the account the transaction executes on behalf of.
	Actor() codec.Address
}

type AuthFactory interface {
	Sign(msg []byte) (Auth, error)
	Address() codec.Address
}

// AuthBatchVerifier verifies many signatures of one auth type at once.
type AuthBatchVerifier interface {
	Add(msg []byte, auth Auth)
	// Verify returns a non-nil error if any added signature is invalid.
	Verify() error
}

// AuthEngine provides batch verification for one auth type.
type AuthEngine interface {
	// GetBatchVerifier returns false when [count] is too small to batch.
	GetBatchVerifier(count int) (AuthBatchVerifier, bool)
}
