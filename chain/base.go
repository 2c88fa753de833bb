// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
)

const BaseSize = consts.Int64Len + consts.IDLen + consts.Uint64Len

type Base struct {
	// Timestamp is the expiry of the transaction (inclusive). Once this time passes and the
	// transaction is not included in a block, it is safe to regenerate it.
	Timestamp int64 `json:"timestamp"`

	// ChainID protects against replay attacks on different VM instances.
	ChainID ids.ID `json:"chainId"`

	// Nonce lets an account submit otherwise identical transactions with the
	// same expiry.
	Nonce uint64 `json:"nonce"`
}

func (b *Base) Execute(r Rules, timestamp int64) error {
	switch {
	case b.Timestamp%consts.MillisecondsPerSecond != 0:
		return fmt.Errorf("%w: timestamp=%d", ErrMisalignedTime, b.Timestamp)
	case b.Timestamp < timestamp: // tx: 100 block: 110
		return ErrTimestampTooLate
	case b.Timestamp > timestamp+r.GetValidityWindow(): // tx: 100 block 10
		return ErrTimestampTooEarly
	case b.ChainID != r.GetChainID():
		return ErrInvalidChainID
	default:
		return nil
	}
}

func (*Base) Size() int {
	return BaseSize
}

func (b *Base) Marshal(p *codec.Packer) {
	p.PackInt64(b.Timestamp)
	p.PackID(b.ChainID)
	p.PackUint64(b.Nonce)
}

func UnmarshalBase(p *codec.Packer) (*Base, error) {
	var base Base
	base.Timestamp = p.UnpackInt64(true)
	if base.Timestamp%consts.MillisecondsPerSecond != 0 {
		return nil, fmt.Errorf("%w: timestamp=%d", ErrMisalignedTime, base.Timestamp)
	}
	p.UnpackID(true, &base.ChainID)
	base.Nonce = p.UnpackUint64(false)
	return &base, p.Err()
}
