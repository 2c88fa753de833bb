// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package random turns block entropy into per-call randomness.
package random

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"golang.org/x/crypto/blake2b"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/genome"
)

const derivedLen = genome.DNALen

// Oracle supplies the entropy shared by every call in a block. Two calls in
// the same block are told apart by their nonce.
type Oracle interface {
	Seed(ctx context.Context, height uint64) (ids.ID, error)
}

// Derive mixes [entropy], [caller] and [nonce] into a 16 byte value. It is a
// pure function of its inputs.
func Derive(caller codec.Address, entropy ids.ID, nonce uint32) [derivedLen]byte {
	p := codec.NewWriter(consts.IDLen+codec.AddressLen+consts.Uint32Len, consts.NetworkSizeLimit)
	p.PackID(entropy)
	p.PackAddress(caller)
	p.PackUint32(nonce)

	// [derivedLen] is a valid blake2b size, so New only fails on a bad key.
	h, err := blake2b.New(derivedLen, nil)
	if err != nil {
		panic(err)
	}
	_, _ = h.Write(p.Bytes())

	var out [derivedLen]byte
	copy(out[:], h.Sum(nil))
	return out
}
