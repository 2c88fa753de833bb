// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
)

// Note: Registry will error during initialization if a duplicate ID is assigned. We explicitly assign IDs to avoid accidental remapping.
const (
	// Auth TypeIDs
	ED25519ID uint8 = 0

	ED25519Key = "ed25519"
)

// Engines returns the batch verifiers for every registered auth type.
func Engines() map[uint8]chain.AuthEngine {
	return map[uint8]chain.AuthEngine{
		ED25519ID: &ED25519AuthEngine{},
	}
}

// Register adds every auth type to [parser].
func Register(parser *codec.TypeParser[chain.Auth]) error {
	return parser.Register(&ED25519{}, UnmarshalED25519)
}
