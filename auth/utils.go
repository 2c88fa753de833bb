// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"errors"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/crypto/ed25519"
)

var (
	// ErrInvalidKeyType is returned when an invalid key type is provided
	ErrInvalidKeyType        = errors.New("invalid key type")
	ErrInvalidPrivateKeySize = errors.New("invalid private key size")
)

// PrivateKey is a private key of any supported auth type together with the
// address it controls.
type PrivateKey struct {
	Address codec.Address
	Bytes   []byte
}

func GeneratePrivateKey(keyType string) (*PrivateKey, error) {
	switch keyType {
	case ED25519Key:
		p, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}
		return &PrivateKey{
			Address: NewED25519Address(p.PublicKey()),
			Bytes:   p[:],
		}, nil
	default:
		return nil, ErrInvalidKeyType
	}
}

func LoadPrivateKey(keyType string, p []byte) (*PrivateKey, error) {
	switch keyType {
	case ED25519Key:
		if len(p) != ed25519.PrivateKeyLen {
			return nil, ErrInvalidPrivateKeySize
		}
		pk := ed25519.PrivateKey(p)
		return &PrivateKey{
			Address: NewED25519Address(pk.PublicKey()),
			Bytes:   p,
		}, nil
	default:
		return nil, ErrInvalidKeyType
	}
}

// GetFactory returns the [chain.AuthFactory] for a given private key.
func GetFactory(pk *PrivateKey) (chain.AuthFactory, error) {
	switch pk.Address[0] {
	case ED25519ID:
		if len(pk.Bytes) != ed25519.PrivateKeyLen {
			return nil, ErrInvalidPrivateKeySize
		}
		return NewED25519Factory(ed25519.PrivateKey(pk.Bytes)), nil
	default:
		return nil, ErrInvalidKeyType
	}
}
