// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ed25519

import (
	"crypto/ed25519"
	"os"

	"github.com/hdevalence/ed25519consensus"

	"github.com/ava-labs/kittyvm/codec"
)

type (
	PublicKey  [ed25519.PublicKeySize]byte
	PrivateKey [ed25519.PrivateKeySize]byte
	Signature  [ed25519.SignatureSize]byte
)

// We use the ZIP-215 specification for ed25519 signature
// verification (https://zips.z.cash/zip-0215) because it provides
// an explicit validity criteria for signatures and supports batch
// verification.
const (
	PublicKeyLen  = ed25519.PublicKeySize
	PrivateKeyLen = ed25519.PrivateKeySize
	// PrivateKeySeedLen is defined because ed25519.PrivateKey
	// is formatted as privateKey = seed|publicKey. We use this const
	// to extract the publicKey below.
	PrivateKeySeedLen = ed25519.SeedSize
	SignatureLen      = ed25519.SignatureSize

	// MinBatchSize is the smallest number of signatures worth batching.
	MinBatchSize = 4
)

var (
	EmptyPublicKey  = [ed25519.PublicKeySize]byte{}
	EmptyPrivateKey = [ed25519.PrivateKeySize]byte{}
	EmptySignature  = [ed25519.SignatureSize]byte{}
)

// GeneratePrivateKey returns a Ed25519 PrivateKey.
func GeneratePrivateKey() (PrivateKey, error) {
	_, k, err := ed25519.GenerateKey(nil)
	if err != nil {
		return EmptyPrivateKey, err
	}
	return PrivateKey(k), nil
}

// PublicKey returns a PublicKey associated with the Ed25519 PrivateKey p.
// The PublicKey is the last 32 bytes of p.
func (p PrivateKey) PublicKey() PublicKey {
	return PublicKey(p[PrivateKeySeedLen:])
}

// Sign returns a valid signature for msg using pk.
func Sign(msg []byte, pk PrivateKey) Signature {
	return Signature(ed25519.Sign(pk[:], msg))
}

// Verify returns whether s is a valid signature of msg by p.
func Verify(msg []byte, p PublicKey, s Signature) bool {
	return ed25519consensus.Verify(p[:], msg, s[:])
}

// LoadKey reads a hex-encoded private key from [filename].
func LoadKey(filename string) (PrivateKey, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return EmptyPrivateKey, err
	}
	b, err := codec.LoadHex(string(raw), PrivateKeyLen)
	if err != nil {
		return EmptyPrivateKey, ErrInvalidPrivateKey
	}
	return PrivateKey(b), nil
}

// Save writes the hex encoding of p to [filename].
func (p PrivateKey) Save(filename string) error {
	return os.WriteFile(filename, []byte(codec.ToHex(p[:])), 0o600)
}

type Batch struct {
	bv ed25519consensus.BatchVerifier
}

func NewBatch(size int) *Batch {
	return &Batch{bv: ed25519consensus.NewPreallocatedBatchVerifier(size)}
}

func (b *Batch) Add(msg []byte, p PublicKey, s Signature) {
	b.bv.Add(p[:], msg, s[:])
}

func (b *Batch) Verify() bool {
	return b.bv.Verify()
}

func (b *Batch) VerifyAsync() func() error {
	return func() error {
		if !b.Verify() {
			return ErrInvalidSignature
		}
		return nil
	}
}
