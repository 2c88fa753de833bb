// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/crypto/ed25519"
)

var _ chain.Auth = (*ED25519)(nil)

const ED25519Size = ed25519.PublicKeyLen + ed25519.SignatureLen

type ED25519 struct {
	Signer    ed25519.PublicKey `json:"signer"`
	Signature ed25519.Signature `json:"signature"`

	addr codec.Address
}

func (d *ED25519) address() codec.Address {
	if d.addr == codec.EmptyAddress {
		d.addr = NewED25519Address(d.Signer)
	}
	return d.addr
}

func (*ED25519) GetTypeID() uint8 {
	return ED25519ID
}

func (d *ED25519) Verify(_ context.Context, msg []byte) error {
	if !ed25519.Verify(msg, d.Signer, d.Signature) {
		return ed25519.ErrInvalidSignature
	}
	return nil
}

func (d *ED25519) Actor() codec.Address {
	return d.address()
}

func (*ED25519) Size() int {
	return ED25519Size
}

func (d *ED25519) Marshal(p *codec.Packer) {
	p.PackFixedBytes(d.Signer[:])
	p.PackFixedBytes(d.Signature[:])
}

func UnmarshalED25519(p *codec.Packer) (chain.Auth, error) {
	var d ED25519
	signer := d.Signer[:] // avoid allocating additional memory
	p.UnpackFixedBytes(ed25519.PublicKeyLen, &signer)
	signature := d.Signature[:] // avoid allocating additional memory
	p.UnpackFixedBytes(ed25519.SignatureLen, &signature)
	return &d, p.Err()
}

var _ chain.AuthFactory = (*ED25519Factory)(nil)

type ED25519Factory struct {
	priv ed25519.PrivateKey
}

func NewED25519Factory(priv ed25519.PrivateKey) *ED25519Factory {
	return &ED25519Factory{priv}
}

func (d *ED25519Factory) Sign(msg []byte) (chain.Auth, error) {
	sig := ed25519.Sign(msg, d.priv)
	return &ED25519{Signer: d.priv.PublicKey(), Signature: sig}, nil
}

func (d *ED25519Factory) Address() codec.Address {
	return NewED25519Address(d.priv.PublicKey())
}

// NewED25519Address is the type ID followed by the hash of [pk].
func NewED25519Address(pk ed25519.PublicKey) codec.Address {
	return codec.CreateAddress(ED25519ID, hashing.ComputeHash256Array(pk[:]))
}

var _ chain.AuthEngine = (*ED25519AuthEngine)(nil)

type ED25519AuthEngine struct{}

func (*ED25519AuthEngine) GetBatchVerifier(count int) (chain.AuthBatchVerifier, bool) {
	if count < ed25519.MinBatchSize {
		return nil, false
	}
	return &ED25519Batch{batch: ed25519.NewBatch(count)}, true
}

var _ chain.AuthBatchVerifier = (*ED25519Batch)(nil)

type ED25519Batch struct {
	batch *ed25519.Batch
}

func (b *ED25519Batch) Add(msg []byte, rauth chain.Auth) {
	auth := rauth.(*ED25519)
	b.batch.Add(msg, auth.Signer, auth.Signature)
}

func (b *ED25519Batch) Verify() error {
	return b.batch.VerifyAsync()()
}
