// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
)

type Transaction struct {
	Base *Base `json:"base"`

	Action Action `json:"action"`
	Auth   Auth   `json:"auth"`

	digest []byte
	bytes  []byte
	size   int
	id     ids.ID
}

func NewTx(base *Base, action Action) *Transaction {
	return &Transaction{
		Base:   base,
		Action: action,
	}
}

// Digest is the message signed by [Auth]: the base followed by the
// type-prefixed action.
func (t *Transaction) Digest() ([]byte, error) {
	if len(t.digest) > 0 {
		return t.digest, nil
	}
	size := t.Base.Size() + consts.ByteLen + t.Action.Size()
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	t.Base.Marshal(p)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
	return p.Bytes(), p.Err()
}

func (t *Transaction) Sign(factory AuthFactory, registry Registry) (*Transaction, error) {
	msg, err := t.Digest()
	if err != nil {
		return nil, err
	}
	auth, err := factory.Sign(msg)
	if err != nil {
		return nil, err
	}
	t.Auth = auth

	// Ensure transaction is fully initialized and correct by reloading it from
	// bytes
	size := len(msg) + consts.ByteLen + t.Auth.Size()
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	if err := t.Marshal(p); err != nil {
		return nil, err
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	p = codec.NewReader(p.Bytes(), consts.NetworkSizeLimit)
	return UnmarshalTx(p, registry)
}

func (t *Transaction) Bytes() []byte { return t.bytes }

func (t *Transaction) Size() int { return t.size }

func (t *Transaction) ID() ids.ID { return t.id }

func (t *Transaction) Expiry() int64 { return t.Base.Timestamp }

// Actor is the account the action executes on behalf of.
func (t *Transaction) Actor() codec.Address { return t.Auth.Actor() }

// Verify checks the signature over [Digest].
func (t *Transaction) Verify(ctx context.Context) error {
	msg, err := t.Digest()
	if err != nil {
		return err
	}
	if err := t.Auth.Verify(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	return nil
}

func (t *Transaction) Marshal(p *codec.Packer) error {
	if len(t.bytes) > 0 {
		p.PackFixedBytes(t.bytes)
		return p.Err()
	}
	t.Base.Marshal(p)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
	p.PackByte(t.Auth.GetTypeID())
	t.Auth.Marshal(p)
	return p.Err()
}

func UnmarshalTx(p *codec.Packer, registry Registry) (*Transaction, error) {
	start := p.Offset()
	base, err := UnmarshalBase(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal base", err)
	}
	action, err := registry.ActionRegistry().Unmarshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal action", err)
	}
	digest := p.Offset()
	auth, err := registry.AuthRegistry().Unmarshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal auth", err)
	}
	if err := p.Err(); err != nil {
		return nil, err
	}

	tx := NewTx(base, action)
	tx.Auth = auth
	codecBytes := p.Bytes()
	tx.digest = codecBytes[start:digest]
	tx.bytes = codecBytes[start:p.Offset()] // ensure errors handled before grabbing memory
	tx.size = len(tx.bytes)
	tx.id = hashing.ComputeHash256Array(tx.bytes)
	return tx, nil
}

// ParseTx decodes a single transaction and rejects trailing bytes.
func ParseTx(b []byte, registry Registry) (*Transaction, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	tx, err := UnmarshalTx(p, registry)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	return tx, nil
}
