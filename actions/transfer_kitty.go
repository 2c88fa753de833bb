// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"
)

var _ chain.Action = (*TransferKitty)(nil)

type TransferKitty struct {
	// To is the recipient of the kitty.
	To codec.Address `json:"to"`

	KittyIndex uint32 `json:"kittyIndex"`
}

func (*TransferKitty) GetTypeID() uint8 {
	return TransferKittyID
}

func (t *TransferKitty) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ chain.Env,
	actor codec.Address,
) (chain.Output, error) {
	if err := storage.TransferKitty(ctx, mu, actor, t.KittyIndex, t.To); err != nil {
		return nil, err
	}
	return &KittyTransferred{From: actor, To: t.To, KittyIndex: t.KittyIndex}, nil
}

func (*TransferKitty) Size() int {
	return codec.AddressLen + consts.Uint32Len
}

func (t *TransferKitty) Marshal(p *codec.Packer) {
	p.PackAddress(t.To)
	p.PackUint32(t.KittyIndex)
}

func UnmarshalTransferKitty(p *codec.Packer) (chain.Action, error) {
	var transfer TransferKitty
	p.UnpackAddress(&transfer.To)
	transfer.KittyIndex = p.UnpackUint32(false)
	return &transfer, p.Err()
}
