// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/state"
)

var _ chain.Action = (*BuyKitty)(nil)

// BuyKitty pays [Price] to the current owner and takes the kitty.
type BuyKitty struct {
	KittyIndex uint32 `json:"kittyIndex"`
	Price      uint64 `json:"price"`
}

func (*BuyKitty) GetTypeID() uint8 {
	return BuyKittyID
}

func (b *BuyKitty) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	env chain.Env,
	actor codec.Address,
) (chain.Output, error) {
	seller, err := ownerOf(ctx, mu, b.KittyIndex)
	if err != nil {
		return nil, err
	}
	if seller == actor {
		return nil, ErrOutputBuyerIsOwner
	}
	if err := settle(ctx, mu, env.Currency, b.KittyIndex, seller, actor, b.Price); err != nil {
		return nil, err
	}
	return &KittyBought{trade{
		Seller:     seller,
		Buyer:      actor,
		Price:      b.Price,
		KittyIndex: b.KittyIndex,
	}}, nil
}

func (*BuyKitty) Size() int {
	return consts.Uint32Len + consts.Uint64Len
}

func (b *BuyKitty) Marshal(p *codec.Packer) {
	p.PackUint32(b.KittyIndex)
	p.PackUint64(b.Price)
}

func UnmarshalBuyKitty(p *codec.Packer) (chain.Action, error) {
	var buy BuyKitty
	buy.KittyIndex = p.UnpackUint32(false)
	buy.Price = p.UnpackUint64(false)
	return &buy, p.Err()
}
