// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"
)

var _ chain.Action = (*SellKitty)(nil)

// SellKitty is issued by the owner and charges [Price] to [Buyer]. The buyer
// does not co-sign.
type SellKitty struct {
	KittyIndex uint32        `json:"kittyIndex"`
	Buyer      codec.Address `json:"buyer"`
	Price      uint64        `json:"price"`
}

func (*SellKitty) GetTypeID() uint8 {
	return SellKittyID
}

func (s *SellKitty) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	env chain.Env,
	actor codec.Address,
) (chain.Output, error) {
	owner, err := ownerOf(ctx, mu, s.KittyIndex)
	if err != nil {
		return nil, err
	}
	if owner != actor {
		return nil, fmt.Errorf("%w: kitty %d", storage.ErrNotOwner, s.KittyIndex)
	}
	if s.Buyer == actor {
		return nil, ErrOutputBuyerIsOwner
	}
	if err := settle(ctx, mu, env.Currency, s.KittyIndex, actor, s.Buyer, s.Price); err != nil {
		return nil, err
	}
	return &KittySold{trade{
		Seller:     actor,
		Buyer:      s.Buyer,
		Price:      s.Price,
		KittyIndex: s.KittyIndex,
	}}, nil
}

func (*SellKitty) Size() int {
	return consts.Uint32Len + codec.AddressLen + consts.Uint64Len
}

func (s *SellKitty) Marshal(p *codec.Packer) {
	p.PackUint32(s.KittyIndex)
	p.PackAddress(s.Buyer)
	p.PackUint64(s.Price)
}

func UnmarshalSellKitty(p *codec.Packer) (chain.Action, error) {
	var sell SellKitty
	sell.KittyIndex = p.UnpackUint32(false)
	p.UnpackAddress(&sell.Buyer)
	sell.Price = p.UnpackUint64(false)
	return &sell, p.Err()
}
