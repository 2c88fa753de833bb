// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
)

var (
	_ chain.Output = (*KittyCreated)(nil)
	_ chain.Output = (*KittyTransferred)(nil)
	_ chain.Output = (*KittyBought)(nil)
	_ chain.Output = (*KittySold)(nil)
)

// KittyCreated is emitted by both creation and breeding.
type KittyCreated struct {
	Owner      codec.Address `json:"owner"`
	KittyIndex uint32        `json:"kittyIndex"`
}

func (*KittyCreated) GetTypeID() uint8 { return KittyCreatedID }

func (*KittyCreated) Size() int { return codec.AddressLen + consts.Uint32Len }

func (o *KittyCreated) Marshal(p *codec.Packer) {
	p.PackAddress(o.Owner)
	p.PackUint32(o.KittyIndex)
}

func UnmarshalKittyCreated(p *codec.Packer) (chain.Output, error) {
	var o KittyCreated
	p.UnpackAddress(&o.Owner)
	o.KittyIndex = p.UnpackUint32(false)
	return &o, p.Err()
}

type KittyTransferred struct {
	From       codec.Address `json:"from"`
	To         codec.Address `json:"to"`
	KittyIndex uint32        `json:"kittyIndex"`
}

func (*KittyTransferred) GetTypeID() uint8 { return KittyTransferredID }

func (*KittyTransferred) Size() int { return codec.AddressLen*2 + consts.Uint32Len }

func (o *KittyTransferred) Marshal(p *codec.Packer) {
	p.PackAddress(o.From)
	p.PackAddress(o.To)
	p.PackUint32(o.KittyIndex)
}

func UnmarshalKittyTransferred(p *codec.Packer) (chain.Output, error) {
	var o KittyTransferred
	p.UnpackAddress(&o.From)
	p.UnpackAddress(&o.To)
	o.KittyIndex = p.UnpackUint32(false)
	return &o, p.Err()
}

// trade is the body shared by [KittyBought] and [KittySold].
type trade struct {
	Seller     codec.Address `json:"seller"`
	Buyer      codec.Address `json:"buyer"`
	Price      uint64        `json:"price"`
	KittyIndex uint32        `json:"kittyIndex"`
}

func (*trade) Size() int { return codec.AddressLen*2 + consts.Uint64Len + consts.Uint32Len }

func (t *trade) Marshal(p *codec.Packer) {
	p.PackAddress(t.Seller)
	p.PackAddress(t.Buyer)
	p.PackUint64(t.Price)
	p.PackUint32(t.KittyIndex)
}

func (t *trade) unmarshal(p *codec.Packer) {
	p.UnpackAddress(&t.Seller)
	p.UnpackAddress(&t.Buyer)
	t.Price = p.UnpackUint64(false)
	t.KittyIndex = p.UnpackUint32(false)
}

// KittyBought is emitted when a buyer purchases a kitty from its owner.
type KittyBought struct {
	trade
}

func (*KittyBought) GetTypeID() uint8 { return KittyBoughtID }

func UnmarshalKittyBought(p *codec.Packer) (chain.Output, error) {
	var o KittyBought
	o.unmarshal(p)
	return &o, p.Err()
}

// KittySold is emitted when an owner sells a kitty to a named buyer.
type KittySold struct {
	trade
}

func (*KittySold) GetTypeID() uint8 { return KittySoldID }

func UnmarshalKittySold(p *codec.Packer) (chain.Output, error) {
	var o KittySold
	o.unmarshal(p)
	return &o, p.Err()
}
