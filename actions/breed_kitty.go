// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/genome"
	"github.com/ava-labs/kittyvm/random"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"
)

var _ chain.Action = (*BreedKitty)(nil)

// BreedKitty combines two existing kitties into a new one owned by the
// actor. The parents do not need to belong to the actor and no deposit is
// taken.
type BreedKitty struct {
	Parent1 uint32 `json:"parent1"`
	Parent2 uint32 `json:"parent2"`
}

func (*BreedKitty) GetTypeID() uint8 {
	return BreedKittyID
}

func (b *BreedKitty) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	env chain.Env,
	actor codec.Address,
) (chain.Output, error) {
	if b.Parent1 == b.Parent2 {
		return nil, ErrOutputSameParentIndex
	}
	dna1, err := storage.MustGetKitty(ctx, mu, b.Parent1)
	if err != nil {
		return nil, err
	}
	dna2, err := storage.MustGetKitty(ctx, mu, b.Parent2)
	if err != nil {
		return nil, err
	}

	selector := genome.DNA(random.Derive(actor, env.Entropy, env.Index))
	index, err := storage.CreateKitty(ctx, mu, actor, genome.Breed(dna1, dna2, selector))
	if err != nil {
		return nil, err
	}
	return &KittyCreated{Owner: actor, KittyIndex: index}, nil
}

func (*BreedKitty) Size() int {
	return consts.Uint32Len * 2
}

func (b *BreedKitty) Marshal(p *codec.Packer) {
	p.PackUint32(b.Parent1)
	p.PackUint32(b.Parent2)
}

func UnmarshalBreedKitty(p *codec.Packer) (chain.Action, error) {
	var breed BreedKitty
	breed.Parent1 = p.UnpackUint32(false)
	breed.Parent2 = p.UnpackUint32(false)
	return &breed, p.Err()
}
