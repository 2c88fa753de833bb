// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/genome"
	"github.com/ava-labs/kittyvm/random"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"
)

var _ chain.Action = (*CreateKitty)(nil)

// CreateKitty mints a kitty with random DNA for the actor and reserves the
// creation deposit from the actor's free balance.
type CreateKitty struct{}

func (*CreateKitty) GetTypeID() uint8 {
	return CreateKittyID
}

func (*CreateKitty) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	env chain.Env,
	actor codec.Address,
) (chain.Output, error) {
	dna := genome.DNA(random.Derive(actor, env.Entropy, env.Index))

	// Fail on overflow before touching any balance.
	if _, err := storage.NextKittyIndex(ctx, mu); err != nil {
		return nil, err
	}
	deposit := r.GetKittyDeposit()
	if err := env.Currency.Reserve(ctx, mu, actor, deposit); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutputReserveFailed, err)
	}
	index, err := storage.CreateKitty(ctx, mu, actor, dna)
	if err != nil {
		return nil, err
	}
	if deposit > 0 {
		if err := storage.SetDeposit(ctx, mu, index, storage.Deposit{
			Depositor: actor,
			Amount:    deposit,
		}); err != nil {
			return nil, err
		}
	}
	return &KittyCreated{Owner: actor, KittyIndex: index}, nil
}

func (*CreateKitty) Size() int {
	return 0
}

func (*CreateKitty) Marshal(*codec.Packer) {}

func UnmarshalCreateKitty(p *codec.Packer) (chain.Action, error) {
	return &CreateKitty{}, p.Err()
}
