// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/ledger"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"
)

// settle moves [price] from [buyer] to [seller], hands the kitty to [buyer]
// and releases the creation deposit held against it.
//
// The deposit is unreserved from the depositor recorded at creation, not
// from [seller]; the two differ once the kitty was transferred before its
// first sale.
func settle(
	ctx context.Context,
	mu state.Mutable,
	currency ledger.Currency,
	index uint32,
	seller codec.Address,
	buyer codec.Address,
	price uint64,
) error {
	if err := currency.Transfer(ctx, mu, buyer, seller, price, ledger.AllowDeath); err != nil {
		return err
	}
	if err := storage.SetOwner(ctx, mu, index, buyer); err != nil {
		return err
	}
	return releaseDeposit(ctx, mu, currency, index)
}

// releaseDeposit unreserves the deposit recorded for [index], if any. The
// deposit is released once, on the first trade of the kitty.
func releaseDeposit(ctx context.Context, mu state.Mutable, currency ledger.Currency, index uint32) error {
	d, ok, err := storage.GetDeposit(ctx, mu, index)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if _, err := currency.Unreserve(ctx, mu, d.Depositor, d.Amount); err != nil {
		return fmt.Errorf("unable to release deposit of kitty %d: %w", index, err)
	}
	return storage.RemoveDeposit(ctx, mu, index)
}

// ownerOf returns the owner of an existing kitty.
func ownerOf(ctx context.Context, mu state.Mutable, index uint32) (codec.Address, error) {
	if _, err := storage.MustGetKitty(ctx, mu, index); err != nil {
		return codec.EmptyAddress, err
	}
	owner, ok, err := storage.GetOwner(ctx, mu, index)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if !ok {
		return codec.EmptyAddress, fmt.Errorf("%w: kitty %d has no owner", storage.ErrCorruptValue, index)
	}
	return owner, nil
}
