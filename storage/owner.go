// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/state"
)

func GetOwner(ctx context.Context, im state.Immutable, index uint32) (codec.Address, bool, error) {
	v, err := im.GetValue(ctx, OwnerKey(index))
	if errors.Is(err, database.ErrNotFound) {
		return codec.EmptyAddress, false, nil
	}
	if err != nil {
		return codec.EmptyAddress, false, err
	}
	if len(v) != codec.AddressLen {
		return codec.EmptyAddress, false, fmt.Errorf("%w: owner of %d has %d bytes", ErrCorruptValue, index, len(v))
	}
	return codec.Address(v), true, nil
}

// SetOwner overwrites the owner of [index]. Callers check authorization.
func SetOwner(ctx context.Context, mu state.Mutable, index uint32, owner codec.Address) error {
	return mu.Insert(ctx, OwnerKey(index), owner[:])
}

// TransferKitty moves [index] from [caller] to [to]. It fails with
// [ErrNotOwner] unless [caller] is the recorded owner, which includes the
// case where [index] has no owner at all.
func TransferKitty(ctx context.Context, mu state.Mutable, caller codec.Address, index uint32, to codec.Address) error {
	owner, ok, err := GetOwner(ctx, mu, index)
	if err != nil {
		return err
	}
	if !ok || owner != caller {
		return fmt.Errorf("%w: kitty %d", ErrNotOwner, index)
	}
	return SetOwner(ctx, mu, index, to)
}
