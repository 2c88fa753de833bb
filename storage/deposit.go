// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/state"
)

const depositLen = codec.AddressLen + consts.Uint64Len

// Deposit is the reservation a kitty holds from its creation until it first
// changes hands through the marketplace.
type Deposit struct {
	Depositor codec.Address `json:"depositor"`
	Amount    uint64        `json:"amount"`
}

func GetDeposit(ctx context.Context, im state.Immutable, index uint32) (Deposit, bool, error) {
	v, err := im.GetValue(ctx, DepositKey(index))
	if errors.Is(err, database.ErrNotFound) {
		return Deposit{}, false, nil
	}
	if err != nil {
		return Deposit{}, false, err
	}
	if len(v) != depositLen {
		return Deposit{}, false, fmt.Errorf("%w: deposit of %d has %d bytes", ErrCorruptValue, index, len(v))
	}
	return Deposit{
		Depositor: codec.Address(v[:codec.AddressLen]),
		Amount:    binary.BigEndian.Uint64(v[codec.AddressLen:]),
	}, true, nil
}

func SetDeposit(ctx context.Context, mu state.Mutable, index uint32, d Deposit) error {
	v := make([]byte, 0, depositLen)
	v = append(v, d.Depositor[:]...)
	v = binary.BigEndian.AppendUint64(v, d.Amount)
	return mu.Insert(ctx, DepositKey(index), v)
}

func RemoveDeposit(ctx context.Context, mu state.Mutable, index uint32) error {
	return mu.Remove(ctx, DepositKey(index))
}
