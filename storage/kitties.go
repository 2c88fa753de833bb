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
	"github.com/ava-labs/kittyvm/genome"
	"github.com/ava-labs/kittyvm/state"
)

// FirstKittyIndex is the index handed out while the count is unset.
const FirstKittyIndex uint32 = 1

// GetKittiesCount returns the next index to allocate. The bool is false
// while no kitty has ever been created.
func GetKittiesCount(ctx context.Context, im state.Immutable) (uint32, bool, error) {
	v, err := im.GetValue(ctx, CountKey())
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(v) != consts.Uint32Len {
		return 0, false, fmt.Errorf("%w: kitties count has %d bytes", ErrCorruptValue, len(v))
	}
	return binary.BigEndian.Uint32(v), true, nil
}

// NextKittyIndex returns the index [AllocateKittyIndex] would hand out
// without allocating it.
func NextKittyIndex(ctx context.Context, im state.Immutable) (uint32, error) {
	count, ok, err := GetKittiesCount(ctx, im)
	if err != nil {
		return 0, err
	}
	if !ok {
		return FirstKittyIndex, nil
	}
	if count == consts.MaxUint32 {
		return 0, ErrKittiesCountOverflow
	}
	return count, nil
}

// AllocateKittyIndex returns the next free index and advances the count. On
// overflow nothing is written.
func AllocateKittyIndex(ctx context.Context, mu state.Mutable) (uint32, error) {
	index, err := NextKittyIndex(ctx, mu)
	if err != nil {
		return 0, err
	}
	return index, SetKittiesCount(ctx, mu, index+1)
}

// SetKittiesCount overwrites the count. Outside of allocation it is only
// used to seed state in tests and genesis.
func SetKittiesCount(ctx context.Context, mu state.Mutable, count uint32) error {
	return mu.Insert(ctx, CountKey(), binary.BigEndian.AppendUint32(nil, count))
}

func GetKitty(ctx context.Context, im state.Immutable, index uint32) (genome.DNA, bool, error) {
	v, err := im.GetValue(ctx, KittyKey(index))
	if errors.Is(err, database.ErrNotFound) {
		return genome.Empty, false, nil
	}
	if err != nil {
		return genome.Empty, false, err
	}
	if len(v) != genome.DNALen {
		return genome.Empty, false, fmt.Errorf("%w: kitty %d has %d bytes", ErrCorruptValue, index, len(v))
	}
	return genome.DNA(v), true, nil
}

// MustGetKitty is [GetKitty] for callers that require the kitty to exist.
func MustGetKitty(ctx context.Context, im state.Immutable, index uint32) (genome.DNA, error) {
	dna, ok, err := GetKitty(ctx, im, index)
	if err != nil {
		return genome.Empty, err
	}
	if !ok {
		return genome.Empty, fmt.Errorf("%w: %d", ErrInvalidKittyIndex, index)
	}
	return dna, nil
}

// CreateKitty allocates an index for [dna] and records [owner] as its owner.
// This is the only way kitties come into existence.
func CreateKitty(ctx context.Context, mu state.Mutable, owner codec.Address, dna genome.DNA) (uint32, error) {
	index, err := AllocateKittyIndex(ctx, mu)
	if err != nil {
		return 0, err
	}
	if err := mu.Insert(ctx, KittyKey(index), dna[:]); err != nil {
		return 0, err
	}
	if err := SetOwner(ctx, mu, index, owner); err != nil {
		return 0, err
	}
	return index, nil
}
