// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package random

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/state"
)

var (
	_ Oracle = (*BlockOracle)(nil)
	_ Oracle = StaticOracle{}
)

// BlockOracle chains entropy from block to block: the seed for [height] is
// the hash of the previous block's entropy and [height].
type BlockOracle struct {
	im  state.Immutable
	key []byte
}

// NewBlockOracle reads the previous entropy from [key] in [im].
func NewBlockOracle(im state.Immutable, key []byte) *BlockOracle {
	return &BlockOracle{im: im, key: key}
}

func (o *BlockOracle) Seed(ctx context.Context, height uint64) (ids.ID, error) {
	prev, err := o.im.GetValue(ctx, o.key)
	switch {
	case errors.Is(err, database.ErrNotFound):
		prev = ids.Empty[:]
	case err != nil:
		return ids.Empty, err
	case len(prev) != consts.IDLen:
		return ids.Empty, ErrInvalidEntropy
	}
	msg := make([]byte, 0, consts.IDLen+consts.Uint64Len)
	msg = append(msg, prev...)
	msg = append(msg, database.PackUInt64(height)...)
	return ids.ID(hashing.ComputeHash256Array(msg)), nil
}

// StaticOracle returns the same seed at every height.
type StaticOracle struct {
	Entropy ids.ID
}

func (s StaticOracle) Seed(context.Context, uint64) (ids.ID, error) {
	return s.Entropy, nil
}
