// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/ledger"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"
)

// Host tables live next to the registry tables so a block, its results and
// its state changes are written in one batch.
//
// 0x9/ (blocks)
//   -> [height] => block
// 0xa/ (block heights)
//   -> [blockID] => height
// 0xb/ (results)
//   -> [txID] => result
// 0xc/ (last accepted height)
const (
	blockPrefix byte = storage.MinimumPrefix + iota
	blockIDPrefix
	resultPrefix
	lastAcceptedPrefix
)

func vmPrefixes() [][]byte {
	prefixes := [][]byte{}
	prefixes = append(prefixes, ledger.Prefixes()...)
	prefixes = append(prefixes, storage.Prefixes()...)
	return append(prefixes,
		[]byte{blockPrefix},
		[]byte{blockIDPrefix},
		[]byte{resultPrefix},
		[]byte{lastAcceptedPrefix},
	)
}

func blockKey(height uint64) []byte {
	k := make([]byte, consts.ByteLen+consts.Uint64Len)
	k[0] = blockPrefix
	binary.BigEndian.PutUint64(k[1:], height)
	return k
}

func blockIDKey(id ids.ID) []byte {
	k := make([]byte, consts.ByteLen+consts.IDLen)
	k[0] = blockIDPrefix
	copy(k[1:], id[:])
	return k
}

func resultKey(txID ids.ID) []byte {
	k := make([]byte, consts.ByteLen+consts.IDLen)
	k[0] = resultPrefix
	copy(k[1:], txID[:])
	return k
}

func lastAcceptedKey() []byte {
	return []byte{lastAcceptedPrefix}
}

// putBlock adds [blk], its [results] and the new last accepted height to
// [changes].
func putBlock(changes map[string]maybe.Maybe[[]byte], blk *chain.Block, results []*chain.Result) error {
	height := binary.BigEndian.AppendUint64(nil, blk.Height)
	changes[string(blockKey(blk.Height))] = maybe.Some(blk.Bytes())
	changes[string(blockIDKey(blk.ID()))] = maybe.Some(height)
	changes[string(lastAcceptedKey())] = maybe.Some(height)
	for _, result := range results {
		b, err := result.Bytes()
		if err != nil {
			return fmt.Errorf("%w: unable to marshal result %s", err, result.TxID)
		}
		changes[string(resultKey(result.TxID))] = maybe.Some(b)
	}
	return nil
}

func getLastAcceptedHeight(ctx context.Context, im state.Immutable) (uint64, bool, error) {
	v, err := im.GetValue(ctx, lastAcceptedKey())
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(v) != consts.Uint64Len {
		return 0, false, fmt.Errorf("%w: last accepted has %d bytes", ErrCorruptBlock, len(v))
	}
	return binary.BigEndian.Uint64(v), true, nil
}

func getBlock(ctx context.Context, im state.Immutable, registry chain.Registry, height uint64) (*chain.Block, error) {
	v, err := im.GetValue(ctx, blockKey(height))
	if err != nil {
		return nil, err
	}
	return chain.ParseBlock(v, registry)
}

func getBlockHeight(ctx context.Context, im state.Immutable, id ids.ID) (uint64, error) {
	v, err := im.GetValue(ctx, blockIDKey(id))
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, fmt.Errorf("%w: height of %s has %d bytes", ErrCorruptBlock, id, len(v))
	}
	return binary.BigEndian.Uint64(v), nil
}

func getResult(ctx context.Context, im state.Immutable, txID ids.ID) (*chain.Result, bool, error) {
	v, err := im.GetValue(ctx, resultKey(txID))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	result, err := chain.ParseResult(v)
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}
