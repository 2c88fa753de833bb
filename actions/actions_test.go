// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/genome"
	"github.com/ava-labs/kittyvm/ledger"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"
)

const (
	testDeposit = 1_000
	testFunds   = 10_000
)

var (
	alice = codec.CreateAddress(0, ids.ID{1})
	bob   = codec.CreateAddress(0, ids.ID{2})
	carol = codec.CreateAddress(0, ids.ID{3})

	testEntropy = ids.ID{0xca, 0xfe}
)

func newTestEnv(index uint32) chain.Env {
	return chain.Env{
		Height:    1,
		Timestamp: 1_000,
		Entropy:   testEntropy,
		Index:     index,
		Currency:  ledger.NewBalances(0),
	}
}

func newTestState(t *testing.T, allocs map[codec.Address]uint64) state.MutableStorage {
	mu := state.MutableStorage{}
	b := ledger.NewBalances(0)
	for addr, amount := range allocs {
		require.NoError(t, b.Mint(context.Background(), mu, addr, amount))
	}
	return mu
}

// withKitty stores a kitty as if [owner] created it, reserving the deposit
// when [deposit] is set.
func withKitty(t *testing.T, mu state.MutableStorage, owner codec.Address, dna genome.DNA, deposit bool) uint32 {
	ctx := context.Background()
	index, err := storage.CreateKitty(ctx, mu, owner, dna)
	require.NoError(t, err)
	if deposit {
		require.NoError(t, ledger.NewBalances(0).Reserve(ctx, mu, owner, testDeposit))
		require.NoError(t, storage.SetDeposit(ctx, mu, index, storage.Deposit{
			Depositor: owner,
			Amount:    testDeposit,
		}))
	}
	return index
}

func requireBalances(t *testing.T, im state.Immutable, who codec.Address, free, reserved uint64) {
	t.Helper()
	ctx := context.Background()
	b := ledger.NewBalances(0)
	f, err := b.FreeBalance(ctx, im, who)
	require.NoError(t, err)
	r, err := b.ReservedBalance(ctx, im, who)
	require.NoError(t, err)
	require.Equal(t, free, f, "free balance")
	require.Equal(t, reserved, r, "reserved balance")
}

func requireOwner(t *testing.T, im state.Immutable, index uint32, expected codec.Address) {
	t.Helper()
	owner, ok, err := storage.GetOwner(context.Background(), im, index)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, expected, owner)
}

func requireCount(t *testing.T, im state.Immutable, expected uint32) {
	t.Helper()
	count, ok, err := storage.GetKittiesCount(context.Background(), im)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, expected, count)
}

func requireUnchanged(before state.MutableStorage) func(context.Context, *testing.T, state.Mutable) {
	return func(_ context.Context, t *testing.T, m state.Mutable) {
		require.Equal(t, before, m)
	}
}
