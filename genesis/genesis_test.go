// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/ledger"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/trace"
)

func TestLoadDefaults(t *testing.T) {
	require := require.New(t)

	g, err := Load([]byte(`{"kittyDeposit": 42}`))
	require.NoError(err)
	require.Equal(uint64(42), g.KittyDeposit)
	require.Equal(consts.HRP, g.HRP)
	require.Equal(Default().ValidityWindow, g.ValidityWindow)

	rules := NewRules(g)
	require.Equal(uint64(42), rules.GetKittyDeposit())
	require.Equal(g.MaxBlockTxs, rules.GetMaxBlockTxs())
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name        string
		genesis     string
		expectedErr error
	}{
		{
			name:        "empty hrp",
			genesis:     `{"hrp": ""}`,
			expectedErr: ErrMissingHRP,
		},
		{
			name:        "zero validity window",
			genesis:     `{"validityWindow": 0}`,
			expectedErr: ErrInvalidValidityWindow,
		},
		{
			name:        "negative max block txs",
			genesis:     `{"maxBlockTxs": -1}`,
			expectedErr: ErrInvalidMaxBlockTxs,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.genesis))
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestInitializeState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := codec.CreateAddress(0, ids.GenerateTestID())
	bob := codec.CreateAddress(0, ids.GenerateTestID())

	g := Default()
	g.CustomAllocation = []*CustomAllocation{
		{Address: codec.MustAddressBech32(g.HRP, alice), Balance: 10_000},
		{Address: codec.MustAddressBech32(g.HRP, bob), Balance: 5},
	}
	raw, err := json.Marshal(g)
	require.NoError(err)
	loaded, err := Load(raw)
	require.NoError(err)

	mu := state.MutableStorage{}
	balances := ledger.NewBalances(loaded.ExistentialDeposit)
	supply, err := loaded.InitializeState(ctx, trace.Noop("test"), mu, balances)
	require.NoError(err)
	require.Equal(uint64(10_005), supply)

	free, err := balances.FreeBalance(ctx, mu, alice)
	require.NoError(err)
	require.Equal(uint64(10_000), free)
	free, err = balances.FreeBalance(ctx, mu, bob)
	require.NoError(err)
	require.Equal(uint64(5), free)
}

func TestInitializeStateRejects(t *testing.T) {
	ctx := context.Background()
	alice := codec.CreateAddress(0, ids.GenerateTestID())

	tests := []struct {
		name        string
		alloc       *CustomAllocation
		expectedErr error
	}{
		{
			name:        "wrong hrp",
			alloc:       &CustomAllocation{Address: codec.MustAddressBech32("other", alice), Balance: 10},
			expectedErr: codec.ErrIncorrectHRP,
		},
		{
			name:        "below existential deposit",
			alloc:       &CustomAllocation{Address: codec.MustAddressBech32(consts.HRP, alice), Balance: 1},
			expectedErr: ledger.ErrExistentialDeposit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Default()
			g.ExistentialDeposit = 2
			g.CustomAllocation = []*CustomAllocation{tt.alloc}
			_, err := g.InitializeState(ctx, trace.Noop("test"), state.MutableStorage{}, ledger.NewBalances(g.ExistentialDeposit))
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}
