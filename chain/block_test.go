// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain_test

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/chain/chaintest"
	"github.com/ava-labs/kittyvm/codec"
)

func TestBlockRoundTrip(t *testing.T) {
	require := require.New(t)

	registry, err := chaintest.NewRegistry()
	require.NoError(err)
	rules := chaintest.NewRules()
	factory := &chaintest.TestAuthFactory{ActorAddress: codec.CreateAddress(0, ids.GenerateTestID())}

	genesis, err := chain.NewGenesisBlock(0)
	require.NoError(err)

	txs := []*chain.Transaction{
		newSignedTx(t, registry, rules, &chaintest.TestAction{Key: testKey, Value: []byte{1}}, factory, 1_000),
		newSignedTx(t, registry, rules, &chaintest.TestAction{Key: testKey, Value: []byte{2}}, factory, 1_000),
	}
	blk, err := chain.NewBlock(genesis.ID(), 1, 1_000, txs)
	require.NoError(err)
	require.NoError(blk.Child(genesis, rules))

	parsed, err := chain.ParseBlock(blk.Bytes(), registry)
	require.NoError(err)
	require.Equal(blk.ID(), parsed.ID())
	require.Equal(blk.Height, parsed.Height)
	require.Equal(blk.Timestamp, parsed.Timestamp)
	require.Len(parsed.Txs, 2)
	for i, tx := range parsed.Txs {
		require.Equal(txs[i].ID(), tx.ID())
	}

	_, err = chain.ParseBlock(append(blk.Bytes(), 0), registry)
	require.ErrorIs(err, chain.ErrExtraBytes)
}

func TestBlockChild(t *testing.T) {
	registry, err := chaintest.NewRegistry()
	require.NoError(t, err)
	rules := chaintest.NewRules()
	factory := &chaintest.TestAuthFactory{ActorAddress: codec.CreateAddress(0, ids.GenerateTestID())}
	tx := newSignedTx(t, registry, rules, &chaintest.TestAction{Key: testKey}, factory, 1_000)

	parent, err := chain.NewBlock(ids.GenerateTestID(), 5, 1_000, nil)
	require.NoError(t, err)

	tests := []struct {
		name        string
		parentID    ids.ID
		height      uint64
		timestamp   int64
		txs         []*chain.Transaction
		expectedErr error
	}{
		{
			name:      "valid",
			parentID:  parent.ID(),
			height:    6,
			timestamp: 1_000,
			txs:       []*chain.Transaction{tx},
		},
		{
			name:        "wrong parent",
			parentID:    ids.GenerateTestID(),
			height:      6,
			timestamp:   1_000,
			expectedErr: chain.ErrInvalidParent,
		},
		{
			name:        "wrong height",
			parentID:    parent.ID(),
			height:      7,
			timestamp:   1_000,
			expectedErr: chain.ErrInvalidHeight,
		},
		{
			name:        "timestamp regressed",
			parentID:    parent.ID(),
			height:      6,
			timestamp:   999,
			expectedErr: chain.ErrTimestampRegressed,
		},
		{
			name:        "duplicate tx",
			parentID:    parent.ID(),
			height:      6,
			timestamp:   1_000,
			txs:         []*chain.Transaction{tx, tx},
			expectedErr: chain.ErrDuplicateTx,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			blk, err := chain.NewBlock(tt.parentID, tt.height, tt.timestamp, tt.txs)
			require.NoError(err)
			require.ErrorIs(blk.Child(parent, rules), tt.expectedErr)
		})
	}
}
