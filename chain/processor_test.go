// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/chain/chaintest"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/keys"
	"github.com/ava-labs/kittyvm/ledger"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/trace"
)

func newProcessor(rules chain.Rules, engines map[uint8]chain.AuthEngine) *chain.Processor {
	return chain.NewProcessor(
		logging.NoLog{},
		trace.Noop("test"),
		rules,
		ledger.NewBalances(0),
		engines,
		4,
	)
}

func TestProcessorRollsBackFailures(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	registry, err := chaintest.NewRegistry()
	require.NoError(err)
	rules := chaintest.NewRules()
	actor := codec.CreateAddress(0, ids.GenerateTestID())
	factory := &chaintest.TestAuthFactory{ActorAddress: actor}
	badFactory := &chaintest.TestAuthFactory{ActorAddress: actor, Invalid: true}

	var (
		keyA = keys.EncodeChunks([]byte{0xF0, 0xA}, 1)
		keyB = keys.EncodeChunks([]byte{0xF0, 0xB}, 1)
		keyC = keys.EncodeChunks([]byte{0xF0, 0xC}, 1)
	)
	txs := []*chain.Transaction{
		newSignedTx(t, registry, rules, &chaintest.TestAction{Key: keyA, Value: []byte{1}}, factory, 2_000),
		newSignedTx(t, registry, rules, &chaintest.TestAction{Key: keyB, Value: []byte{2}, Fail: true}, factory, 2_000),
		newSignedTx(t, registry, rules, &chaintest.TestAction{Key: keyC, Value: []byte{3}}, badFactory, 2_000),
		newSignedTx(t, registry, rules, &chaintest.TestAction{Key: keyA, Value: []byte{4}}, factory, 1_000),
	}
	blk, err := chain.NewBlock(ids.Empty, 1, 2_000, txs)
	require.NoError(err)

	im := state.ImmutableStorage{}
	ts, results, err := newProcessor(rules, nil).Execute(ctx, im, blk, ids.GenerateTestID())
	require.NoError(err)
	require.Len(results, 4)

	require.True(results[0].Success)
	output, err := chain.ParseOutput(results[0].Output, registry)
	require.NoError(err)
	require.Equal(&chaintest.TestOutput{Actor: actor, Index: 0}, output)

	require.False(results[1].Success)
	require.Equal(chaintest.ErrTestActionFailed.Error(), string(results[1].Error))
	require.Nil(results[1].Output)

	require.False(results[2].Success)
	require.Contains(string(results[2].Error), chaintest.ErrTestAuthInvalid.Error())

	require.False(results[3].Success)
	require.Equal(chain.ErrTimestampTooLate.Error(), string(results[3].Error))

	changes := ts.ExportChanges()
	require.Len(changes, 1)
	require.Equal([]byte{1}, changes[string(keyA)].Value())
}

func TestProcessorIndexesCalls(t *testing.T) {
	require := require.New(t)

	registry, err := chaintest.NewRegistry()
	require.NoError(err)
	rules := chaintest.NewRules()
	actor := codec.CreateAddress(0, ids.GenerateTestID())
	factory := &chaintest.TestAuthFactory{ActorAddress: actor}

	txs := make([]*chain.Transaction, 3)
	for i := range txs {
		key := keys.EncodeChunks([]byte{0xF0, byte(i)}, 1)
		txs[i] = newSignedTx(t, registry, rules, &chaintest.TestAction{Key: key}, factory, 1_000)
	}
	blk, err := chain.NewBlock(ids.Empty, 1, 1_000, txs)
	require.NoError(err)

	_, results, err := newProcessor(rules, nil).Execute(context.Background(), state.ImmutableStorage{}, blk, ids.Empty)
	require.NoError(err)
	for i, result := range results {
		require.True(result.Success)
		output, err := chain.ParseOutput(result.Output, registry)
		require.NoError(err)
		require.Equal(uint32(i), output.(*chaintest.TestOutput).Index)
	}
}

type countingVerifier struct {
	added   int
	invalid bool
}

func (c *countingVerifier) Add([]byte, chain.Auth) { c.added++ }

func (c *countingVerifier) Verify() error {
	if c.invalid {
		return chaintest.ErrTestAuthInvalid
	}
	return nil
}

type countingEngine struct {
	batches atomic.Int32
	invalid bool
}

func (e *countingEngine) GetBatchVerifier(count int) (chain.AuthBatchVerifier, bool) {
	if count < 2 {
		return nil, false
	}
	e.batches.Add(1)
	return &countingVerifier{invalid: e.invalid}, true
}

func TestVerifyAuthBatches(t *testing.T) {
	require := require.New(t)

	registry, err := chaintest.NewRegistry()
	require.NoError(err)
	rules := chaintest.NewRules()
	actor := codec.CreateAddress(0, ids.GenerateTestID())

	txs := []*chain.Transaction{
		newSignedTx(t, registry, rules, &chaintest.TestAction{Key: testKey, Value: []byte{1}}, &chaintest.TestAuthFactory{ActorAddress: actor}, 1_000),
		newSignedTx(t, registry, rules, &chaintest.TestAction{Key: testKey, Value: []byte{2}}, &chaintest.TestAuthFactory{ActorAddress: actor, Invalid: true}, 1_000),
		newSignedTx(t, registry, rules, &chaintest.TestAction{Key: testKey, Value: []byte{3}}, &chaintest.TestAuthFactory{ActorAddress: actor}, 1_000),
	}

	// A passing batch accepts every member without individual checks.
	engine := &countingEngine{}
	errs := chain.VerifyAuth(context.Background(), map[uint8]chain.AuthEngine{chaintest.TestAuthTypeID: engine}, 2, txs)
	require.Equal(int32(1), engine.batches.Load())
	for _, err := range errs {
		require.NoError(err)
	}

	// A failing batch falls back to checking each member.
	engine = &countingEngine{invalid: true}
	errs = chain.VerifyAuth(context.Background(), map[uint8]chain.AuthEngine{chaintest.TestAuthTypeID: engine}, 2, txs)
	require.NoError(errs[0])
	require.ErrorIs(errs[1], chaintest.ErrTestAuthInvalid)
	require.NoError(errs[2])

	// Without an engine every transaction is checked on its own.
	errs = chain.VerifyAuth(context.Background(), nil, 2, txs)
	require.ErrorIs(errs[1], chaintest.ErrTestAuthInvalid)
}
