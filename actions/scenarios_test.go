// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/chain/chaintest"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/storage"
	"github.com/ava-labs/kittyvm/tstate"
)

// kittyChain runs actions one after another against a shared state, each in
// its own view, the way the processor does.
type kittyChain struct {
	t     *testing.T
	rules chain.Rules
	state state.MutableStorage
	index uint32
}

func newKittyChain(t *testing.T, allocs map[codec.Address]uint64) *kittyChain {
	rules := chaintest.NewRules()
	rules.KittyDeposit = testDeposit
	return &kittyChain{
		t:     t,
		rules: rules,
		state: newTestState(t, allocs),
	}
}

func (c *kittyChain) run(actor codec.Address, action chain.Action) (chain.Output, error) {
	ctx := context.Background()
	ts := tstate.New(0)
	tsv := ts.NewView(c.state)
	output, err := action.Execute(ctx, c.rules, tsv, newTestEnv(c.index), actor)
	c.index++
	if err != nil {
		tsv.Rollback(ctx, 0)
		return nil, err
	}
	tsv.Commit()
	for k, v := range ts.ExportChanges() {
		if v.IsNothing() {
			delete(c.state, k)
			continue
		}
		c.state[k] = v.Value()
	}
	return output, nil
}

func TestScenarioCreate(t *testing.T) {
	require := require.New(t)
	c := newKittyChain(t, map[codec.Address]uint64{alice: testFunds})

	output, err := c.run(alice, &CreateKitty{})
	require.NoError(err)
	require.Equal(&KittyCreated{Owner: alice, KittyIndex: 1}, output)
	requireCount(t, c.state, 2)
	requireOwner(t, c.state, 1, alice)
	requireBalances(t, c.state, alice, testFunds-testDeposit, testDeposit)
}

func TestScenarioCreateWithoutFunds(t *testing.T) {
	require := require.New(t)
	c := newKittyChain(t, map[codec.Address]uint64{carol: testDeposit / 2})

	_, err := c.run(carol, &CreateKitty{})
	require.ErrorIs(err, ErrOutputReserveFailed)
	_, ok, err := storage.GetKittiesCount(context.Background(), c.state)
	require.NoError(err)
	require.False(ok)
	requireBalances(t, c.state, carol, testDeposit/2, 0)
}

func TestScenarioTransfer(t *testing.T) {
	require := require.New(t)
	c := newKittyChain(t, map[codec.Address]uint64{alice: testFunds})

	_, err := c.run(alice, &CreateKitty{})
	require.NoError(err)
	output, err := c.run(alice, &TransferKitty{To: bob, KittyIndex: 1})
	require.NoError(err)
	require.Equal(&KittyTransferred{From: alice, To: bob, KittyIndex: 1}, output)
	requireOwner(t, c.state, 1, bob)

	_, err = c.run(alice, &TransferKitty{To: bob, KittyIndex: 1})
	require.ErrorIs(err, storage.ErrNotOwner)
	requireOwner(t, c.state, 1, bob)
}

func TestScenarioBreed(t *testing.T) {
	require := require.New(t)
	c := newKittyChain(t, map[codec.Address]uint64{alice: testFunds})

	for i := 0; i < 2; i++ {
		_, err := c.run(alice, &CreateKitty{})
		require.NoError(err)
	}
	before := c.state.Clone()
	_, err := c.run(alice, &BreedKitty{Parent1: 1, Parent2: 1})
	require.ErrorIs(err, ErrOutputSameParentIndex)
	require.Equal(before, c.state)

	output, err := c.run(alice, &BreedKitty{Parent1: 1, Parent2: 2})
	require.NoError(err)
	require.Equal(&KittyCreated{Owner: alice, KittyIndex: 3}, output)
	requireOwner(t, c.state, 3, alice)
	requireCount(t, c.state, 4)
	requireBalances(t, c.state, alice, testFunds-2*testDeposit, 2*testDeposit)
}

func TestScenarioBuy(t *testing.T) {
	require := require.New(t)
	c := newKittyChain(t, map[codec.Address]uint64{alice: testFunds, bob: testFunds})

	_, err := c.run(alice, &CreateKitty{})
	require.NoError(err)

	output, err := c.run(bob, &BuyKitty{KittyIndex: 1, Price: testPrice})
	require.NoError(err)
	require.Equal(&KittyBought{trade{Seller: alice, Buyer: bob, Price: testPrice, KittyIndex: 1}}, output)
	requireOwner(t, c.state, 1, bob)
	requireBalances(t, c.state, alice, testFunds+testPrice, 0)
	requireBalances(t, c.state, bob, testFunds-testPrice, 0)

	before := c.state.Clone()
	_, err = c.run(bob, &BuyKitty{KittyIndex: 1, Price: testPrice})
	require.ErrorIs(err, ErrOutputBuyerIsOwner)
	require.Equal(before, c.state)
}

func TestScenarioResaleReleasesDepositOnce(t *testing.T) {
	require := require.New(t)
	c := newKittyChain(t, map[codec.Address]uint64{alice: testFunds, bob: testFunds, carol: testFunds})

	_, err := c.run(alice, &CreateKitty{})
	require.NoError(err)
	_, err = c.run(alice, &SellKitty{KittyIndex: 1, Buyer: bob, Price: testPrice})
	require.NoError(err)
	_, err = c.run(carol, &BuyKitty{KittyIndex: 1, Price: testPrice})
	require.NoError(err)

	requireOwner(t, c.state, 1, carol)
	requireBalances(t, c.state, alice, testFunds+testPrice, 0)
	requireBalances(t, c.state, bob, testFunds, 0)
	requireBalances(t, c.state, carol, testFunds-testPrice, 0)
}
