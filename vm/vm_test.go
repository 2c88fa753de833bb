// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittyvm/actions"
	"github.com/ava-labs/kittyvm/auth"
	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/config"
	"github.com/ava-labs/kittyvm/crypto/ed25519"
	"github.com/ava-labs/kittyvm/event"
	"github.com/ava-labs/kittyvm/genesis"
	"github.com/ava-labs/kittyvm/mempool"
	"github.com/ava-labs/kittyvm/storage"
	"github.com/ava-labs/kittyvm/trace"
)

var errTestSubscriber = errors.New("subscriber failed")

const (
	testFunds  uint64 = 10_000
	testExpiry int64  = 20_000
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type testAccount struct {
	factory chain.AuthFactory
	addr    codec.Address
}

func newTestAccount(t *testing.T) *testAccount {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	factory := auth.NewED25519Factory(priv)
	return &testAccount{factory: factory, addr: factory.Address()}
}

type testEnv struct {
	vm       *VM
	db       database.Database
	genesis  *genesis.Genesis
	clock    *testClock
	recorder *event.Recorder[*chain.Result]
}

func newTestGenesis(accounts ...*testAccount) *genesis.Genesis {
	g := genesis.Default()
	g.ChainID = ids.GenerateTestID()
	for _, account := range accounts {
		g.CustomAllocation = append(g.CustomAllocation, &genesis.CustomAllocation{
			Address: codec.MustAddressBech32(g.HRP, account.addr),
			Balance: testFunds,
		})
	}
	return g
}

func newTestVM(t *testing.T, db database.Database, g *genesis.Genesis) *testEnv {
	t.Helper()
	require := require.New(t)

	registry, err := actions.NewRegistry()
	require.NoError(err)
	clock := &testClock{now: time.UnixMilli(10_000)}
	recorder := &event.Recorder[*chain.Result]{}
	vm, err := New(
		logging.NoLog{},
		trace.Noop("test"),
		config.New(),
		g,
		registry,
		db,
		WithClock(clock.Now),
		WithSubscriptions(recorder),
	)
	require.NoError(err)
	require.NoError(vm.Initialize(context.Background()))
	return &testEnv{
		vm:       vm,
		db:       db,
		genesis:  g,
		clock:    clock,
		recorder: recorder,
	}
}

func (e *testEnv) tx(t *testing.T, from *testAccount, action chain.Action, nonce uint64) *chain.Transaction {
	t.Helper()
	tx, err := chain.NewTx(&chain.Base{
		Timestamp: testExpiry,
		ChainID:   e.genesis.ChainID,
		Nonce:     nonce,
	}, action).Sign(from.factory, e.vm.Registry())
	require.NoError(t, err)
	return tx
}

func (e *testEnv) submit(t *testing.T, txs ...*chain.Transaction) {
	t.Helper()
	for _, err := range e.vm.Submit(context.Background(), txs) {
		require.NoError(t, err)
	}
}

func (e *testEnv) requireBalance(t *testing.T, who *testAccount, free, reserved uint64) {
	t.Helper()
	gotFree, gotReserved, err := e.vm.Balance(context.Background(), who.addr)
	require.NoError(t, err)
	require.Equal(t, free, gotFree, "free")
	require.Equal(t, reserved, gotReserved, "reserved")
}

func TestInitializeGenesis(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := newTestAccount(t)
	env := newTestVM(t, memdb.New(), newTestGenesis(alice))

	require.True(env.vm.IsReady())
	require.Zero(env.vm.Height())
	genesisBlk := env.vm.LastAccepted()
	require.Equal(ids.Empty, genesisBlk.Parent)
	require.Empty(genesisBlk.Txs)

	env.requireBalance(t, alice, testFunds, 0)
	count, err := env.vm.KittiesCount(ctx)
	require.NoError(err)
	require.Zero(count)

	blk, err := env.vm.GetBlockByHeight(ctx, 0)
	require.NoError(err)
	require.Equal(genesisBlk.ID(), blk.ID())
}

func TestInitializeRejectsBadGenesis(t *testing.T) {
	registry, err := actions.NewRegistry()
	require.NoError(t, err)

	g := genesis.Default()
	g.HRP = ""
	_, err = New(logging.NoLog{}, trace.Noop("test"), config.New(), g, registry, memdb.New())
	require.ErrorIs(t, err, genesis.ErrMissingHRP)
}

func TestBuildBlockCreateKitty(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := newTestAccount(t)
	env := newTestVM(t, memdb.New(), newTestGenesis(alice))
	tx := env.tx(t, alice, &actions.CreateKitty{}, 0)
	env.submit(t, tx)

	blk, results, err := env.vm.BuildBlock(ctx)
	require.NoError(err)
	require.Equal(uint64(1), blk.Height)
	require.Equal(int64(10_000), blk.Timestamp)
	require.Len(results, 1)
	require.True(results[0].Success, string(results[0].Error))
	require.Equal(uint64(1), env.vm.Height())

	output, err := chain.ParseOutput(results[0].Output, env.vm.Registry())
	require.NoError(err)
	require.Equal(&actions.KittyCreated{Owner: alice.addr, KittyIndex: storage.FirstKittyIndex}, output)

	kitty, err := env.vm.Kitty(ctx, storage.FirstKittyIndex)
	require.NoError(err)
	require.Equal(alice.addr, kitty.Owner)
	require.Equal(&storage.Deposit{Depositor: alice.addr, Amount: env.genesis.KittyDeposit}, kitty.Deposit)
	env.requireBalance(t, alice, testFunds-env.genesis.KittyDeposit, env.genesis.KittyDeposit)

	result, ok, err := env.vm.Result(ctx, tx.ID())
	require.NoError(err)
	require.True(ok)
	require.Equal(results[0], result)

	require.Equal(results, env.recorder.Events())
}

func TestBuildBlockRollsBackFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := newTestAccount(t)
	bob := newTestAccount(t)
	env := newTestVM(t, memdb.New(), newTestGenesis(alice, bob))
	env.submit(t, env.tx(t, alice, &actions.TransferKitty{To: bob.addr, KittyIndex: 7}, 0))

	_, results, err := env.vm.BuildBlock(ctx)
	require.NoError(err)
	require.Len(results, 1)
	require.False(results[0].Success)
	// Ownership is checked before existence.
	require.Contains(string(results[0].Error), storage.ErrNotOwner.Error())
	require.Nil(results[0].Output)

	_, err = env.vm.Kitty(ctx, 7)
	require.ErrorIs(err, storage.ErrInvalidKittyIndex)
	env.requireBalance(t, alice, testFunds, 0)
	env.requireBalance(t, bob, testFunds, 0)
}

func TestBuildBlockMarketplace(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := newTestAccount(t)
	bob := newTestAccount(t)
	env := newTestVM(t, memdb.New(), newTestGenesis(alice, bob))

	env.submit(t, env.tx(t, alice, &actions.CreateKitty{}, 0))
	_, _, err := env.vm.BuildBlock(ctx)
	require.NoError(err)

	env.clock.now = env.clock.now.Add(time.Second)
	env.submit(t, env.tx(t, bob, &actions.BuyKitty{KittyIndex: 1, Price: 500}, 0))
	_, results, err := env.vm.BuildBlock(ctx)
	require.NoError(err)
	require.Len(results, 1)
	require.True(results[0].Success, string(results[0].Error))

	output, err := chain.ParseOutput(results[0].Output, env.vm.Registry())
	require.NoError(err)
	bought, ok := output.(*actions.KittyBought)
	require.True(ok)
	require.Equal(alice.addr, bought.Seller)
	require.Equal(bob.addr, bought.Buyer)
	require.Equal(uint64(500), bought.Price)

	kitty, err := env.vm.Kitty(ctx, 1)
	require.NoError(err)
	require.Equal(bob.addr, kitty.Owner)
	require.Nil(kitty.Deposit)
	env.requireBalance(t, alice, testFunds+500, 0)
	env.requireBalance(t, bob, testFunds-500, 0)
	require.Len(env.recorder.Events(), 2)
}

func TestBuildBlockBreedUsesBlockEntropy(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := newTestAccount(t)
	env := newTestVM(t, memdb.New(), newTestGenesis(alice))
	env.submit(t,
		env.tx(t, alice, &actions.CreateKitty{}, 0),
		env.tx(t, alice, &actions.CreateKitty{}, 1),
	)
	_, results, err := env.vm.BuildBlock(ctx)
	require.NoError(err)
	require.Len(results, 2)

	first, err := env.vm.Kitty(ctx, 1)
	require.NoError(err)
	second, err := env.vm.Kitty(ctx, 2)
	require.NoError(err)
	// Transactions sharing a block draw from distinct randomness inputs.
	require.NotEqual(first.DNA, second.DNA)

	env.submit(t, env.tx(t, alice, &actions.BreedKitty{Parent1: 1, Parent2: 2}, 2))
	_, results, err = env.vm.BuildBlock(ctx)
	require.NoError(err)
	require.True(results[0].Success, string(results[0].Error))

	count, err := env.vm.KittiesCount(ctx)
	require.NoError(err)
	require.Equal(uint32(3), count)
	child, err := env.vm.Kitty(ctx, 3)
	require.NoError(err)
	require.Equal(alice.addr, child.Owner)
	require.Nil(child.Deposit)
}

func TestBuildBlockEmpty(t *testing.T) {
	alice := newTestAccount(t)
	env := newTestVM(t, memdb.New(), newTestGenesis(alice))

	_, _, err := env.vm.BuildBlock(context.Background())
	require.ErrorIs(t, err, ErrEmptyBlock)
	require.Zero(t, env.vm.Height())
}

func TestBuildBlockDropsExpired(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := newTestAccount(t)
	env := newTestVM(t, memdb.New(), newTestGenesis(alice))
	env.submit(t, env.tx(t, alice, &actions.CreateKitty{}, 0))

	env.clock.now = time.UnixMilli(testExpiry + 1)
	_, _, err := env.vm.BuildBlock(ctx)
	require.ErrorIs(err, ErrEmptyBlock)
	require.Zero(env.vm.mempool.Len(ctx))
}

func TestSubmitRejects(t *testing.T) {
	alice := newTestAccount(t)
	env := newTestVM(t, memdb.New(), newTestGenesis(alice))
	registry := env.vm.Registry()

	sign := func(t *testing.T, base *chain.Base) *chain.Transaction {
		tx, err := chain.NewTx(base, &actions.CreateKitty{}).Sign(alice.factory, registry)
		require.NoError(t, err)
		return tx
	}

	tests := []struct {
		name        string
		base        *chain.Base
		expectedErr error
	}{
		{
			name:        "wrong chain",
			base:        &chain.Base{Timestamp: testExpiry, ChainID: ids.GenerateTestID()},
			expectedErr: chain.ErrInvalidChainID,
		},
		{
			name:        "beyond validity window",
			base:        &chain.Base{Timestamp: 10_000 + env.genesis.ValidityWindow + 1_000, ChainID: env.genesis.ChainID},
			expectedErr: chain.ErrTimestampTooEarly,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := env.vm.Submit(context.Background(), []*chain.Transaction{sign(t, tt.base)})
			require.Len(t, errs, 1)
			require.ErrorIs(t, errs[0], tt.expectedErr)
		})
	}
}

func TestSubmitRejectsDuplicatesAndReplays(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := newTestAccount(t)
	env := newTestVM(t, memdb.New(), newTestGenesis(alice))
	tx := env.tx(t, alice, &actions.CreateKitty{}, 0)

	errs := env.vm.Submit(ctx, []*chain.Transaction{tx, tx})
	require.NoError(errs[0])
	require.ErrorIs(errs[1], mempool.ErrDuplicate)

	_, _, err := env.vm.BuildBlock(ctx)
	require.NoError(err)

	errs = env.vm.Submit(ctx, []*chain.Transaction{tx})
	require.ErrorIs(errs[0], ErrTxAccepted)

	// Once the block timestamp passes its expiry the transaction can no
	// longer be included anywhere.
	env.clock.now = time.UnixMilli(testExpiry + 1_000)
	errs = env.vm.Submit(ctx, []*chain.Transaction{tx})
	require.ErrorIs(errs[0], ErrTxAccepted)
}

func TestRestart(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := newTestAccount(t)
	g := newTestGenesis(alice)
	db := memdb.New()
	env := newTestVM(t, db, g)
	env.submit(t, env.tx(t, alice, &actions.CreateKitty{}, 0))
	blk, _, err := env.vm.BuildBlock(ctx)
	require.NoError(err)

	restarted := newTestVM(t, db, g)
	require.Equal(uint64(1), restarted.vm.Height())
	require.Equal(blk.ID(), restarted.vm.LastAccepted().ID())

	stored, err := restarted.vm.GetBlock(ctx, blk.ID())
	require.NoError(err)
	require.Equal(blk.Bytes(), stored.Bytes())

	kitty, err := restarted.vm.Kitty(ctx, 1)
	require.NoError(err)
	require.Equal(alice.addr, kitty.Owner)
	// Genesis allocations are applied once.
	restarted.requireBalance(t, alice, testFunds-g.KittyDeposit, g.KittyDeposit)
}

func TestClose(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := newTestAccount(t)
	env := newTestVM(t, memdb.New(), newTestGenesis(alice))
	require.NoError(env.vm.Close())
	require.ErrorIs(env.vm.Close(), ErrClosed)
	require.False(env.vm.IsReady())

	errs := env.vm.Submit(ctx, []*chain.Transaction{env.tx(t, alice, &actions.CreateKitty{}, 0)})
	require.ErrorIs(errs[0], ErrClosed)
	_, _, err := env.vm.BuildBlock(ctx)
	require.ErrorIs(err, ErrClosed)

	require.ErrorIs(env.recorder.Accept(ctx, &chain.Result{}), event.ErrClosed)
}

func TestSubscribe(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := newTestAccount(t)
	env := newTestVM(t, memdb.New(), newTestGenesis(alice))
	env.submit(t, env.tx(t, alice, &actions.CreateKitty{}, 0))
	_, first, err := env.vm.BuildBlock(ctx)
	require.NoError(err)

	late := &event.Recorder[*chain.Result]{}
	failing := event.SubscriptionFunc[*chain.Result]{
		AcceptF: func(context.Context, *chain.Result) error {
			return errTestSubscriber
		},
	}
	env.vm.Subscribe(failing, late)

	env.submit(t, env.tx(t, alice, &actions.CreateKitty{}, 1))
	_, second, err := env.vm.BuildBlock(ctx)
	require.NoError(err)
	require.Len(second, 1)

	require.Equal(second, late.Events())
	require.Equal(append(first, second...), env.recorder.Events())

	require.NoError(env.vm.Close())
	require.ErrorIs(late.Accept(ctx, &chain.Result{}), event.ErrClosed)
}
