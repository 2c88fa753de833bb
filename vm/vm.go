// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/cache"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/ava-labs/kittyvm/auth"
	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/config"
	"github.com/ava-labs/kittyvm/emap"
	"github.com/ava-labs/kittyvm/event"
	"github.com/ava-labs/kittyvm/genesis"
	"github.com/ava-labs/kittyvm/genome"
	"github.com/ava-labs/kittyvm/ledger"
	"github.com/ava-labs/kittyvm/mempool"
	"github.com/ava-labs/kittyvm/random"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/state/metadata"
	"github.com/ava-labs/kittyvm/storage"
	"github.com/ava-labs/kittyvm/tstate"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Kitty is everything the registry knows about one kitty.
type Kitty struct {
	Index   uint32           `json:"index"`
	DNA     genome.DNA       `json:"dna"`
	Owner   codec.Address    `json:"owner"`
	Deposit *storage.Deposit `json:"deposit,omitempty"`
}

// VM sequences submitted transactions into blocks on a single node. Blocks
// are executed by [chain.Processor] and every accepted block is written to
// the database together with the state changes it caused.
type VM struct {
	log      logging.Logger
	tracer   trace.Tracer
	config   config.Config
	genesis  *genesis.Genesis
	rules    *genesis.Rules
	registry chain.Registry
	metadata metadata.MetadataManager
	balances *ledger.Balances

	processor *chain.Processor
	stateDB   *state.WrappedDatabase

	mempool *mempool.Mempool[*chain.Transaction]
	// accepted holds the IDs of included transactions until they expire, so a
	// resubmitted transaction cannot run twice.
	accepted *emap.EMap[*chain.Transaction]
	results  *cache.LRU[ids.ID, *chain.Result]

	subscriptions []event.Subscription[*chain.Result]
	now           func() time.Time

	// lock serializes block building against reads of state and
	// [lastAccepted].
	lock         sync.RWMutex
	lastAccepted *chain.Block
	height       atomic.Uint64
	ready        atomic.Bool
	closed       atomic.Bool

	metrics  *Metrics
	gatherer prometheus.Gatherer
}

func New(
	log logging.Logger,
	tracer trace.Tracer,
	cfg config.Config,
	g *genesis.Genesis,
	registry chain.Registry,
	db database.Database,
	options ...Option,
) (*VM, error) {
	if err := g.Verify(); err != nil {
		return nil, err
	}
	gatherer, metrics, err := newMetrics()
	if err != nil {
		return nil, err
	}
	pool, err := mempool.New[*chain.Transaction](tracer, cfg.MempoolSize, cfg.MempoolSponsorSize)
	if err != nil {
		return nil, err
	}
	rules := genesis.NewRules(g)
	balances := ledger.NewBalances(g.ExistentialDeposit)
	vm := &VM{
		log:      log,
		tracer:   tracer,
		config:   cfg,
		genesis:  g,
		rules:    rules,
		registry: registry,
		metadata: metadata.NewDefaultManager(),
		balances: balances,

		processor: chain.NewProcessor(log, tracer, rules, balances, auth.Engines(), cfg.AuthVerificationCores),
		stateDB:   state.NewWrappedDatabase(db),

		mempool:  pool,
		accepted: emap.NewEMap[*chain.Transaction](),
		results:  &cache.LRU[ids.ID, *chain.Result]{Size: cfg.ResultCacheSize},

		now:      time.Now,
		metrics:  metrics,
		gatherer: gatherer,
	}
	for _, option := range options {
		option(vm)
	}
	return vm, nil
}

// Initialize restores the last accepted block, or applies genesis to an
// empty database.
func (vm *VM) Initialize(ctx context.Context) error {
	ctx, span := vm.tracer.Start(ctx, "VM.Initialize")
	defer span.End()

	if metadata.HasConflictingPrefixes(vm.metadata, vmPrefixes()) {
		return ErrConflictingPrefixes
	}

	vm.lock.Lock()
	defer vm.lock.Unlock()

	height, ok, err := getLastAcceptedHeight(ctx, vm.stateDB)
	if err != nil {
		return err
	}
	var blk *chain.Block
	if ok {
		blk, err = getBlock(ctx, vm.stateDB, vm.registry, height)
		if err != nil {
			return fmt.Errorf("%w: unable to load last accepted block %d", err, height)
		}
		vm.log.Info("restored last accepted block",
			zap.Uint64("height", blk.Height),
			zap.Stringer("blkID", blk.ID()),
		)
	} else {
		blk, err = vm.initGenesis(ctx)
		if err != nil {
			return err
		}
	}
	vm.setLastAccepted(blk)
	vm.ready.Store(true)
	return nil
}

func (vm *VM) initGenesis(ctx context.Context) (*chain.Block, error) {
	ts := tstate.New(len(vm.genesis.CustomAllocation) + 2)
	view := ts.NewView(vm.stateDB)
	supply, err := vm.genesis.InitializeState(ctx, vm.tracer, view, vm.balances)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to apply genesis", err)
	}
	view.Commit()

	blk, err := chain.NewGenesisBlock(vm.genesis.Timestamp)
	if err != nil {
		return nil, err
	}
	if err := vm.putMetadata(ctx, ts, blk, ids.Empty); err != nil {
		return nil, err
	}
	changes := ts.ExportChanges()
	if err := putBlock(changes, blk, nil); err != nil {
		return nil, err
	}
	if err := vm.stateDB.Commit(ctx, changes); err != nil {
		return nil, err
	}
	fields := append(vm.genesis.Fields(), zap.Uint64("supply", supply), zap.Stringer("blkID", blk.ID()))
	vm.log.Info("initialized genesis", fields...)
	return blk, nil
}

func (vm *VM) putMetadata(ctx context.Context, ts *tstate.TState, blk *chain.Block, entropy ids.ID) error {
	if err := ts.Insert(ctx, vm.metadata.HeightKey(), binary.BigEndian.AppendUint64(nil, blk.Height)); err != nil {
		return err
	}
	if err := ts.Insert(ctx, vm.metadata.TimestampKey(), binary.BigEndian.AppendUint64(nil, uint64(blk.Timestamp))); err != nil {
		return err
	}
	return ts.Insert(ctx, vm.metadata.EntropyKey(), entropy[:])
}

func (vm *VM) setLastAccepted(blk *chain.Block) {
	vm.lastAccepted = blk
	vm.height.Store(blk.Height)
	vm.metrics.height.Set(float64(blk.Height))
}

func (vm *VM) checkReady() error {
	switch {
	case vm.closed.Load():
		return ErrClosed
	case !vm.ready.Load():
		return ErrNotReady
	default:
		return nil
	}
}

// Submit verifies [txs] and queues the valid ones. The returned slice holds
// one entry per transaction: nil if it was queued.
func (vm *VM) Submit(ctx context.Context, txs []*chain.Transaction) []error {
	ctx, span := vm.tracer.Start(ctx, "VM.Submit", oteltrace.WithAttributes(
		attribute.Int("txs", len(txs)),
	))
	defer span.End()
	vm.metrics.txsSubmitted.Add(float64(len(txs)))

	errs := make([]error, len(txs))
	if err := vm.checkReady(); err != nil {
		for i := range errs {
			errs[i] = err
		}
		return errs
	}

	vm.lock.RLock()
	lastTimestamp := vm.lastAccepted.Timestamp
	vm.lock.RUnlock()
	now := max(vm.now().UnixMilli(), lastTimestamp)

	validTxs := make([]*chain.Transaction, 0, len(txs))
	validIndices := make([]int, 0, len(txs))
	for i, tx := range txs {
		if err := vm.preVerify(ctx, tx, lastTimestamp, now); err != nil {
			errs[i] = err
			continue
		}
		validTxs = append(validTxs, tx)
		validIndices = append(validIndices, i)
	}
	for i, err := range vm.mempool.Add(ctx, validTxs) {
		errs[validIndices[i]] = err
	}
	for i, err := range errs {
		if err != nil {
			vm.metrics.txsRejected.Inc()
			vm.log.Debug("transaction rejected",
				zap.Stringer("txID", txs[i].ID()),
				zap.Error(err),
			)
		}
	}
	vm.metrics.mempoolSize.Set(float64(vm.mempool.Len(ctx)))
	return errs
}

func (vm *VM) preVerify(ctx context.Context, tx *chain.Transaction, lastTimestamp int64, now int64) error {
	switch {
	case vm.accepted.Has(tx.ID()):
		return ErrTxAccepted
	case tx.Base.ChainID != vm.rules.GetChainID():
		return chain.ErrInvalidChainID
	case tx.Expiry() < lastTimestamp:
		return chain.ErrTimestampTooLate
	case tx.Expiry() > now+vm.rules.GetValidityWindow():
		return chain.ErrTimestampTooEarly
	}
	return tx.Verify(ctx)
}

// BuildBlock drains the mempool into a child of the last accepted block,
// executes it, and commits the block, its results and its state changes in
// one batch. Subscribers are notified after the commit.
func (vm *VM) BuildBlock(ctx context.Context) (*chain.Block, []*chain.Result, error) {
	ctx, span := vm.tracer.Start(ctx, "VM.BuildBlock")
	defer span.End()

	if err := vm.checkReady(); err != nil {
		return nil, nil, err
	}
	start := time.Now()

	vm.lock.Lock()
	blk, results, err := vm.buildBlock(ctx)
	subs := vm.subscriptions
	vm.lock.Unlock()
	if err != nil {
		return nil, nil, err
	}
	vm.metrics.blockBuild.Observe(time.Since(start).Seconds())

	for _, result := range results {
		if err := event.NotifyAll(ctx, result, subs...); err != nil {
			vm.log.Warn("subscriber failed",
				zap.Stringer("txID", result.TxID),
				zap.Error(err),
			)
		}
	}
	return blk, results, nil
}

func (vm *VM) buildBlock(ctx context.Context) (*chain.Block, []*chain.Result, error) {
	parent := vm.lastAccepted
	timestamp := max(vm.now().UnixMilli(), parent.Timestamp)

	expired := vm.mempool.SetMinTimestamp(ctx, timestamp)
	vm.metrics.txsExpired.Add(float64(len(expired)))
	vm.accepted.SetMin(timestamp)

	maxTxs := vm.rules.GetMaxBlockTxs()
	txs := make([]*chain.Transaction, 0, min(maxTxs, vm.mempool.Len(ctx)))
	err := vm.mempool.Build(ctx, func(_ context.Context, tx *chain.Transaction) (bool, bool, error) {
		if vm.accepted.Has(tx.ID()) {
			vm.metrics.txsReplayed.Inc()
			return true, false, nil
		}
		if tx.Expiry() > timestamp+vm.rules.GetValidityWindow() {
			return true, true, nil
		}
		txs = append(txs, tx)
		return len(txs) < maxTxs, false, nil
	})
	vm.metrics.mempoolSize.Set(float64(vm.mempool.Len(ctx)))
	if err != nil {
		return nil, nil, err
	}
	if len(txs) == 0 {
		return nil, nil, ErrEmptyBlock
	}

	blk, err := chain.NewBlock(parent.ID(), parent.Height+1, timestamp, txs)
	if err != nil {
		return nil, nil, err
	}
	if err := blk.Child(parent, vm.rules); err != nil {
		return nil, nil, err
	}
	entropy, err := random.NewBlockOracle(vm.stateDB, vm.metadata.EntropyKey()).Seed(ctx, blk.Height)
	if err != nil {
		return nil, nil, err
	}
	ts, results, err := vm.processor.Execute(ctx, vm.stateDB, blk, entropy)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: unable to execute block %d", err, blk.Height)
	}
	if err := vm.putMetadata(ctx, ts, blk, entropy); err != nil {
		return nil, nil, err
	}
	changes := ts.ExportChanges()
	if err := putBlock(changes, blk, results); err != nil {
		return nil, nil, err
	}
	if err := vm.stateDB.Commit(ctx, changes); err != nil {
		return nil, nil, fmt.Errorf("%w: unable to commit block %d", err, blk.Height)
	}

	vm.setLastAccepted(blk)
	vm.accepted.Add(txs)
	successes := 0
	for i, result := range results {
		vm.results.Put(result.TxID, result)
		vm.metrics.recordAction(txs[i].Action.GetTypeID(), result.Success)
		if result.Success {
			successes++
		}
	}
	vm.metrics.txsAccepted.Add(float64(len(txs)))
	vm.metrics.blocksBuilt.Inc()
	vm.log.Info("accepted block",
		zap.Uint64("height", blk.Height),
		zap.Stringer("blkID", blk.ID()),
		zap.Int64("timestamp", blk.Timestamp),
		zap.Int("txs", len(txs)),
		zap.Int("succeeded", successes),
		zap.Int("stateChanges", len(changes)),
	)
	return blk, results, nil
}

// LastAccepted returns the most recently accepted block.
func (vm *VM) LastAccepted() *chain.Block {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.lastAccepted
}

// Height is the height of the last accepted block.
func (vm *VM) Height() uint64 {
	return vm.height.Load()
}

// GetBlock returns the accepted block with [id].
func (vm *VM) GetBlock(ctx context.Context, id ids.ID) (*chain.Block, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	height, err := getBlockHeight(ctx, vm.stateDB, id)
	if err != nil {
		return nil, err
	}
	return getBlock(ctx, vm.stateDB, vm.registry, height)
}

// GetBlockByHeight returns the accepted block at [height].
func (vm *VM) GetBlockByHeight(ctx context.Context, height uint64) (*chain.Block, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return getBlock(ctx, vm.stateDB, vm.registry, height)
}

// Result returns the outcome of an accepted transaction.
func (vm *VM) Result(ctx context.Context, txID ids.ID) (*chain.Result, bool, error) {
	if result, ok := vm.results.Get(txID); ok {
		return result, true, nil
	}

	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return getResult(ctx, vm.stateDB, txID)
}

// Kitty returns [storage.ErrInvalidKittyIndex] if [index] was never
// allocated.
func (vm *VM) Kitty(ctx context.Context, index uint32) (*Kitty, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	dna, err := storage.MustGetKitty(ctx, vm.stateDB, index)
	if err != nil {
		return nil, err
	}
	owner, ok, err := storage.GetOwner(ctx, vm.stateDB, index)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: kitty %d has no owner", storage.ErrCorruptValue, index)
	}
	kitty := &Kitty{
		Index: index,
		DNA:   dna,
		Owner: owner,
	}
	deposit, ok, err := storage.GetDeposit(ctx, vm.stateDB, index)
	if err != nil {
		return nil, err
	}
	if ok {
		kitty.Deposit = &deposit
	}
	return kitty, nil
}

// KittiesCount returns how many kitties exist. The stored count is the next
// index to allocate, which starts at [storage.FirstKittyIndex].
func (vm *VM) KittiesCount(ctx context.Context) (uint32, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	count, ok, err := storage.GetKittiesCount(ctx, vm.stateDB)
	if err != nil || !ok {
		return 0, err
	}
	return count - storage.FirstKittyIndex, nil
}

// Balance returns the free and reserved balance of [addr].
func (vm *VM) Balance(ctx context.Context, addr codec.Address) (uint64, uint64, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	free, err := vm.balances.FreeBalance(ctx, vm.stateDB, addr)
	if err != nil {
		return 0, 0, err
	}
	reserved, err := vm.balances.ReservedBalance(ctx, vm.stateDB, addr)
	if err != nil {
		return 0, 0, err
	}
	return free, reserved, nil
}

// Subscribe registers [subs] for the results of every block built after the
// call returns. They are closed by [VM.Close].
func (vm *VM) Subscribe(subs ...event.Subscription[*chain.Result]) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	vm.subscriptions = append(vm.subscriptions, subs...)
}

func (vm *VM) Genesis() *genesis.Genesis { return vm.genesis }

func (vm *VM) Registry() chain.Registry { return vm.registry }

func (vm *VM) Logger() logging.Logger { return vm.log }

func (vm *VM) Tracer() trace.Tracer { return vm.tracer }

// Gatherer exposes the VM metrics.
func (vm *VM) Gatherer() prometheus.Gatherer { return vm.gatherer }

func (vm *VM) IsReady() bool {
	return vm.checkReady() == nil
}

// Close stops accepting work, closes every subscription and then the
// database.
func (vm *VM) Close() error {
	if !vm.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	vm.lock.RLock()
	subs := vm.subscriptions
	vm.lock.RUnlock()

	// Subscribers may still be submitting, so they are closed before the
	// write lock is taken.
	subsErr := event.CloseAll(subs...)

	vm.lock.Lock()
	defer vm.lock.Unlock()

	return errors.Join(subsErr, vm.stateDB.Close())
}
