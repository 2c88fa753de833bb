// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/ledger"
	"github.com/ava-labs/kittyvm/state"

	safemath "github.com/ava-labs/avalanchego/utils/math"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidValidityWindow = errors.New("validity window must be positive")
	ErrInvalidMaxBlockTxs    = errors.New("max block txs must be positive")
	ErrMissingHRP            = errors.New("missing hrp")
)

type CustomAllocation struct {
	Address string `json:"address"` // bech32 address
	Balance uint64 `json:"balance"`
}

// Genesis carries the chain parameters and the initial balances.
type Genesis struct {
	ChainID ids.ID `json:"chainID"`
	HRP     string `json:"hrp"`

	// Chain parameters
	ValidityWindow int64 `json:"validityWindow"` // ms
	MaxBlockTxs    int   `json:"maxBlockTxs"`
	Timestamp      int64 `json:"timestamp"` // ms, of the genesis block

	// Currency parameters
	KittyDeposit       uint64 `json:"kittyDeposit"`
	ExistentialDeposit uint64 `json:"existentialDeposit"`

	CustomAllocation []*CustomAllocation `json:"customAllocation"`
}

func Default() *Genesis {
	return &Genesis{
		HRP: consts.HRP,

		ValidityWindow: 60 * consts.MillisecondsPerSecond,
		MaxBlockTxs:    1_000,

		KittyDeposit:       1_000,
		ExistentialDeposit: 1,
	}
}

// Load parses [b] on top of [Default].
func Load(b []byte) (*Genesis, error) {
	g := Default()
	if err := json.Unmarshal(b, g); err != nil {
		return nil, fmt.Errorf("unable to parse genesis: %w", err)
	}
	if err := g.Verify(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Genesis) Verify() error {
	if len(g.HRP) == 0 {
		return ErrMissingHRP
	}
	if g.ValidityWindow <= 0 {
		return ErrInvalidValidityWindow
	}
	if g.MaxBlockTxs <= 0 {
		return ErrInvalidMaxBlockTxs
	}
	return nil
}

// InitializeState mints every allocation into [mu].
func (g *Genesis) InitializeState(
	ctx context.Context,
	tracer trace.Tracer,
	mu state.Mutable,
	balances *ledger.Balances,
) (uint64, error) {
	_, span := tracer.Start(ctx, "Genesis.InitializeState", oteltrace.WithAttributes(
		attribute.Int("allocations", len(g.CustomAllocation)),
	))
	defer span.End()

	supply := uint64(0)
	for _, alloc := range g.CustomAllocation {
		addr, err := codec.ParseAddressBech32(g.HRP, alloc.Address)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", err, alloc.Address)
		}
		supply, err = safemath.Add(supply, alloc.Balance)
		if err != nil {
			return 0, err
		}
		if alloc.Balance < g.ExistentialDeposit {
			return 0, fmt.Errorf("%w: addr=%s, bal=%d", ledger.ErrExistentialDeposit, alloc.Address, alloc.Balance)
		}
		if err := balances.Mint(ctx, mu, addr, alloc.Balance); err != nil {
			return 0, fmt.Errorf("%w: addr=%s, bal=%d", err, alloc.Address, alloc.Balance)
		}
	}
	return supply, nil
}

func (g *Genesis) Fields() []zap.Field {
	return []zap.Field{
		zap.Stringer("chainID", g.ChainID),
		zap.String("hrp", g.HRP),
		zap.Uint64("kittyDeposit", g.KittyDeposit),
		zap.Uint64("existentialDeposit", g.ExistentialDeposit),
		zap.Int("allocations", len(g.CustomAllocation)),
	}
}
