// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/kittyvm/chain"
)

var _ chain.Rules = (*Rules)(nil)

// Rules is a fixed [chain.Rules] for tests.
type Rules struct {
	ChainID        ids.ID
	ValidityWindow int64
	MaxBlockTxs    int
	KittyDeposit   uint64
}

func NewRules() *Rules {
	return &Rules{
		ChainID:        ids.GenerateTestID(),
		ValidityWindow: 60_000,
		MaxBlockTxs:    1_000,
		KittyDeposit:   1_000,
	}
}

func (r *Rules) GetChainID() ids.ID { return r.ChainID }

func (r *Rules) GetValidityWindow() int64 { return r.ValidityWindow }

func (r *Rules) GetMaxBlockTxs() int { return r.MaxBlockTxs }

func (r *Rules) GetKittyDeposit() uint64 { return r.KittyDeposit }
