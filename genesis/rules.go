// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/kittyvm/chain"
)

var _ chain.Rules = (*Rules)(nil)

// Rules exposes the chain parameters of a [Genesis].
type Rules struct {
	g *Genesis
}

func NewRules(g *Genesis) *Rules {
	return &Rules{g: g}
}

func (r *Rules) GetChainID() ids.ID {
	return r.g.ChainID
}

func (r *Rules) GetValidityWindow() int64 {
	return r.g.ValidityWindow
}

func (r *Rules) GetMaxBlockTxs() int {
	return r.g.MaxBlockTxs
}

func (r *Rules) GetKittyDeposit() uint64 {
	return r.g.KittyDeposit
}
