// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/genesis"
	"github.com/ava-labs/kittyvm/vm"
)

var _ VM = (*vm.VM)(nil)

// VM is the part of the node the API exposes.
type VM interface {
	Genesis() *genesis.Genesis
	Registry() chain.Registry
	Logger() logging.Logger
	Tracer() trace.Tracer

	Submit(ctx context.Context, txs []*chain.Transaction) []error
	LastAccepted() *chain.Block
	Result(ctx context.Context, txID ids.ID) (*chain.Result, bool, error)
	Kitty(ctx context.Context, index uint32) (*vm.Kitty, error)
	KittiesCount(ctx context.Context) (uint32, error)
	Balance(ctx context.Context, addr codec.Address) (uint64, uint64, error)
}
