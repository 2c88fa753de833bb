// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/kittyvm/actions"
	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/pebble"
)

// Handler keeps the wallet of the command line client: its keys, the nodes
// it talks to and the defaults chosen between them.
type Handler struct {
	db       database.Database
	registry chain.Registry
	hrp      string
}

func New(dbPath string) (*Handler, error) {
	registry, err := actions.NewRegistry()
	if err != nil {
		return nil, err
	}
	db, _, err := pebble.New(dbPath, pebble.NewDefaultConfig())
	if err != nil {
		return nil, err
	}
	return &Handler{db: db, registry: registry, hrp: consts.HRP}, nil
}

// Registry returns the parsers used to decode transactions and outputs.
func (h *Handler) Registry() chain.Registry {
	return h.registry
}
