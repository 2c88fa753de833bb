// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/kittyvm/auth"
	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
)

// NewRegistry returns the parsers for every kitty action, its outputs and
// the supported auth schemes.
func NewRegistry() (chain.Registry, error) {
	actionParser := codec.NewTypeParser[chain.Action]()
	authParser := codec.NewTypeParser[chain.Auth]()
	outputParser := codec.NewTypeParser[chain.Output]()

	errs := &wrappers.Errs{}
	errs.Add(
		// When registering new actions, ALWAYS make sure to append at the end.
		actionParser.Register(&CreateKitty{}, UnmarshalCreateKitty),
		actionParser.Register(&TransferKitty{}, UnmarshalTransferKitty),
		actionParser.Register(&BreedKitty{}, UnmarshalBreedKitty),
		actionParser.Register(&BuyKitty{}, UnmarshalBuyKitty),
		actionParser.Register(&SellKitty{}, UnmarshalSellKitty),

		auth.Register(authParser),

		outputParser.Register(&KittyCreated{}, UnmarshalKittyCreated),
		outputParser.Register(&KittyTransferred{}, UnmarshalKittyTransferred),
		outputParser.Register(&KittyBought{}, UnmarshalKittyBought),
		outputParser.Register(&KittySold{}, UnmarshalKittySold),
	)
	if errs.Errored() {
		return nil, errs.Err
	}
	return chain.NewRegistry(actionParser, authParser, outputParser), nil
}
