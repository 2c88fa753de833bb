// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
)

// NewRegistry registers [TestAction], [TestAuth] and [TestOutput].
func NewRegistry() (chain.Registry, error) {
	actionParser := codec.NewTypeParser[chain.Action]()
	authParser := codec.NewTypeParser[chain.Auth]()
	outputParser := codec.NewTypeParser[chain.Output]()

	errs := &wrappers.Errs{}
	errs.Add(
		actionParser.Register(&TestAction{}, UnmarshalTestAction),
		authParser.Register(&TestAuth{}, UnmarshalTestAuth),
		outputParser.Register(&TestOutput{}, UnmarshalTestOutput),
	)
	if errs.Errored() {
		return nil, errs.Err
	}
	return chain.NewRegistry(actionParser, authParser, outputParser), nil
}
