// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "github.com/ava-labs/kittyvm/codec"

type Registry interface {
	ActionRegistry() *codec.TypeParser[Action]
	AuthRegistry() *codec.TypeParser[Auth]
	OutputRegistry() *codec.TypeParser[Output]
}

type registry struct {
	actionRegistry *codec.TypeParser[Action]
	authRegistry   *codec.TypeParser[Auth]
	outputRegistry *codec.TypeParser[Output]
}

func NewRegistry(
	action *codec.TypeParser[Action],
	auth *codec.TypeParser[Auth],
	output *codec.TypeParser[Output],
) Registry {
	return &registry{
		actionRegistry: action,
		authRegistry:   auth,
		outputRegistry: output,
	}
}

func (r *registry) ActionRegistry() *codec.TypeParser[Action] {
	return r.actionRegistry
}

func (r *registry) AuthRegistry() *codec.TypeParser[Auth] {
	return r.authRegistry
}

func (r *registry) OutputRegistry() *codec.TypeParser[Output] {
	return r.outputRegistry
}
