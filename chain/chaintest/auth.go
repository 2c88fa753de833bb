// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"context"
	"errors"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
)

const TestAuthTypeID uint8 = 0

var (
	_ chain.Auth        = (*TestAuth)(nil)
	_ chain.AuthFactory = (*TestAuthFactory)(nil)

	ErrTestAuthInvalid = errors.New("test auth invalid")
)

// TestAuth trusts the actor it carries. Setting [Invalid] makes Verify fail.
type TestAuth struct {
	ActorAddress codec.Address
	Invalid      bool
}

func (*TestAuth) GetTypeID() uint8 { return TestAuthTypeID }

func (*TestAuth) Size() int { return codec.AddressLen + consts.BoolLen }

func (a *TestAuth) Marshal(p *codec.Packer) {
	p.PackAddress(a.ActorAddress)
	p.PackBool(a.Invalid)
}

func UnmarshalTestAuth(p *codec.Packer) (chain.Auth, error) {
	var a TestAuth
	p.UnpackAddress(&a.ActorAddress)
	a.Invalid = p.UnpackBool()
	return &a, p.Err()
}

func (a *TestAuth) Verify(context.Context, []byte) error {
	if a.Invalid {
		return ErrTestAuthInvalid
	}
	return nil
}

func (a *TestAuth) Actor() codec.Address { return a.ActorAddress }

type TestAuthFactory struct {
	ActorAddress codec.Address
	Invalid      bool
}

func (f *TestAuthFactory) Sign([]byte) (chain.Auth, error) {
	return &TestAuth{ActorAddress: f.ActorAddress, Invalid: f.Invalid}, nil
}

func (f *TestAuthFactory) Address() codec.Address { return f.ActorAddress }
