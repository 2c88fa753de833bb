// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"context"
	"errors"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/state"
)

const (
	TestActionTypeID uint8 = 0
	TestOutputTypeID uint8 = 0

	maxTestBytes = 256
)

var (
	_ chain.Action = (*TestAction)(nil)
	_ chain.Output = (*TestOutput)(nil)

	ErrTestActionFailed = errors.New("test action failed")
)

// TestAction writes [Value] at [Key] and then fails if [Fail] is set, which
// exercises rollback of partial writes.
type TestAction struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
	Fail  bool   `json:"fail"`
}

func (*TestAction) GetTypeID() uint8 { return TestActionTypeID }

func (a *TestAction) Size() int {
	return codec.BytesLen(a.Key) + codec.BytesLen(a.Value) + consts.BoolLen
}

func (a *TestAction) Marshal(p *codec.Packer) {
	p.PackBytes(a.Key)
	p.PackBytes(a.Value)
	p.PackBool(a.Fail)
}

func UnmarshalTestAction(p *codec.Packer) (chain.Action, error) {
	var a TestAction
	p.UnpackBytes(maxTestBytes, true, &a.Key)
	p.UnpackBytes(maxTestBytes, false, &a.Value)
	a.Fail = p.UnpackBool()
	return &a, p.Err()
}

func (a *TestAction) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	env chain.Env,
	actor codec.Address,
) (chain.Output, error) {
	if err := mu.Insert(ctx, a.Key, a.Value); err != nil {
		return nil, err
	}
	if a.Fail {
		return nil, ErrTestActionFailed
	}
	return &TestOutput{Actor: actor, Index: env.Index}, nil
}

type TestOutput struct {
	Actor codec.Address `json:"actor"`
	Index uint32        `json:"index"`
}

func (*TestOutput) GetTypeID() uint8 { return TestOutputTypeID }

func (*TestOutput) Size() int { return codec.AddressLen + consts.Uint32Len }

func (o *TestOutput) Marshal(p *codec.Packer) {
	p.PackAddress(o.Actor)
	p.PackUint32(o.Index)
}

func UnmarshalTestOutput(p *codec.Packer) (chain.Output, error) {
	var o TestOutput
	p.UnpackAddress(&o.Actor)
	o.Index = p.UnpackUint32(false)
	return &o, p.Err()
}
