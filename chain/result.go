// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
)

// Result is the outcome of one transaction. A failed transaction leaves no
// trace in state; its error is kept here.
type Result struct {
	TxID    ids.ID `json:"txId"`
	Height  uint64 `json:"height"`
	Success bool   `json:"success"`
	Error   []byte `json:"error"`

	// Output is the type-prefixed notification emitted by the action. It is
	// empty when [Success] is false.
	Output []byte `json:"output"`
}

func (r *Result) Size() int {
	return consts.IDLen + consts.Uint64Len + consts.BoolLen + codec.BytesLen(r.Error) + codec.BytesLen(r.Output)
}

func (r *Result) Marshal(p *codec.Packer) {
	p.PackID(r.TxID)
	p.PackUint64(r.Height)
	p.PackBool(r.Success)
	p.PackBytes(r.Error)
	p.PackBytes(r.Output)
}

func UnmarshalResult(p *codec.Packer) (*Result, error) {
	result := &Result{}
	p.UnpackID(false, &result.TxID)
	result.Height = p.UnpackUint64(false)
	result.Success = p.UnpackBool()
	p.UnpackBytes(consts.NetworkSizeLimit, false, &result.Error)
	p.UnpackBytes(consts.NetworkSizeLimit, false, &result.Output)
	if len(result.Error) == 0 {
		result.Error = nil
	}
	if len(result.Output) == 0 {
		result.Output = nil
	}
	return result, p.Err()
}

// ParseResult decodes a single result and rejects trailing bytes.
func ParseResult(b []byte) (*Result, error) {
	p := codec.NewReader(b, consts.MaxInt)
	r, err := UnmarshalResult(p)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	return r, nil
}

func (r *Result) Bytes() ([]byte, error) {
	p := codec.NewWriter(r.Size(), consts.MaxInt)
	r.Marshal(p)
	return p.Bytes(), p.Err()
}

// MarshalOutput writes [o] behind its type ID.
func MarshalOutput(o Output) ([]byte, error) {
	p := codec.NewWriter(consts.ByteLen+o.Size(), consts.NetworkSizeLimit)
	p.PackByte(o.GetTypeID())
	o.Marshal(p)
	return p.Bytes(), p.Err()
}

// ParseOutput decodes the [Output] of a successful result.
func ParseOutput(b []byte, registry Registry) (Output, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	o, err := registry.OutputRegistry().Unmarshal(p)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	return o, nil
}
