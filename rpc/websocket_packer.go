// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
)

// Every websocket message starts with its mode.
//
// A client sends [ResultMode] alone to subscribe to the result of every
// accepted transaction, and [TxMode] followed by a signed transaction to
// submit it. The node answers a submission with a single [TxMode] message
// once the transaction is accepted, rejected or expired.
const (
	ResultMode byte = 0
	TxMode     byte = 1
)

// TxStatus is the answer to a transaction submitted over the websocket.
// Exactly one of [Result] and [Reason] is set.
type TxStatus struct {
	TxID   ids.ID
	Result *chain.Result
	Reason string
}

// Err wraps [Reason] in [ErrTxRejected], or returns nil if the transaction
// was accepted.
func (s *TxStatus) Err() error {
	if s.Result != nil {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrTxRejected, s.Reason)
}

func PackResultMessage(r *chain.Result) ([]byte, error) {
	b, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	return append([]byte{ResultMode}, b...), nil
}

// PackTxMessage packs the accepted [result] of [txID], or the [reason] it
// was dropped when [result] is nil.
func PackTxMessage(txID ids.ID, result *chain.Result, reason error) ([]byte, error) {
	var body []byte
	if result != nil {
		b, err := result.Bytes()
		if err != nil {
			return nil, err
		}
		body = b
	} else {
		body = []byte(reason.Error())
	}
	p := codec.NewWriter(consts.ByteLen+consts.IDLen+consts.BoolLen+codec.BytesLen(body), consts.NetworkSizeLimit)
	p.PackByte(TxMode)
	p.PackID(txID)
	p.PackBool(result != nil)
	p.PackBytes(body)
	return p.Bytes(), p.Err()
}

func UnpackTxMessage(msg []byte) (*TxStatus, error) {
	p := codec.NewReader(msg, consts.NetworkSizeLimit)
	if mode := p.UnpackByte(); mode != TxMode {
		return nil, ErrUnexpectedMode
	}
	var (
		status TxStatus
		body   []byte
	)
	p.UnpackID(false, &status.TxID)
	accepted := p.UnpackBool()
	p.UnpackBytes(consts.NetworkSizeLimit, true, &body)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	if !accepted {
		status.Reason = string(body)
		return &status, nil
	}
	result, err := chain.ParseResult(body)
	if err != nil {
		return nil, err
	}
	status.Result = result
	return &status, nil
}

func UnpackResultMessage(msg []byte) (*chain.Result, error) {
	if len(msg) == 0 || msg[0] != ResultMode {
		return nil, ErrUnexpectedMode
	}
	return chain.ParseResult(msg[1:])
}
