// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/vm"
)

type JSONRPCServer struct {
	vm VM
}

func NewJSONRPCServer(vm VM) *JSONRPCServer {
	return &JSONRPCServer{vm}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.vm.Logger().Info("ping")
	reply.Success = true
	return nil
}

type NetworkReply struct {
	ChainID            ids.ID `json:"chainId"`
	HRP                string `json:"hrp"`
	ValidityWindow     int64  `json:"validityWindow"`
	KittyDeposit       uint64 `json:"kittyDeposit"`
	ExistentialDeposit uint64 `json:"existentialDeposit"`
}

func (j *JSONRPCServer) Network(_ *http.Request, _ *struct{}, reply *NetworkReply) (err error) {
	g := j.vm.Genesis()
	reply.ChainID = g.ChainID
	reply.HRP = g.HRP
	reply.ValidityWindow = g.ValidityWindow
	reply.KittyDeposit = g.KittyDeposit
	reply.ExistentialDeposit = g.ExistentialDeposit
	return nil
}

type SubmitTxArgs struct {
	Tx []byte `json:"tx"`
}

type SubmitTxReply struct {
	TxID ids.ID `json:"txId"`
}

func (j *JSONRPCServer) SubmitTx(
	req *http.Request,
	args *SubmitTxArgs,
	reply *SubmitTxReply,
) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.SubmitTx")
	defer span.End()

	tx, err := chain.ParseTx(args.Tx, j.vm.Registry())
	if err != nil {
		return fmt.Errorf("%w: unable to unmarshal on public service", err)
	}
	reply.TxID = tx.ID()
	return j.vm.Submit(ctx, []*chain.Transaction{tx})[0]
}

type LastAcceptedReply struct {
	Height    uint64 `json:"height"`
	BlockID   ids.ID `json:"blockId"`
	Timestamp int64  `json:"timestamp"`
}

func (j *JSONRPCServer) LastAccepted(_ *http.Request, _ *struct{}, reply *LastAcceptedReply) error {
	blk := j.vm.LastAccepted()
	reply.Height = blk.Height
	reply.BlockID = blk.ID()
	reply.Timestamp = blk.Timestamp
	return nil
}

type TxResultArgs struct {
	TxID ids.ID `json:"txId"`
}

type TxResultReply struct {
	Found  bool          `json:"found"`
	Result *chain.Result `json:"result,omitempty"`
}

func (j *JSONRPCServer) TxResult(req *http.Request, args *TxResultArgs, reply *TxResultReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.TxResult")
	defer span.End()

	result, found, err := j.vm.Result(ctx, args.TxID)
	if err != nil {
		return err
	}
	reply.Found = found
	reply.Result = result
	return nil
}

type KittyArgs struct {
	Index uint32 `json:"index"`
}

type KittyReply struct {
	Kitty *vm.Kitty `json:"kitty"`
}

func (j *JSONRPCServer) Kitty(req *http.Request, args *KittyArgs, reply *KittyReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Kitty")
	defer span.End()

	kitty, err := j.vm.Kitty(ctx, args.Index)
	if err != nil {
		return err
	}
	reply.Kitty = kitty
	return nil
}

type KittiesCountReply struct {
	Count uint32 `json:"count"`
}

func (j *JSONRPCServer) KittiesCount(req *http.Request, _ *struct{}, reply *KittiesCountReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.KittiesCount")
	defer span.End()

	count, err := j.vm.KittiesCount(ctx)
	if err != nil {
		return err
	}
	reply.Count = count
	return nil
}

type BalanceArgs struct {
	Address string `json:"address"`
}

type BalanceReply struct {
	Free     uint64 `json:"free"`
	Reserved uint64 `json:"reserved"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Balance")
	defer span.End()

	addr, err := codec.ParseAddressBech32(j.vm.Genesis().HRP, args.Address)
	if err != nil {
		return err
	}
	free, reserved, err := j.vm.Balance(ctx, addr)
	if err != nil {
		return err
	}
	j.vm.Logger().Debug("balance",
		zap.String("address", args.Address),
		zap.Uint64("free", free),
		zap.Uint64("reserved", reserved),
	)
	reply.Free = free
	reply.Reserved = reserved
	return nil
}
