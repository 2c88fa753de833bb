// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/requester"
	"github.com/ava-labs/kittyvm/utils"
	"github.com/ava-labs/kittyvm/vm"
)

// clockSkewAllowance keeps generated expiries inside the node's validity
// window when the local clock runs ahead of it.
const clockSkewAllowance = 5 * time.Second

type JSONRPCClient struct {
	requester *requester.EndpointRequester
	registry  chain.Registry

	networkL sync.Mutex
	network  *NetworkReply
}

func NewJSONRPCClient(uri string, registry chain.Registry) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	req := requester.New(uri, Name)
	return &JSONRPCClient{requester: req, registry: registry}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		struct{}{},
		resp,
	)
	return resp.Success, err
}

// Network returns the chain parameters of the node. The first successful
// reply is cached.
func (cli *JSONRPCClient) Network(ctx context.Context) (*NetworkReply, error) {
	cli.networkL.Lock()
	defer cli.networkL.Unlock()

	if cli.network != nil {
		return cli.network, nil
	}
	resp := new(NetworkReply)
	if err := cli.requester.SendRequest(
		ctx,
		"network",
		struct{}{},
		resp,
	); err != nil {
		return nil, err
	}
	cli.network = resp
	return resp, nil
}

func (cli *JSONRPCClient) Accepted(ctx context.Context) (ids.ID, uint64, int64, error) {
	resp := new(LastAcceptedReply)
	err := cli.requester.SendRequest(
		ctx,
		"lastAccepted",
		struct{}{},
		resp,
	)
	return resp.BlockID, resp.Height, resp.Timestamp, err
}

func (cli *JSONRPCClient) SubmitTx(ctx context.Context, d []byte) (ids.ID, error) {
	resp := new(SubmitTxReply)
	err := cli.requester.SendRequest(
		ctx,
		"submitTx",
		&SubmitTxArgs{Tx: d},
		resp,
	)
	return resp.TxID, err
}

// TxResult returns false if [txID] has not been included in a block.
func (cli *JSONRPCClient) TxResult(ctx context.Context, txID ids.ID) (*chain.Result, bool, error) {
	resp := new(TxResultReply)
	err := cli.requester.SendRequest(
		ctx,
		"txResult",
		&TxResultArgs{TxID: txID},
		resp,
	)
	if err != nil {
		return nil, false, err
	}
	if resp.Found && resp.Result == nil {
		return nil, false, fmt.Errorf("%w: %s", errUnknownTxResult, txID)
	}
	return resp.Result, resp.Found, nil
}

func (cli *JSONRPCClient) Kitty(ctx context.Context, index uint32) (*vm.Kitty, error) {
	resp := new(KittyReply)
	err := cli.requester.SendRequest(
		ctx,
		"kitty",
		&KittyArgs{Index: index},
		resp,
	)
	return resp.Kitty, err
}

func (cli *JSONRPCClient) KittiesCount(ctx context.Context) (uint32, error) {
	resp := new(KittiesCountReply)
	err := cli.requester.SendRequest(
		ctx,
		"kittiesCount",
		struct{}{},
		resp,
	)
	return resp.Count, err
}

// Balance returns the free and reserved balance of the bech32 [addr].
func (cli *JSONRPCClient) Balance(ctx context.Context, addr string) (uint64, uint64, error) {
	resp := new(BalanceReply)
	err := cli.requester.SendRequest(
		ctx,
		"balance",
		&BalanceArgs{Address: addr},
		resp,
	)
	return resp.Free, resp.Reserved, err
}

// GenerateTransaction signs [action] for [authFactory] with the furthest
// expiry the node accepts. The returned function submits the transaction.
func (cli *JSONRPCClient) GenerateTransaction(
	ctx context.Context,
	action chain.Action,
	authFactory chain.AuthFactory,
) (func(context.Context) error, *chain.Transaction, error) {
	network, err := cli.Network(ctx)
	if err != nil {
		return nil, nil, err
	}
	now := time.Now().Add(-clockSkewAllowance).UnixMilli()
	base := &chain.Base{
		Timestamp: utils.UnixRMilli(now, network.ValidityWindow),
		ChainID:   network.ChainID,
		Nonce:     rand.Uint64(), //nolint:gosec
	}
	tx, err := chain.NewTx(base, action).Sign(authFactory, cli.registry)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to sign transaction", err)
	}
	return func(ictx context.Context) error {
		_, err := cli.SubmitTx(ictx, tx.Bytes())
		return err
	}, tx, nil
}

// WaitForTx polls the node until [txID] is included in a block and returns
// its result.
func (cli *JSONRPCClient) WaitForTx(ctx context.Context, txID ids.ID) (*chain.Result, error) {
	var result *chain.Result
	if err := Wait(ctx, func(ctx context.Context) (bool, error) {
		r, found, err := cli.TxResult(ctx, txID)
		if err != nil {
			return false, err
		}
		result = r
		return found, nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// Output decodes the output of a successful [result].
func (cli *JSONRPCClient) Output(result *chain.Result) (chain.Output, error) {
	return chain.ParseOutput(result.Output, cli.registry)
}

// Address renders [addr] with the node's HRP.
func (cli *JSONRPCClient) Address(ctx context.Context, addr codec.Address) (string, error) {
	network, err := cli.Network(ctx)
	if err != nil {
		return "", err
	}
	return codec.AddressBech32(network.HRP, addr)
}

func Wait(ctx context.Context, check func(ctx context.Context) (bool, error)) error {
	for ctx.Err() == nil {
		exit, err := check(ctx)
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
		time.Sleep(waitSleep)
	}
	return ctx.Err()
}
