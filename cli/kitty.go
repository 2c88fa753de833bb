// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ava-labs/kittyvm/actions"
	"github.com/ava-labs/kittyvm/auth"
	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/rpc"
	"github.com/ava-labs/kittyvm/utils"
)

const (
	wsHandshakeTimeout = 10 * time.Second
	wsPending          = 128
)

// Client returns a JSON-RPC client for the default endpoint and adopts the
// HRP of its chain for rendering addresses.
func (h *Handler) Client(ctx context.Context, log bool) (*rpc.JSONRPCClient, string, error) {
	uri, err := h.GetDefaultEndpoint(log)
	if err != nil {
		return nil, "", err
	}
	cli := rpc.NewJSONRPCClient(uri, h.registry)
	network, err := cli.Network(ctx)
	if err != nil {
		return nil, "", err
	}
	h.hrp = network.HRP
	return cli, uri, nil
}

// Network prints the parameters of the chain behind the default endpoint.
func (h *Handler) Network(ctx context.Context) error {
	cli, _, err := h.Client(ctx, true)
	if err != nil {
		return err
	}
	network, err := cli.Network(ctx)
	if err != nil {
		return err
	}
	_, height, timestamp, err := cli.Accepted(ctx)
	if err != nil {
		return err
	}
	utils.Outf(
		"{{cyan}}chainID:{{/}} %s {{cyan}}hrp:{{/}} %s {{cyan}}validity window:{{/}} %dms\n",
		network.ChainID,
		network.HRP,
		network.ValidityWindow,
	)
	utils.Outf(
		"{{cyan}}kitty deposit:{{/}} %d {{cyan}}existential deposit:{{/}} %d\n",
		network.KittyDeposit,
		network.ExistentialDeposit,
	)
	utils.Outf("{{cyan}}height:{{/}} %d {{cyan}}timestamp:{{/}} %d\n", height, timestamp)
	return nil
}

// sendAndWait signs [action] with the default key, submits it over the
// websocket of the default endpoint and blocks until it is included.
func (h *Handler) sendAndWait(ctx context.Context, action chain.Action) (chain.Output, error) {
	cli, uri, err := h.Client(ctx, true)
	if err != nil {
		return nil, err
	}
	priv, err := h.GetDefaultKey(true)
	if err != nil {
		return nil, err
	}
	factory, err := auth.GetFactory(priv)
	if err != nil {
		return nil, err
	}
	ws, err := rpc.NewWebSocketClient(uri, wsHandshakeTimeout, wsPending, consts.NetworkSizeLimit)
	if err != nil {
		return nil, err
	}
	defer ws.Close()

	_, tx, err := cli.GenerateTransaction(ctx, action, factory)
	if err != nil {
		return nil, err
	}
	if err := ws.RegisterTx(tx); err != nil {
		return nil, err
	}
	status, err := ws.ListenTx(ctx)
	if err != nil {
		return nil, err
	}
	if err := status.Err(); err != nil {
		utils.Outf("{{red}}transaction rejected:{{/}} %s {{red}}reason:{{/}} %s\n", tx.ID(), status.Reason)
		return nil, err
	}
	result := status.Result
	if !result.Success {
		utils.Outf("{{red}}transaction failed:{{/}} %s {{red}}reason:{{/}} %s\n", tx.ID(), result.Error)
		return nil, fmt.Errorf("%w: %s", ErrTxFailed, result.Error)
	}
	utils.Outf("{{green}}transaction succeeded:{{/}} %s {{green}}height:{{/}} %d\n", tx.ID(), result.Height)
	return cli.Output(result)
}

// CreateKitty mints a kitty owned by the default key.
func (h *Handler) CreateKitty(ctx context.Context) (uint32, error) {
	output, err := h.sendAndWait(ctx, &actions.CreateKitty{})
	if err != nil {
		return 0, err
	}
	return h.printCreated(output)
}

// BreedKitty mints the child of two kitties owned by the default key.
func (h *Handler) BreedKitty(ctx context.Context, parent1, parent2 uint32) (uint32, error) {
	output, err := h.sendAndWait(ctx, &actions.BreedKitty{
		Parent1: parent1,
		Parent2: parent2,
	})
	if err != nil {
		return 0, err
	}
	return h.printCreated(output)
}

func (h *Handler) printCreated(output chain.Output) (uint32, error) {
	created, ok := output.(*actions.KittyCreated)
	if !ok {
		return 0, fmt.Errorf("%w: %T", ErrUnexpectedOutput, output)
	}
	utils.Outf(
		"{{green}}kitty:{{/}} %d {{green}}owner:{{/}} %s\n",
		created.KittyIndex,
		h.Address(created.Owner),
	)
	return created.KittyIndex, nil
}

func (h *Handler) TransferKitty(ctx context.Context, to codec.Address, index uint32) error {
	output, err := h.sendAndWait(ctx, &actions.TransferKitty{
		To:         to,
		KittyIndex: index,
	})
	if err != nil {
		return err
	}
	transferred, ok := output.(*actions.KittyTransferred)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnexpectedOutput, output)
	}
	utils.Outf(
		"{{green}}kitty:{{/}} %d {{green}}from:{{/}} %s {{green}}to:{{/}} %s\n",
		transferred.KittyIndex,
		h.Address(transferred.From),
		h.Address(transferred.To),
	)
	return nil
}

// BuyKitty purchases [index] from its owner for at most [price].
func (h *Handler) BuyKitty(ctx context.Context, index uint32, price uint64) error {
	output, err := h.sendAndWait(ctx, &actions.BuyKitty{
		KittyIndex: index,
		Price:      price,
	})
	if err != nil {
		return err
	}
	bought, ok := output.(*actions.KittyBought)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnexpectedOutput, output)
	}
	h.printTrade(bought.KittyIndex, bought.Seller, bought.Buyer, bought.Price)
	return nil
}

// SellKitty sells [index] to [buyer] for [price].
func (h *Handler) SellKitty(ctx context.Context, index uint32, buyer codec.Address, price uint64) error {
	output, err := h.sendAndWait(ctx, &actions.SellKitty{
		KittyIndex: index,
		Buyer:      buyer,
		Price:      price,
	})
	if err != nil {
		return err
	}
	sold, ok := output.(*actions.KittySold)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnexpectedOutput, output)
	}
	h.printTrade(sold.KittyIndex, sold.Seller, sold.Buyer, sold.Price)
	return nil
}

func (h *Handler) printTrade(index uint32, seller, buyer codec.Address, price uint64) {
	utils.Outf(
		"{{green}}kitty:{{/}} %d {{green}}seller:{{/}} %s {{green}}buyer:{{/}} %s {{green}}price:{{/}} %d\n",
		index,
		h.Address(seller),
		h.Address(buyer),
		price,
	)
}

// Kitty prints the DNA, owner and deposit of [index].
func (h *Handler) Kitty(ctx context.Context, index uint32) error {
	cli, _, err := h.Client(ctx, true)
	if err != nil {
		return err
	}
	kitty, err := cli.Kitty(ctx, index)
	if err != nil {
		return err
	}
	utils.Outf(
		"{{cyan}}kitty:{{/}} %d {{cyan}}dna:{{/}} %s {{cyan}}owner:{{/}} %s\n",
		kitty.Index,
		kitty.DNA,
		h.Address(kitty.Owner),
	)
	if kitty.Deposit != nil {
		utils.Outf(
			"{{cyan}}deposit:{{/}} %d {{cyan}}held by:{{/}} %s\n",
			kitty.Deposit.Amount,
			h.Address(kitty.Deposit.Depositor),
		)
	}
	return nil
}

// Kitties prints how many kitties exist.
func (h *Handler) Kitties(ctx context.Context) error {
	cli, _, err := h.Client(ctx, true)
	if err != nil {
		return err
	}
	count, err := cli.KittiesCount(ctx)
	if err != nil {
		return err
	}
	utils.Outf("{{cyan}}kitties:{{/}} %d\n", count)
	return nil
}
