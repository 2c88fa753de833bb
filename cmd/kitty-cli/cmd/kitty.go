// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/akamensky/argparse"

	"github.com/ava-labs/kittyvm/cli"
)

var (
	_ Cmd = (*createCmd)(nil)
	_ Cmd = (*breedCmd)(nil)
	_ Cmd = (*transferCmd)(nil)
	_ Cmd = (*buyCmd)(nil)
	_ Cmd = (*sellCmd)(nil)
	_ Cmd = (*kittyCmd)(nil)
	_ Cmd = (*kittiesCmd)(nil)
)

// Omitted indices, prices and addresses are prompted for.

type createCmd struct {
	cmd *argparse.Command
}

func (c *createCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("create", "Mints a kitty with random DNA, reserving the kitty deposit")
}

func (*createCmd) Run(ctx context.Context, h *cli.Handler) error {
	_, err := h.CreateKitty(ctx)
	return err
}

func (c *createCmd) Happened() bool {
	return c.cmd.Happened()
}

type breedCmd struct {
	cmd     *argparse.Command
	parent1 *string
	parent2 *string
}

func (c *breedCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("breed", "Mints the child of two kitties")
	c.parent1 = c.cmd.String("", "parent1", &argparse.Options{Help: "index of the first parent"})
	c.parent2 = c.cmd.String("", "parent2", &argparse.Options{Help: "index of the second parent"})
}

func (c *breedCmd) Run(ctx context.Context, h *cli.Handler) error {
	parent1, err := indexArg(*c.parent1, "first parent")
	if err != nil {
		return err
	}
	parent2, err := indexArg(*c.parent2, "second parent")
	if err != nil {
		return err
	}
	_, err = h.BreedKitty(ctx, parent1, parent2)
	return err
}

func (c *breedCmd) Happened() bool {
	return c.cmd.Happened()
}

type transferCmd struct {
	cmd   *argparse.Command
	to    *string
	index *string
}

func (c *transferCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("transfer", "Gives a kitty to another address")
	c.to = c.cmd.String("t", "to", &argparse.Options{Help: "bech32 address of the recipient"})
	c.index = c.cmd.String("i", "index", &argparse.Options{Help: "kitty index"})
}

func (c *transferCmd) Run(ctx context.Context, h *cli.Handler) error {
	to, err := addressArg(ctx, h, *c.to, "recipient")
	if err != nil {
		return err
	}
	index, err := indexArg(*c.index, "kitty")
	if err != nil {
		return err
	}
	return h.TransferKitty(ctx, to, index)
}

func (c *transferCmd) Happened() bool {
	return c.cmd.Happened()
}

type buyCmd struct {
	cmd   *argparse.Command
	index *string
	price *string
}

func (c *buyCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("buy", "Buys a kitty from its owner")
	c.index = c.cmd.String("i", "index", &argparse.Options{Help: "kitty index"})
	c.price = c.cmd.String("p", "price", &argparse.Options{Help: "price paid to the owner"})
}

func (c *buyCmd) Run(ctx context.Context, h *cli.Handler) error {
	index, err := indexArg(*c.index, "kitty")
	if err != nil {
		return err
	}
	price, err := priceArg(*c.price, "price")
	if err != nil {
		return err
	}
	return h.BuyKitty(ctx, index, price)
}

func (c *buyCmd) Happened() bool {
	return c.cmd.Happened()
}

type sellCmd struct {
	cmd   *argparse.Command
	index *string
	buyer *string
	price *string
}

func (c *sellCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("sell", "Sells a kitty to a named buyer")
	c.index = c.cmd.String("i", "index", &argparse.Options{Help: "kitty index"})
	c.buyer = c.cmd.String("b", "buyer", &argparse.Options{Help: "bech32 address of the buyer"})
	c.price = c.cmd.String("p", "price", &argparse.Options{Help: "price paid by the buyer"})
}

func (c *sellCmd) Run(ctx context.Context, h *cli.Handler) error {
	index, err := indexArg(*c.index, "kitty")
	if err != nil {
		return err
	}
	buyer, err := addressArg(ctx, h, *c.buyer, "buyer")
	if err != nil {
		return err
	}
	price, err := priceArg(*c.price, "price")
	if err != nil {
		return err
	}
	return h.SellKitty(ctx, index, buyer, price)
}

func (c *sellCmd) Happened() bool {
	return c.cmd.Happened()
}

type kittyCmd struct {
	cmd   *argparse.Command
	index *string
}

func (c *kittyCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("kitty", "Prints the DNA, owner and deposit of a kitty")
	c.index = c.cmd.String("i", "index", &argparse.Options{Help: "kitty index"})
}

func (c *kittyCmd) Run(ctx context.Context, h *cli.Handler) error {
	index, err := indexArg(*c.index, "kitty")
	if err != nil {
		return err
	}
	return h.Kitty(ctx, index)
}

func (c *kittyCmd) Happened() bool {
	return c.cmd.Happened()
}

type kittiesCmd struct {
	cmd *argparse.Command
}

func (c *kittiesCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("kitties", "Prints how many kitties exist")
}

func (*kittiesCmd) Run(ctx context.Context, h *cli.Handler) error {
	return h.Kitties(ctx)
}

func (c *kittiesCmd) Happened() bool {
	return c.cmd.Happened()
}
