// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/akamensky/argparse"

	"github.com/ava-labs/kittyvm/cli"
)

var (
	_ Cmd = (*keyGenerateCmd)(nil)
	_ Cmd = (*keyImportCmd)(nil)
	_ Cmd = (*keyExportCmd)(nil)
	_ Cmd = (*keySetCmd)(nil)
	_ Cmd = (*balanceCmd)(nil)
)

type keyGenerateCmd struct {
	cmd *argparse.Command
}

func (c *keyGenerateCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("key-generate", "Creates a new ed25519 key and sets it as default")
}

func (*keyGenerateCmd) Run(_ context.Context, h *cli.Handler) error {
	_, err := h.GenerateKey()
	return err
}

func (c *keyGenerateCmd) Happened() bool {
	return c.cmd.Happened()
}

type keyImportCmd struct {
	cmd  *argparse.Command
	path *string
}

func (c *keyImportCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("key-import", "Imports a hex encoded ed25519 key and sets it as default")
	c.path = c.cmd.String("p", "path", &argparse.Options{
		Help:     "file holding the key",
		Required: true,
	})
}

func (c *keyImportCmd) Run(_ context.Context, h *cli.Handler) error {
	_, err := h.ImportKey(*c.path)
	return err
}

func (c *keyImportCmd) Happened() bool {
	return c.cmd.Happened()
}

type keyExportCmd struct {
	cmd  *argparse.Command
	path *string
}

func (c *keyExportCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("key-export", "Writes the default key to a file")
	c.path = c.cmd.String("p", "path", &argparse.Options{
		Help:     "file to write the key to",
		Required: true,
	})
}

func (c *keyExportCmd) Run(_ context.Context, h *cli.Handler) error {
	return h.ExportKey(*c.path)
}

func (c *keyExportCmd) Happened() bool {
	return c.cmd.Happened()
}

type keySetCmd struct {
	cmd *argparse.Command
}

func (c *keySetCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("key-set", "Chooses the default key among the stored ones")
}

func (*keySetCmd) Run(ctx context.Context, h *cli.Handler) error {
	return h.SetKey(ctx)
}

func (c *keySetCmd) Happened() bool {
	return c.cmd.Happened()
}

type balanceCmd struct {
	cmd     *argparse.Command
	address *string
}

func (c *balanceCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("balance", "Prints the free and reserved balance of an address")
	c.address = c.cmd.String("a", "address", &argparse.Options{
		Help: "bech32 address, defaults to the default key",
	})
}

func (c *balanceCmd) Run(ctx context.Context, h *cli.Handler) error {
	return h.Balance(ctx, *c.address)
}

func (c *balanceCmd) Happened() bool {
	return c.cmd.Happened()
}
