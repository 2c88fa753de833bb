// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/akamensky/argparse"

	"github.com/ava-labs/kittyvm/cli"
	"github.com/ava-labs/kittyvm/utils"
)

var (
	_ Cmd = (*endpointAddCmd)(nil)
	_ Cmd = (*endpointSetCmd)(nil)
	_ Cmd = (*endpointListCmd)(nil)
	_ Cmd = (*endpointClearCmd)(nil)
	_ Cmd = (*networkCmd)(nil)
)

type endpointAddCmd struct {
	cmd        *argparse.Command
	uri        *string
	setDefault *bool
}

func (c *endpointAddCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("endpoint-add", "Stores the URI of a node, e.g. http://127.0.0.1:9650/ext/kittyvm")
	c.uri = c.cmd.String("u", "uri", &argparse.Options{
		Help:     "node URI",
		Required: true,
	})
	c.setDefault = c.cmd.Flag("d", "default", &argparse.Options{
		Help: "make the endpoint the default",
	})
}

func (c *endpointAddCmd) Run(ctx context.Context, h *cli.Handler) error {
	return h.AddEndpoint(ctx, *c.uri, *c.setDefault)
}

func (c *endpointAddCmd) Happened() bool {
	return c.cmd.Happened()
}

type endpointSetCmd struct {
	cmd *argparse.Command
}

func (c *endpointSetCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("endpoint-set", "Chooses the default endpoint among the stored ones")
}

func (*endpointSetCmd) Run(_ context.Context, h *cli.Handler) error {
	return h.SetEndpoint()
}

func (c *endpointSetCmd) Happened() bool {
	return c.cmd.Happened()
}

type endpointListCmd struct {
	cmd *argparse.Command
}

func (c *endpointListCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("endpoint-list", "Prints the stored endpoints")
}

func (*endpointListCmd) Run(_ context.Context, h *cli.Handler) error {
	_, err := h.ListEndpoints()
	return err
}

func (c *endpointListCmd) Happened() bool {
	return c.cmd.Happened()
}

type endpointClearCmd struct {
	cmd *argparse.Command
}

func (c *endpointClearCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("endpoint-clear", "Forgets every stored endpoint")
}

func (*endpointClearCmd) Run(_ context.Context, h *cli.Handler) error {
	uris, err := h.DeleteEndpoints()
	if err != nil {
		return err
	}
	for _, uri := range uris {
		utils.Outf("{{yellow}}deleted endpoint:{{/}} %s\n", uri)
	}
	return nil
}

func (c *endpointClearCmd) Happened() bool {
	return c.cmd.Happened()
}

type networkCmd struct {
	cmd *argparse.Command
}

func (c *networkCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("network", "Prints the parameters of the default endpoint's chain")
}

func (*networkCmd) Run(ctx context.Context, h *cli.Handler) error {
	return h.Network(ctx)
}

func (c *networkCmd) Happened() bool {
	return c.cmd.Happened()
}
