// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"path/filepath"

	"github.com/akamensky/argparse"

	"github.com/ava-labs/kittyvm/cli"
)

var (
	_ Cmd = (*spamCmd)(nil)
	_ Cmd = (*prometheusCmd)(nil)
)

type spamCmd struct {
	cmd     *argparse.Command
	count   *int
	workers *int
}

func (c *spamCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("spam", "Mints kitties from the default key as fast as the node accepts them")
	c.count = c.cmd.Int("n", "count", &argparse.Options{
		Help:    "number of kitties to mint",
		Default: 100,
	})
	c.workers = c.cmd.Int("w", "workers", &argparse.Options{
		Help:    "number of concurrent connections",
		Default: 4,
	})
}

func (c *spamCmd) Run(ctx context.Context, h *cli.Handler) error {
	_, err := h.Spam(ctx, *c.count, *c.workers)
	return err
}

func (c *spamCmd) Happened() bool {
	return c.cmd.Happened()
}

type prometheusCmd struct {
	cmd             *argparse.Command
	baseURI         *string
	openBrowser     *bool
	startPrometheus *bool
	file            *string
	data            *string
}

func (c *prometheusCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("prometheus", "Writes a scrape config for the stored endpoints and links the kitty dashboard")
	c.baseURI = c.cmd.String("", "base-uri", &argparse.Options{
		Help:    "prometheus URI",
		Default: "http://localhost:9090",
	})
	c.openBrowser = c.cmd.Flag("o", "open-browser", &argparse.Options{
		Help: "open the dashboard in a browser",
	})
	c.startPrometheus = c.cmd.Flag("s", "start-prometheus", &argparse.Options{
		Help: "run /tmp/prometheus with the generated config",
	})
	c.file = c.cmd.String("f", "prometheus-file", &argparse.Options{
		Help:    "where to write the scrape config",
		Default: filepath.Join("/tmp", "prometheus.yaml"),
	})
	c.data = c.cmd.String("", "prometheus-data", &argparse.Options{
		Help:    "prometheus storage directory",
		Default: filepath.Join("/tmp", "prometheus-data"),
	})
}

func (c *prometheusCmd) Run(ctx context.Context, h *cli.Handler) error {
	return h.GeneratePrometheus(ctx, *c.baseURI, *c.openBrowser, *c.startPrometheus, *c.file, *c.data)
}

func (c *prometheusCmd) Happened() bool {
	return c.cmd.Happened()
}
