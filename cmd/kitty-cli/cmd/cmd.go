// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akamensky/argparse"

	"github.com/ava-labs/kittyvm/cli"
	"github.com/ava-labs/kittyvm/cli/prompt"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
)

const (
	name        = "kitty-cli"
	description = "Manages keys and kitties on a kitty registry node"

	defaultDatabase = ".kitty-cli"
)

// Cmd is a single command of the client. Exactly one command runs per
// invocation.
type Cmd interface {
	New(parser *argparse.Parser)
	Run(ctx context.Context, h *cli.Handler) error
	Happened() bool
}

func defaultDatabasePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultDatabase
	}
	return filepath.Join(homeDir, defaultDatabase)
}

func newParser() (*argparse.Parser, *string, []Cmd) {
	parser := argparse.NewParser(name, description)
	dbPath := parser.String("", "db", &argparse.Options{
		Help:    "path to the wallet database",
		Default: defaultDatabasePath(),
	})
	cmds := []Cmd{
		&keyGenerateCmd{},
		&keyImportCmd{},
		&keyExportCmd{},
		&keySetCmd{},
		&balanceCmd{},
		&endpointAddCmd{},
		&endpointSetCmd{},
		&endpointListCmd{},
		&endpointClearCmd{},
		&networkCmd{},
		&createCmd{},
		&breedCmd{},
		&transferCmd{},
		&buyCmd{},
		&sellCmd{},
		&kittyCmd{},
		&kittiesCmd{},
		&spamCmd{},
		&prometheusCmd{},
		&shellCmd{},
	}
	for _, c := range cmds {
		c.New(parser)
	}
	return parser, dbPath, cmds
}

func dispatch(ctx context.Context, h *cli.Handler, cmds []Cmd) error {
	for _, c := range cmds {
		if c.Happened() {
			return c.Run(ctx, h)
		}
	}
	return nil
}

// Execute parses [args], as found in os.Args, and runs the selected command.
func Execute(ctx context.Context, args []string) error {
	parser, dbPath, cmds := newParser()
	if err := parser.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		return err
	}
	h, err := cli.New(*dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = h.CloseDatabase()
	}()
	return dispatch(ctx, h, cmds)
}

func indexArg(raw string, label string) (uint32, error) {
	if len(raw) == 0 {
		return prompt.Index(label)
	}
	return prompt.ParseIndex(raw)
}

func priceArg(raw string, label string) (uint64, error) {
	if len(raw) == 0 {
		return prompt.Amount(label, consts.MaxUint64, nil)
	}
	return prompt.ParseAmount(raw, consts.MaxUint64)
}

func addressArg(ctx context.Context, h *cli.Handler, raw string, label string) (codec.Address, error) {
	hrp, err := h.HRP(ctx)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if len(raw) == 0 {
		return prompt.Address(label, hrp)
	}
	return codec.ParseAddressBech32(hrp, raw)
}
