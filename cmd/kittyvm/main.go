// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "kittyvm" runs a single node serving the kitty registry over JSON-RPC and
// websockets.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akamensky/argparse"

	"github.com/ava-labs/kittyvm/config"
	"github.com/ava-labs/kittyvm/consts"
)

func main() {
	parser := argparse.NewParser(consts.Name, "Runs a single kitty registry node")
	configFile := parser.String("c", "config", &argparse.Options{
		Help: "path to the YAML config file",
	})
	genesisFile := parser.String("g", "genesis", &argparse.Options{
		Help: "path to the JSON genesis file, overrides the config",
	})
	version := parser.Flag("v", "version", &argparse.Options{
		Help: "print the version and exit",
	})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(1)
	}
	if *version {
		fmt.Printf("%s %s\n", consts.Name, consts.Version)
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if len(*genesisFile) > 0 {
		cfg.GenesisFile = *genesisFile
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
