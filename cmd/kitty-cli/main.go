// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "kitty-cli" manages keys and kitties against a kittyvm node.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ava-labs/kittyvm/cmd/kitty-cli/cmd"
	"github.com/ava-labs/kittyvm/utils"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.Execute(ctx, os.Args)
	cancel()
	if err != nil {
		utils.Outf("{{red}}kitty-cli exited with error:{{/}} %+v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
