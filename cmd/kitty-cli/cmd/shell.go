// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"slices"

	"github.com/akamensky/argparse"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-shellwords"

	"github.com/ava-labs/kittyvm/cli"
	"github.com/ava-labs/kittyvm/utils"
)

var (
	_ Cmd = (*shellCmd)(nil)

	errNotInShell = errors.New("command is not available in the shell")
)

// shellCmd reads commands line by line against one open wallet.
type shellCmd struct {
	cmd *argparse.Command
}

func (c *shellCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("shell", "Runs commands interactively, type exit to leave")
}

func (c *shellCmd) Happened() bool {
	return c.cmd.Happened()
}

func (*shellCmd) Run(ctx context.Context, h *cli.Handler) error {
	for ctx.Err() == nil {
		p := promptui.Prompt{Label: name}
		line, err := p.Run()
		switch {
		case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
			return nil
		case err != nil:
			return err
		}
		words, err := splitLine(line)
		if err != nil {
			utils.Outf("{{red}}invalid command:{{/}} %v\n", err)
			continue
		}
		if len(words) == 0 {
			continue
		}
		if words[0] == "exit" || words[0] == "quit" {
			return nil
		}
		if err := runLine(ctx, h, words); err != nil {
			utils.Outf("{{red}}error:{{/}} %v\n", err)
		}
	}
	return ctx.Err()
}

// splitLine tokenizes [line] with shell quoting rules.
func splitLine(line string) ([]string, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = true
	return parser.Parse(line)
}

func wantsHelp(words []string) bool {
	return slices.Contains(words, "-h") || slices.Contains(words, "--help") || words[0] == "help"
}

// runLine executes one shell line. Help is printed here because the parser
// exits the process on -h.
func runLine(ctx context.Context, h *cli.Handler, words []string) error {
	parser, _, cmds := newParser()
	if wantsHelp(words) {
		utils.Outf("%s", parser.Usage(nil))
		return nil
	}
	if err := parser.Parse(append([]string{name}, words...)); err != nil {
		return err
	}
	for _, c := range cmds {
		if !c.Happened() {
			continue
		}
		switch c.(type) {
		case *shellCmd, *prometheusCmd:
			return errNotInShell
		}
		return c.Run(ctx, h)
	}
	return nil
}
