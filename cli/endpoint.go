// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"errors"

	"github.com/ava-labs/kittyvm/cli/prompt"
	"github.com/ava-labs/kittyvm/rpc"
	"github.com/ava-labs/kittyvm/utils"
)

// AddEndpoint checks that [uri] answers and stores it. The first endpoint,
// or any endpoint added with [setDefault], becomes the default.
func (h *Handler) AddEndpoint(ctx context.Context, uri string, setDefault bool) error {
	cli := rpc.NewJSONRPCClient(uri, h.registry)
	network, err := cli.Network(ctx)
	if err != nil {
		return err
	}
	if err := h.StoreEndpoint(uri); err != nil {
		return err
	}
	_, err = h.GetDefaultEndpoint(false)
	switch {
	case errors.Is(err, ErrNoEndpoints):
		setDefault = true
	case err != nil:
		return err
	}
	utils.Outf(
		"{{green}}stored endpoint:{{/}} %s {{green}}chainID:{{/}} %s\n",
		uri,
		network.ChainID,
	)
	if !setDefault {
		return nil
	}
	return h.StoreDefaultEndpoint(uri)
}

// SetEndpoint prompts for one of the stored endpoints and makes it the
// default.
func (h *Handler) SetEndpoint() error {
	uris, err := h.ListEndpoints()
	if err != nil {
		return err
	}
	if len(uris) == 0 {
		return ErrNoEndpoints
	}
	index, err := prompt.Choice("set default endpoint", len(uris))
	if err != nil {
		return err
	}
	return h.StoreDefaultEndpoint(uris[index])
}

// ListEndpoints prints the stored endpoints in the order a choice refers to
// them.
func (h *Handler) ListEndpoints() ([]string, error) {
	uris, err := h.GetEndpoints()
	if err != nil {
		return nil, err
	}
	def, err := h.GetDefaultEndpoint(false)
	if err != nil && !errors.Is(err, ErrNoEndpoints) {
		return nil, err
	}
	utils.Outf("{{cyan}}stored endpoints:{{/}} %d\n", len(uris))
	for i, uri := range uris {
		marker := ""
		if uri == def {
			marker = " {{yellow}}[default]{{/}}"
		}
		utils.Outf("%d) %s"+marker+"\n", i, uri)
	}
	return uris, nil
}

// HRP returns the address prefix of the chain behind the default endpoint.
func (h *Handler) HRP(ctx context.Context) (string, error) {
	if _, _, err := h.Client(ctx, false); err != nil {
		return "", err
	}
	return h.hrp, nil
}
