// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"

	"github.com/ava-labs/kittyvm/auth"
	"github.com/ava-labs/kittyvm/cli/prompt"
	"github.com/ava-labs/kittyvm/crypto/ed25519"
	"github.com/ava-labs/kittyvm/utils"
)

// GenerateKey creates a new ed25519 key and makes it the default.
func (h *Handler) GenerateKey() (*auth.PrivateKey, error) {
	priv, err := auth.GeneratePrivateKey(auth.ED25519Key)
	if err != nil {
		return nil, err
	}
	if err := h.storeAndSetDefault(priv); err != nil {
		return nil, err
	}
	utils.Outf(
		"{{green}}created address:{{/}} %s\n",
		h.Address(priv.Address),
	)
	return priv, nil
}

// ImportKey loads a hex encoded ed25519 key from [path] and makes it the
// default.
func (h *Handler) ImportKey(path string) (*auth.PrivateKey, error) {
	pk, err := ed25519.LoadKey(path)
	if err != nil {
		return nil, err
	}
	priv, err := auth.LoadPrivateKey(auth.ED25519Key, pk[:])
	if err != nil {
		return nil, err
	}
	if err := h.storeAndSetDefault(priv); err != nil {
		return nil, err
	}
	utils.Outf(
		"{{green}}imported address:{{/}} %s\n",
		h.Address(priv.Address),
	)
	return priv, nil
}

// ExportKey writes the default key to [path].
func (h *Handler) ExportKey(path string) error {
	priv, err := h.GetDefaultKey(true)
	if err != nil {
		return err
	}
	if err := ed25519.PrivateKey(priv.Bytes).Save(path); err != nil {
		return err
	}
	utils.Outf("{{green}}exported key to:{{/}} %s\n", path)
	return nil
}

func (h *Handler) storeAndSetDefault(priv *auth.PrivateKey) error {
	if err := h.StoreKey(priv); err != nil {
		return err
	}
	return h.StoreDefaultKey(priv.Address)
}

// SetKey lists the stored keys with their balances on the default endpoint
// and stores the chosen one as default.
func (h *Handler) SetKey(ctx context.Context) error {
	keys, err := h.GetKeys()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		utils.Outf("{{red}}no stored keys{{/}}\n")
		return nil
	}
	cli, _, err := h.Client(ctx, true)
	if err != nil {
		return err
	}
	utils.Outf("{{cyan}}stored keys:{{/}} %d\n", len(keys))
	for i := 0; i < len(keys); i++ {
		addrStr := h.Address(keys[i].Address)
		free, reserved, err := cli.Balance(ctx, addrStr)
		if err != nil {
			return err
		}
		utils.Outf(
			"%d) {{cyan}}address:{{/}} %s {{cyan}}free:{{/}} %d {{cyan}}reserved:{{/}} %d\n",
			i,
			addrStr,
			free,
			reserved,
		)
	}

	// Select key
	keyIndex, err := prompt.Choice("set default key", len(keys))
	if err != nil {
		return err
	}
	key := keys[keyIndex]
	return h.StoreDefaultKey(key.Address)
}

// Balance prints the free and reserved balance of [addr], or of the default
// key when [addr] is empty.
func (h *Handler) Balance(ctx context.Context, addr string) error {
	cli, _, err := h.Client(ctx, true)
	if err != nil {
		return err
	}
	if len(addr) == 0 {
		priv, err := h.GetDefaultKey(false)
		if err != nil {
			return err
		}
		addr = h.Address(priv.Address)
	}
	free, reserved, err := cli.Balance(ctx, addr)
	if err != nil {
		return err
	}
	utils.Outf(
		"{{cyan}}address:{{/}} %s {{cyan}}free:{{/}} %d {{cyan}}reserved:{{/}} %d\n",
		addr,
		free,
		reserved,
	)
	return nil
}
