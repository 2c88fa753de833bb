// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittyvm/auth"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := New(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, h.CloseDatabase())
	})
	return h
}

func TestStoreKeys(t *testing.T) {
	require := require.New(t)
	h := newTestHandler(t)

	_, err := h.GetDefaultKey(false)
	require.ErrorIs(err, ErrNoKeys)

	priv1, err := auth.GeneratePrivateKey(auth.ED25519Key)
	require.NoError(err)
	priv2, err := auth.GeneratePrivateKey(auth.ED25519Key)
	require.NoError(err)

	require.NoError(h.StoreKey(priv1))
	require.ErrorIs(h.StoreKey(priv1), ErrDuplicate)
	require.NoError(h.StoreKey(priv2))

	got, err := h.GetKey(priv1.Address)
	require.NoError(err)
	require.Equal(priv1, got)

	unknown, err := auth.GeneratePrivateKey(auth.ED25519Key)
	require.NoError(err)
	got, err = h.GetKey(unknown.Address)
	require.NoError(err)
	require.Nil(got)

	keys, err := h.GetKeys()
	require.NoError(err)
	require.ElementsMatch([]*auth.PrivateKey{priv1, priv2}, keys)

	require.NoError(h.StoreDefaultKey(priv2.Address))
	got, err = h.GetDefaultKey(true)
	require.NoError(err)
	require.Equal(priv2, got)

	// A default that no longer resolves to a stored key is treated as unset.
	require.NoError(h.StoreDefaultKey(unknown.Address))
	_, err = h.GetDefaultKey(false)
	require.ErrorIs(err, ErrNoKeys)
}

func TestStoreEndpoints(t *testing.T) {
	require := require.New(t)
	h := newTestHandler(t)

	_, err := h.GetDefaultEndpoint(false)
	require.ErrorIs(err, ErrNoEndpoints)

	require.NoError(h.StoreEndpoint("http://127.0.0.1:9650/ext/kittyvm"))
	require.NoError(h.StoreEndpoint("http://127.0.0.1:9652/ext/kittyvm"))
	require.ErrorIs(h.StoreEndpoint("http://127.0.0.1:9650/ext/kittyvm"), ErrDuplicate)

	uris, err := h.GetEndpoints()
	require.NoError(err)
	require.ElementsMatch([]string{
		"http://127.0.0.1:9650/ext/kittyvm",
		"http://127.0.0.1:9652/ext/kittyvm",
	}, uris)

	require.NoError(h.StoreDefaultEndpoint("http://127.0.0.1:9652/ext/kittyvm"))
	uri, err := h.GetDefaultEndpoint(true)
	require.NoError(err)
	require.Equal("http://127.0.0.1:9652/ext/kittyvm", uri)

	deleted, err := h.DeleteEndpoints()
	require.NoError(err)
	require.Len(deleted, 2)

	uris, err = h.GetEndpoints()
	require.NoError(err)
	require.Empty(uris)
	_, err = h.GetDefaultEndpoint(false)
	require.ErrorIs(err, ErrNoEndpoints)
}

func TestImportExportKey(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "key.hex")

	h1 := newTestHandler(t)
	priv, err := h1.GenerateKey()
	require.NoError(err)
	require.NoError(h1.ExportKey(path))

	h2 := newTestHandler(t)
	imported, err := h2.ImportKey(path)
	require.NoError(err)
	require.Equal(priv.Address, imported.Address)
	require.Equal(priv.Bytes, imported.Bytes)

	def, err := h2.GetDefaultKey(false)
	require.NoError(err)
	require.Equal(priv.Address, def.Address)

	_, err = h2.ImportKey(path)
	require.ErrorIs(err, ErrDuplicate)
}

func TestCloseDatabaseTwice(t *testing.T) {
	require := require.New(t)

	h, err := New(filepath.Join(t.TempDir(), "db"))
	require.NoError(err)
	require.NoError(h.CloseDatabase())
	require.NoError(h.CloseDatabase())
}
