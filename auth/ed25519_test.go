// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/crypto/ed25519"
)

func TestED25519SignVerify(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	pk, err := GeneratePrivateKey(ED25519Key)
	require.NoError(err)
	factory, err := GetFactory(pk)
	require.NoError(err)
	require.Equal(pk.Address, factory.Address())

	msg := []byte("create kitty")
	a, err := factory.Sign(msg)
	require.NoError(err)
	require.Equal(pk.Address, a.Actor())
	require.NoError(a.Verify(ctx, msg))
	require.ErrorIs(a.Verify(ctx, []byte("other")), ed25519.ErrInvalidSignature)

	parser := codec.NewTypeParser[chain.Auth]()
	require.NoError(Register(parser))
	p := codec.NewWriter(consts.ByteLen+a.Size(), consts.NetworkSizeLimit)
	p.PackByte(a.GetTypeID())
	a.Marshal(p)
	require.NoError(p.Err())

	parsed, err := parser.Unmarshal(codec.NewReader(p.Bytes(), consts.NetworkSizeLimit))
	require.NoError(err)
	require.Equal(a.Actor(), parsed.Actor())
	require.NoError(parsed.Verify(ctx, msg))
}

func TestLoadPrivateKey(t *testing.T) {
	require := require.New(t)

	pk, err := GeneratePrivateKey(ED25519Key)
	require.NoError(err)
	loaded, err := LoadPrivateKey(ED25519Key, pk.Bytes)
	require.NoError(err)
	require.Equal(pk.Address, loaded.Address)

	_, err = LoadPrivateKey(ED25519Key, pk.Bytes[1:])
	require.ErrorIs(err, ErrInvalidPrivateKeySize)
	_, err = LoadPrivateKey("bls", pk.Bytes)
	require.ErrorIs(err, ErrInvalidKeyType)
	_, err = GeneratePrivateKey("bls")
	require.ErrorIs(err, ErrInvalidKeyType)
}

func TestED25519Engine(t *testing.T) {
	require := require.New(t)

	engine := Engines()[ED25519ID]
	_, ok := engine.GetBatchVerifier(ed25519.MinBatchSize - 1)
	require.False(ok)

	bv, ok := engine.GetBatchVerifier(ed25519.MinBatchSize)
	require.True(ok)
	msg := []byte("breed")
	for i := 0; i < ed25519.MinBatchSize; i++ {
		pk, err := GeneratePrivateKey(ED25519Key)
		require.NoError(err)
		factory, err := GetFactory(pk)
		require.NoError(err)
		a, err := factory.Sign(msg)
		require.NoError(err)
		bv.Add(msg, a)
	}
	require.NoError(bv.Verify())
}
