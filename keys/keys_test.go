// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumChunks(t *testing.T) {
	tests := []struct {
		size   int
		chunks uint16
	}{
		{size: 0, chunks: 0},
		{size: 1, chunks: 1},
		{size: 16, chunks: 1},
		{size: 63, chunks: 1},
		{size: 64, chunks: 2},
		{size: 65, chunks: 2},
	}
	for _, tt := range tests {
		chunks, ok := NumChunks(make([]byte, tt.size))
		require.True(t, ok)
		require.Equal(t, tt.chunks, chunks, "size %d", tt.size)
	}
}

func TestVerifyValue(t *testing.T) {
	require := require.New(t)

	key := EncodeChunks([]byte{0x6, 0x1}, 1)
	chunks, ok := MaxChunks(key)
	require.True(ok)
	require.Equal(uint16(1), chunks)

	require.True(VerifyValue(key, make([]byte, 16)))
	require.False(VerifyValue(key, make([]byte, 64)))
	require.False(VerifyValue([]byte{0x1}, []byte{0x1}))
}

func TestEncode(t *testing.T) {
	require := require.New(t)

	key, ok := Encode([]byte("k"), 100)
	require.True(ok)
	require.True(Valid(key))
	chunks, ok := MaxChunks(key)
	require.True(ok)
	require.Equal(uint16(2), chunks)
}
