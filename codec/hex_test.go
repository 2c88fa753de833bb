// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadHex(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectedSize int
		expected     []byte
		expectedErr  error
	}{
		{name: "prefixed", input: "0x0102", expectedSize: 2, expected: []byte{1, 2}},
		{name: "bare", input: "0a0b0c", expectedSize: -1, expected: []byte{10, 11, 12}},
		{name: "wrong size", input: "0102", expectedSize: 3, expectedErr: ErrInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := LoadHex(tt.input, tt.expectedSize)
			require.ErrorIs(t, err, tt.expectedErr)
			require.Equal(t, tt.expected, b)
		})
	}

	_, err := LoadHex("zz", -1)
	require.Error(t, err)
	require.Equal(t, "0102ff", ToHex([]byte{1, 2, 255}))
}
