// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genome

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomDNA(r *rand.Rand) DNA {
	var d DNA
	_, _ = r.Read(d[:])
	return d
}

func TestBreedSelectsBits(t *testing.T) {
	tests := []struct {
		name     string
		a        DNA
		b        DNA
		selector DNA
		expected DNA
	}{
		{
			name:     "all from a",
			a:        DNA{0xAA, 0x01},
			b:        DNA{0x55, 0xFF},
			selector: DNA{0xFF, 0xFF},
			expected: DNA{0xAA, 0x01},
		},
		{
			name:     "all from b",
			a:        DNA{0xAA, 0x01},
			b:        DNA{0x55, 0xFF},
			selector: Empty,
			expected: DNA{0x55, 0xFF},
		},
		{
			name:     "mixed",
			a:        DNA{0b1111_0000},
			b:        DNA{0b0000_1111},
			selector: DNA{0b1010_1010},
			expected: DNA{0b1010_0101},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Breed(tt.a, tt.b, tt.selector))
		})
	}
}

func TestBreedProperties(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(1)) //nolint:gosec

	for i := 0; i < 100; i++ {
		a, b, s := randomDNA(r), randomDNA(r), randomDNA(r)
		child := Breed(a, b, s)
		require.Equal(child, Breed(a, b, s))

		for byteIndex := 0; byteIndex < DNALen; byteIndex++ {
			for bit := 0; bit < 8; bit++ {
				mask := byte(1) << bit
				want := b[byteIndex] & mask
				if s[byteIndex]&mask != 0 {
					want = a[byteIndex] & mask
				}
				require.Equal(want, child[byteIndex]&mask)
			}
		}
	}
}

func TestBreedOrderMatters(t *testing.T) {
	a, b := DNA{0xF0}, DNA{0x0F}
	selector := DNA{0xFF}
	require.NotEqual(t, Breed(a, b, selector), Breed(b, a, selector))
}

func TestDNAJSON(t *testing.T) {
	require := require.New(t)

	d := DNA{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	b, err := json.Marshal(d)
	require.NoError(err)
	require.Equal(`"0102030405060708090a0b0c0d0e0f10"`, string(b))

	var parsed DNA
	require.NoError(json.Unmarshal(b, &parsed))
	require.Equal(d, parsed)

	require.ErrorIs(json.Unmarshal([]byte(`"0102"`), &parsed), ErrInvalidDNALength)
}
