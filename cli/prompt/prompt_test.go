// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		balance uint64
		want    uint64
		wantErr error
	}{
		{name: "within balance", input: "150", balance: 200, want: 150},
		{name: "whole balance", input: " 200 ", balance: 200, want: 200},
		{name: "empty", input: "  ", balance: 200, wantErr: ErrInputEmpty},
		{name: "over balance", input: "201", balance: 200, wantErr: ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			amount, err := ParseAmount(tt.input, tt.balance)
			require.ErrorIs(err, tt.wantErr)
			require.Equal(tt.want, amount)
		})
	}

	_, err := ParseAmount("-1", 10)
	require.Error(t, err)
}

func TestParseIndex(t *testing.T) {
	require := require.New(t)

	index, err := ParseIndex("4294967295")
	require.NoError(err)
	require.Equal(uint32(4294967295), index)

	_, err = ParseIndex("4294967296")
	require.Error(err)

	_, err = ParseIndex("")
	require.ErrorIs(err, ErrInputEmpty)
}

func TestParseInt(t *testing.T) {
	require := require.New(t)

	v, err := ParseInt("10", 10)
	require.NoError(err)
	require.Equal(10, v)

	_, err = ParseInt("0", 10)
	require.ErrorContains(err, "must be > 0")

	_, err = ParseInt("11", 10)
	require.ErrorContains(err, "must be <= 10")
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr error
	}{
		{input: "0", want: 0},
		{input: "2", want: 2},
		{input: "3", want: -1, wantErr: ErrIndexOutOfRange},
		{input: "-1", want: -1, wantErr: ErrIndexOutOfRange},
		{input: "", want: -1, wantErr: ErrInputEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require := require.New(t)

			choice, err := ParseChoice(tt.input, 3)
			require.ErrorIs(err, tt.wantErr)
			require.Equal(tt.want, choice)
		})
	}
}

func TestParseBool(t *testing.T) {
	require := require.New(t)

	v, err := ParseBool("Y")
	require.NoError(err)
	require.True(v)

	v, err = ParseBool("n")
	require.NoError(err)
	require.False(v)

	_, err = ParseBool("maybe")
	require.ErrorIs(err, ErrInvalidChoice)
}
