// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittyvm/consts"
)

func TestNewWriter(t *testing.T) {
	require := require.New(t)

	wr := NewWriter(2, 2)
	require.True(wr.Empty())
	wr.PackByte(1)
	wr.PackByte(2)
	require.NoError(wr.Err())
	require.Equal([]byte{1, 2}, wr.Bytes())

	// Exceeding the limit is recorded on the packer.
	wr.PackByte(3)
	require.Error(wr.Err())
}

func TestPackerRoundTrip(t *testing.T) {
	require := require.New(t)

	id := ids.GenerateTestID()
	addr := CreateAddress(0, ids.GenerateTestID())

	wr := NewWriter(0, consts.NetworkSizeLimit)
	wr.PackByte(7)
	wr.PackBool(true)
	wr.PackUint32(42)
	wr.PackUint64(1 << 40)
	wr.PackInt64(-5)
	wr.PackID(id)
	wr.PackAddress(addr)
	wr.PackFixedBytes([]byte{9, 9})
	wr.PackBytes([]byte("kitty"))
	require.NoError(wr.Err())

	r := NewReader(wr.Bytes(), consts.NetworkSizeLimit)
	require.Equal(byte(7), r.UnpackByte())
	require.True(r.UnpackBool())
	require.Equal(uint32(42), r.UnpackUint32(true))
	require.Equal(uint64(1<<40), r.UnpackUint64(true))
	require.Equal(int64(-5), r.UnpackInt64(true))
	var gotID ids.ID
	r.UnpackID(true, &gotID)
	require.Equal(id, gotID)
	var gotAddr Address
	r.UnpackAddress(&gotAddr)
	require.Equal(addr, gotAddr)
	fixed := make([]byte, 2)
	r.UnpackFixedBytes(2, &fixed)
	require.Equal([]byte{9, 9}, fixed)
	var b []byte
	r.UnpackBytes(-1, true, &b)
	require.Equal([]byte("kitty"), b)
	require.NoError(r.Err())
	require.True(r.Empty())
}

func TestPackerRequiredUnpack(t *testing.T) {
	tests := []struct {
		name   string
		unpack func(*Packer)
	}{
		{
			name:   "uint32",
			unpack: func(p *Packer) { p.UnpackUint32(true) },
		},
		{
			name:   "uint64",
			unpack: func(p *Packer) { p.UnpackUint64(true) },
		},
		{
			name: "id",
			unpack: func(p *Packer) {
				var id ids.ID
				p.UnpackID(true, &id)
			},
		},
		{
			name: "address",
			unpack: func(p *Packer) {
				var a Address
				p.UnpackAddress(&a)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(make([]byte, AddressLen), consts.NetworkSizeLimit)
			tt.unpack(r)
			require.ErrorIs(t, r.Err(), ErrFieldNotPopulated)
		})
	}
}

func TestPackerUnpackBytesLimit(t *testing.T) {
	require := require.New(t)

	wr := NewWriter(0, consts.NetworkSizeLimit)
	wr.PackBytes([]byte{1, 2, 3, 4})
	r := NewReader(wr.Bytes(), consts.NetworkSizeLimit)
	var b []byte
	r.UnpackBytes(2, false, &b)
	require.Error(r.Err())
}

func TestPackerShortRead(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{0, 0}, consts.NetworkSizeLimit)
	r.UnpackUint32(false)
	require.Error(r.Err())
}
