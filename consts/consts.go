// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	// Name is the VM name used in API routes and logs.
	Name = "kittyvm"

	// HRP is the default human readable prefix of bech32 addresses.
	HRP = "kitty"

	Version = "v0.1.0"
)

const (
	ByteLen   = 1
	BoolLen   = 1
	IntLen    = 4
	Uint16Len = 2
	Uint32Len = 4
	Uint64Len = 8
	Int64Len  = 8
	IDLen     = 32
	MaxUint8  = ^uint8(0)
	MaxUint16 = ^uint16(0)
	MaxUint32 = ^uint32(0)
	MaxUint64 = ^uint64(0)
	MaxUint   = ^uint(0)
	MaxInt    = int(MaxUint >> 1)
)

const (
	MillisecondsPerSecond = 1000

	// NetworkSizeLimit bounds any single message read from the wire.
	NetworkSizeLimit = 2_044_723 // 1.95 MiB
)
