// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"encoding/binary"

	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/ledger"
)

// State
// 0x0/ (height)
// 0x1/ (timestamp)
// 0x2/ (entropy)
//
// 0x3/ (free balance)
// 0x4/ (reserved balance)
//
// 0x5/ (kitties count)
// 0x6/ (kitties)
//   -> [index] => dna
// 0x7/ (owner of)
//   -> [index] => owner
// 0x8/ (creation deposits)
//   -> [index] => depositor|amount

const (
	countPrefix byte = ledger.MinimumPrefix + iota
	kittyPrefix
	ownerPrefix
	depositPrefix

	// MinimumPrefix is the first prefix free for tables outside the registry.
	MinimumPrefix
)

const (
	CountChunks   uint16 = 1
	KittyChunks   uint16 = 1
	OwnerChunks   uint16 = 1
	DepositChunks uint16 = 1
)

// Prefixes returns the table prefixes owned by this package.
func Prefixes() [][]byte {
	return [][]byte{{countPrefix}, {kittyPrefix}, {ownerPrefix}, {depositPrefix}}
}

// [countPrefix]
func CountKey() []byte {
	k := make([]byte, consts.ByteLen+consts.Uint16Len)
	k[0] = countPrefix
	binary.BigEndian.PutUint16(k[1:], CountChunks)
	return k
}

// [prefix] + [index]
func indexKey(prefix byte, index uint32, chunks uint16) []byte {
	k := make([]byte, consts.ByteLen+consts.Uint32Len+consts.Uint16Len)
	k[0] = prefix
	binary.BigEndian.PutUint32(k[1:], index)
	binary.BigEndian.PutUint16(k[1+consts.Uint32Len:], chunks)
	return k
}

func KittyKey(index uint32) []byte {
	return indexKey(kittyPrefix, index, KittyChunks)
}

func OwnerKey(index uint32) []byte {
	return indexKey(ownerPrefix, index, OwnerChunks)
}

func DepositKey(index uint32) []byte {
	return indexKey(depositPrefix, index, DepositChunks)
}
