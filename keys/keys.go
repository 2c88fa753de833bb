// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package keys encodes the maximum value size of a state key as a uint16
// chunk count suffix, so any holder of the key can bound what it stores.
package keys

import (
	"encoding/binary"

	"github.com/ava-labs/kittyvm/consts"
)

const chunkSize = 64 // bytes

func Valid(key []byte) bool {
	return len(key) >= consts.Uint16Len
}

// MaxChunks returns the chunk count encoded in the suffix of [key].
func MaxChunks(key []byte) (uint16, bool) {
	l := len(key)
	if l < consts.Uint16Len {
		return 0, false
	}
	return binary.BigEndian.Uint16(key[l-consts.Uint16Len:]), true
}

func NumChunks(value []byte) (uint16, bool) {
	return numChunks(len(value))
}

func numChunks(valueLen int) (uint16, bool) {
	if valueLen == 0 {
		return 0, true
	}
	raw := valueLen/chunkSize + 1
	if raw > int(consts.MaxUint16) {
		return 0, false
	}
	return uint16(raw), true
}

// VerifyValue returns true if [value] fits in the chunks reserved by [key].
func VerifyValue(key []byte, value []byte) bool {
	valueChunks, ok := NumChunks(value)
	if !ok {
		return false
	}
	keyChunks, ok := MaxChunks(key)
	if !ok {
		return false
	}
	return valueChunks <= keyChunks
}

// Encode appends the number of chunks needed to hold [maxSize] bytes.
func Encode(key []byte, maxSize int) ([]byte, bool) {
	numChunks, ok := numChunks(maxSize)
	if !ok {
		return nil, false
	}
	return binary.BigEndian.AppendUint16(key, numChunks), true
}

func EncodeChunks(key []byte, maxChunks uint16) []byte {
	return binary.BigEndian.AppendUint16(key, maxChunks)
}
