// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package genome holds kitty DNA and the breeding rule that mixes it.
package genome

import "encoding/hex"

const DNALen = 16

// DNA is the immutable genetic data of a kitty.
type DNA [DNALen]byte

var Empty = DNA{}

// Breed returns a child of [a] and [b]. Each bit of the child comes from [a]
// where [selector] is set and from [b] where it is clear.
func Breed(a, b, selector DNA) DNA {
	var child DNA
	for i := range child {
		child[i] = (selector[i] & a[i]) | (^selector[i] & b[i])
	}
	return child
}

func (d DNA) String() string {
	return hex.EncodeToString(d[:])
}

func (d DNA) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DNA) UnmarshalText(text []byte) error {
	if hex.DecodedLen(len(text)) != DNALen {
		return ErrInvalidDNALength
	}
	_, err := hex.Decode(d[:], text)
	return err
}
