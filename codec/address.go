// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	AddressLen = 33

	// These consts are pulled from BIP-173: https://github.com/bitcoin/bips/blob/master/bip-0173.mediawiki
	fromBits      = 8
	toBits        = 5
	separatorLen  = 1
	checksumlen   = 6
	maxBech32Size = 90
)

// Address represents the 33 byte address of an account: a one byte auth type
// followed by the hash of the signer's public key.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	a := make([]byte, AddressLen)
	a[0] = typeID
	copy(a[1:], id[:])
	return Address(a)
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	result := make([]byte, len(a)*2+2)
	copy(result, `0x`)
	hex.Encode(result[2:], a[:])
	return result, nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	b, err := LoadHex(string(input), AddressLen)
	if err != nil {
		return err
	}
	copy(a[:], b)
	return nil
}

// AddressBech32 returns a Bech32 address from [hrp] and [p].
// This function uses avalanchego's FormatBech32 function.
func AddressBech32(hrp string, p Address) (string, error) {
	expanedNum := AddressLen * fromBits
	expandedLen := expanedNum / toBits
	if expanedNum%toBits != 0 {
		expandedLen++
	}
	addrLen := len(hrp) + separatorLen + expandedLen + checksumlen
	if addrLen > maxBech32Size {
		return "", fmt.Errorf("%w: max=%d, requested=%d", ErrInvalidSize, maxBech32Size, addrLen)
	}
	conv, err := bech32.ConvertBits(p[:], fromBits, toBits, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, conv)
}

// MustAddressBech32 returns a Bech32 address from [hrp] and [p] or panics.
func MustAddressBech32(hrp string, p Address) string {
	addr, err := AddressBech32(hrp, p)
	if err != nil {
		panic(err)
	}
	return addr
}

// ParseAddressBech32 parses a Bech32 encoded address string and extracts
// its [AddressBytes]. If there is an error reading the address or the hrp
// value is not valid, ParseAddress returns an EmptyAddress and error.
func ParseAddressBech32(hrp, saddr string) (Address, error) {
	phrp, p, err := bech32.Decode(saddr)
	if err != nil {
		return EmptyAddress, err
	}
	if phrp != hrp {
		return EmptyAddress, ErrIncorrectHRP
	}
	// The parsed value may be longer than [AddressLen] because the
	// underlying bech32 implementation appends 0s to the end of the value.
	// We must drop these trailing 0s before returning.
	p, err = bech32.ConvertBits(p, toBits, fromBits, false)
	if err != nil {
		return EmptyAddress, err
	}
	if len(p) < AddressLen {
		return EmptyAddress, ErrInsufficientLength
	}
	return Address(p[:AddressLen]), nil
}
