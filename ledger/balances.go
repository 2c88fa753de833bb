// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/state/metadata"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// State
// 0x3/ (free balance)
//   -> [owner] => balance
// 0x4/ (reserved balance)
//   -> [owner] => balance

const (
	freePrefix     byte = metadata.DefaultMinimumPrefix
	reservedPrefix byte = metadata.DefaultMinimumPrefix + 1

	// MinimumPrefix is the first prefix free for tables outside the ledger.
	MinimumPrefix byte = reservedPrefix + 1

	BalanceChunks uint16 = 1
)

var _ Currency = (*Balances)(nil)

// Prefixes returns the table prefixes owned by [Balances].
func Prefixes() [][]byte {
	return [][]byte{{freePrefix}, {reservedPrefix}}
}

// [prefix] + [address]
func balanceKey(prefix byte, addr codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen+consts.Uint16Len)
	k[0] = prefix
	copy(k[1:], addr[:])
	k[1+codec.AddressLen] = byte(BalanceChunks >> 8)
	k[2+codec.AddressLen] = byte(BalanceChunks)
	return k
}

func FreeBalanceKey(addr codec.Address) []byte {
	return balanceKey(freePrefix, addr)
}

func ReservedBalanceKey(addr codec.Address) []byte {
	return balanceKey(reservedPrefix, addr)
}

// Balances keeps free and reserved balances in state. Accounts whose free
// balance would fall below [existentialDeposit] may be reaped by an
// [AllowDeath] transfer.
type Balances struct {
	existentialDeposit uint64
}

func NewBalances(existentialDeposit uint64) *Balances {
	return &Balances{existentialDeposit: existentialDeposit}
}

func (b *Balances) ExistentialDeposit() uint64 {
	return b.existentialDeposit
}

func (*Balances) FreeBalance(ctx context.Context, im state.Immutable, who codec.Address) (uint64, error) {
	return getBalance(ctx, im, FreeBalanceKey(who))
}

func (*Balances) ReservedBalance(ctx context.Context, im state.Immutable, who codec.Address) (uint64, error) {
	return getBalance(ctx, im, ReservedBalanceKey(who))
}

// Mint credits [amount] of free balance to [who]. It is only used to apply
// genesis allocations.
func (*Balances) Mint(ctx context.Context, mu state.Mutable, who codec.Address, amount uint64) error {
	key := FreeBalanceKey(who)
	bal, err := getBalance(ctx, mu, key)
	if err != nil {
		return err
	}
	nbal, err := smath.Add(bal, amount)
	if err != nil {
		return fmt.Errorf("%w: could not mint (bal=%d, addr=%s, amount=%d)", ErrInvalidBalance, bal, who, amount)
	}
	return setBalance(ctx, mu, key, nbal)
}

func (*Balances) Reserve(ctx context.Context, mu state.Mutable, who codec.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	freeKey, reservedKey := FreeBalanceKey(who), ReservedBalanceKey(who)
	free, err := getBalance(ctx, mu, freeKey)
	if err != nil {
		return err
	}
	reserved, err := getBalance(ctx, mu, reservedKey)
	if err != nil {
		return err
	}
	nfree, err := smath.Sub(free, amount)
	if err != nil {
		return fmt.Errorf("%w: could not reserve (free=%d, addr=%s, amount=%d)", ErrInsufficientBalance, free, who, amount)
	}
	nreserved, err := smath.Add(reserved, amount)
	if err != nil {
		return fmt.Errorf("%w: could not reserve (reserved=%d, addr=%s, amount=%d)", ErrInvalidBalance, reserved, who, amount)
	}
	if err := setBalance(ctx, mu, freeKey, nfree); err != nil {
		return err
	}
	return setBalance(ctx, mu, reservedKey, nreserved)
}

func (*Balances) Unreserve(ctx context.Context, mu state.Mutable, who codec.Address, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, nil
	}
	freeKey, reservedKey := FreeBalanceKey(who), ReservedBalanceKey(who)
	reserved, err := getBalance(ctx, mu, reservedKey)
	if err != nil {
		return 0, err
	}
	free, err := getBalance(ctx, mu, freeKey)
	if err != nil {
		return 0, err
	}
	actual := min(reserved, amount)
	nfree, err := smath.Add(free, actual)
	if err != nil {
		return 0, fmt.Errorf("%w: could not unreserve (free=%d, addr=%s, amount=%d)", ErrInvalidBalance, free, who, actual)
	}
	if err := setBalance(ctx, mu, reservedKey, reserved-actual); err != nil {
		return 0, err
	}
	if err := setBalance(ctx, mu, freeKey, nfree); err != nil {
		return 0, err
	}
	return amount - actual, nil
}

func (b *Balances) Transfer(
	ctx context.Context,
	mu state.Mutable,
	from codec.Address,
	to codec.Address,
	amount uint64,
	req ExistenceRequirement,
) error {
	if amount == 0 || from == to {
		return nil
	}
	fromKey, toKey := FreeBalanceKey(from), FreeBalanceKey(to)
	fromBal, err := getBalance(ctx, mu, fromKey)
	if err != nil {
		return err
	}
	toBal, err := getBalance(ctx, mu, toKey)
	if err != nil {
		return err
	}
	nfrom, err := smath.Sub(fromBal, amount)
	if err != nil {
		return fmt.Errorf("%w: could not transfer (free=%d, addr=%s, amount=%d)", ErrInsufficientBalance, fromBal, from, amount)
	}
	if req == KeepAlive && nfrom < b.existentialDeposit {
		return fmt.Errorf("%w: remaining=%d, existential deposit=%d", ErrKeepAlive, nfrom, b.existentialDeposit)
	}
	nto, err := smath.Add(toBal, amount)
	if err != nil {
		return fmt.Errorf("%w: could not transfer (free=%d, addr=%s, amount=%d)", ErrInvalidBalance, toBal, to, amount)
	}
	if toBal == 0 && nto < b.existentialDeposit {
		toReserved, err := getBalance(ctx, mu, ReservedBalanceKey(to))
		if err != nil {
			return err
		}
		if toReserved == 0 {
			return fmt.Errorf("%w: amount=%d, existential deposit=%d", ErrExistentialDeposit, amount, b.existentialDeposit)
		}
	}
	if nfrom < b.existentialDeposit {
		// Dust is burned once the sender has nothing left in reserve.
		fromReserved, err := getBalance(ctx, mu, ReservedBalanceKey(from))
		if err != nil {
			return err
		}
		if fromReserved == 0 {
			nfrom = 0
		}
	}
	if err := setBalance(ctx, mu, fromKey, nfrom); err != nil {
		return err
	}
	return setBalance(ctx, mu, toKey, nto)
}

func getBalance(ctx context.Context, im state.Immutable, key []byte) (uint64, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return database.ParseUInt64(v)
}

func setBalance(ctx context.Context, mu state.Mutable, key []byte, balance uint64) error {
	if balance == 0 {
		// If there is no balance left, we should delete the record instead of
		// setting it to 0.
		return mu.Remove(ctx, key)
	}
	return mu.Insert(ctx, key, database.PackUInt64(balance))
}
