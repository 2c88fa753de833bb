// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"time"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/event"
)

type Option func(*VM)

// WithSubscriptions registers [subs] to receive every accepted result.
func WithSubscriptions(subs ...event.Subscription[*chain.Result]) Option {
	return func(vm *VM) {
		vm.subscriptions = append(vm.subscriptions, subs...)
	}
}

// WithClock replaces the wall clock used to timestamp blocks.
func WithClock(now func() time.Time) Option {
	return func(vm *VM) {
		vm.now = now
	}
}
