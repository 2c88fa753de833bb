// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package event delivers notifications of accepted state changes to
// subscribers.
package event

import (
	"context"
	"errors"
	"sync"
)

var (
	_ Subscription[struct{}] = (*SubscriptionFunc[struct{}])(nil)
	_ Subscription[struct{}] = (*Recorder[struct{}])(nil)
)

// Subscription defines how to consume events
type Subscription[T any] interface {
	// Accept returns fatal errors
	Accept(ctx context.Context, t T) error
	// Close returns fatal errors
	Close() error
}

type SubscriptionFunc[T any] struct {
	AcceptF func(ctx context.Context, t T) error
}

func (s SubscriptionFunc[T]) Accept(ctx context.Context, t T) error {
	return s.AcceptF(ctx, t)
}

func (SubscriptionFunc[_]) Close() error {
	return nil
}

// Recorder keeps every event it accepts in order.
type Recorder[T any] struct {
	l      sync.Mutex
	events []T
	closed bool
}

func (r *Recorder[T]) Accept(_ context.Context, t T) error {
	r.l.Lock()
	defer r.l.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.events = append(r.events, t)
	return nil
}

func (r *Recorder[T]) Close() error {
	r.l.Lock()
	defer r.l.Unlock()

	r.closed = true
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder[T]) Events() []T {
	r.l.Lock()
	defer r.l.Unlock()

	events := make([]T, len(r.events))
	copy(events, r.events)
	return events
}

// NotifyAll delivers [e] to every subscriber, even when an earlier one fails,
// and returns the joined errors.
func NotifyAll[T any](ctx context.Context, e T, subs ...Subscription[T]) error {
	var errs []error
	for _, sub := range subs {
		if err := sub.Accept(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CloseAll closes every subscriber and returns the joined errors.
func CloseAll[T any](subs ...Subscription[T]) error {
	var errs []error
	for _, sub := range subs {
		if err := sub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
