// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package emap

import (
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/ava-labs/kittyvm/heap"
)

type bucket struct {
	t     int64
	items []ids.ID
}

// Item is anything identified by an ID that stops mattering after [Expiry].
type Item interface {
	ID() ids.ID
	Expiry() int64
}

// EMap remembers the IDs of accepted items until their expiry passes. Once a
// block timestamp moves beyond an expiry, the item could no longer be
// included anyway, so it is safe to forget.
type EMap[T Item] struct {
	mu sync.RWMutex

	bh    *heap.Heap[*bucket, int64]
	seen  set.Set[ids.ID]
	times map[int64]*bucket
}

func NewEMap[T Item]() *EMap[T] {
	return &EMap[T]{
		seen:  set.Set[ids.ID]{},
		times: make(map[int64]*bucket),
		bh:    heap.New[*bucket, int64](120, true),
	}
}

// Add tracks [items]. Items already tracked keep their original expiry.
func (e *EMap[T]) Add(items []T) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, item := range items {
		e.add(item.ID(), item.Expiry())
	}
}

func (e *EMap[T]) add(id ids.ID, t int64) {
	if e.seen.Contains(id) {
		return
	}
	e.seen.Add(id)

	if b, ok := e.times[t]; ok {
		b.items = append(b.items, id)
		return
	}

	b := &bucket{
		t:     t,
		items: []ids.ID{id},
	}
	e.times[t] = b
	e.bh.Push(&heap.Entry[*bucket, int64]{
		ID:    id,
		Val:   t,
		Item:  b,
		Index: e.bh.Len(),
	})
}

// SetMin forgets every item that expired before [t] and returns their IDs in
// expiry order.
func (e *EMap[T]) SetMin(t int64) []ids.ID {
	e.mu.Lock()
	defer e.mu.Unlock()

	evicted := []ids.ID{}
	for {
		b := e.bh.First()
		if b == nil || b.Val >= t {
			break
		}
		e.bh.Pop()
		for _, id := range b.Item.items {
			e.seen.Remove(id)
			evicted = append(evicted, id)
		}
		delete(e.times, b.Val)
	}
	return evicted
}

// Has reports whether [id] is tracked.
func (e *EMap[T]) Has(id ids.ID) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.seen.Contains(id)
}

// Any returns true if any of [items] is tracked.
func (e *EMap[T]) Any(items []T) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, item := range items {
		if e.seen.Contains(item.ID()) {
			return true
		}
	}
	return false
}

// Len is the number of tracked items.
func (e *EMap[T]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.seen.Len()
}
