// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package heap

import (
	"cmp"
	"container/heap"

	"github.com/ava-labs/avalanchego/ids"
)

// Heap orders entries of [I] by [V] and indexes them by ID. It is not safe
// for concurrent use.
type Heap[I any, V cmp.Ordered] struct {
	ih *innerHeap[I, V]
}

func New[I any, V cmp.Ordered](items int, isMinHeap bool) *Heap[I, V] {
	return &Heap[I, V]{newInnerHeap[I, V](items, isMinHeap)}
}

func (h *Heap[I, V]) Len() int { return h.ih.Len() }

func (h *Heap[I, V]) Get(id ids.ID) (*Entry[I, V], bool) {
	return h.ih.Get(id)
}

func (h *Heap[I, V]) Has(id ids.ID) bool {
	return h.ih.Has(id)
}

func (h *Heap[I, V]) Push(e *Entry[I, V]) {
	heap.Push(h.ih, e)
}

// Pop removes the root, or returns nil when empty.
func (h *Heap[I, V]) Pop() *Entry[I, V] {
	if len(h.ih.items) == 0 {
		return nil
	}
	return heap.Pop(h.ih).(*Entry[I, V])
}

// Remove removes the entry at heap position [index], which callers read from
// [Entry.Index].
func (h *Heap[I, V]) Remove(index int) *Entry[I, V] {
	if index >= len(h.ih.items) {
		return nil
	}
	return heap.Remove(h.ih, index).(*Entry[I, V])
}

// First peeks at the root: the earliest expiry for a min heap.
func (h *Heap[I, V]) First() *Entry[I, V] {
	if len(h.ih.items) == 0 {
		return nil
	}
	return h.ih.items[0]
}
