// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package heap

import (
	"cmp"
	"container/heap"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
)

var _ heap.Interface = (*innerHeap[any, uint64])(nil)

// Entry is a tracked item and the value it is ordered by. [Index] is kept
// current by the heap.
type Entry[I any, V cmp.Ordered] struct {
	ID   ids.ID
	Item I
	Val  V

	Index int
}

type innerHeap[I any, V cmp.Ordered] struct {
	isMinHeap bool

	items  []*Entry[I, V]
	lookup map[ids.ID]*Entry[I, V]
}

func newInnerHeap[I any, V cmp.Ordered](items int, isMinHeap bool) *innerHeap[I, V] {
	return &innerHeap[I, V]{
		isMinHeap: isMinHeap,

		items:  make([]*Entry[I, V], 0, items),
		lookup: make(map[ids.ID]*Entry[I, V], items),
	}
}

func (h *innerHeap[I, V]) Len() int { return len(h.items) }

func (h *innerHeap[I, V]) Less(i, j int) bool {
	if h.isMinHeap {
		return h.items[i].Val < h.items[j].Val
	}
	return h.items[i].Val > h.items[j].Val
}

func (h *innerHeap[I, V]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].Index = i
	h.items[j].Index = j
}

// Push panics if the ID is already tracked. Callers must check [Has] first.
func (h *innerHeap[I, V]) Push(x any) {
	entry, ok := x.(*Entry[I, V])
	if !ok {
		panic(fmt.Errorf("unexpected %T, expected *Entry", x))
	}
	if _, ok := h.lookup[entry.ID]; ok {
		panic(fmt.Errorf("attempting to insert duplicate item: %v", entry.ID))
	}
	entry.Index = len(h.items)
	h.items = append(h.items, entry)
	h.lookup[entry.ID] = entry
}

func (h *innerHeap[I, V]) Pop() any {
	n := len(h.items)
	item := h.items[n-1]
	h.items[n-1] = nil
	h.items = h.items[:n-1]
	delete(h.lookup, item.ID)
	return item
}

func (h *innerHeap[I, V]) Get(id ids.ID) (*Entry[I, V], bool) {
	entry, ok := h.lookup[id]
	return entry, ok
}

func (h *innerHeap[I, V]) Has(id ids.ID) bool {
	_, has := h.Get(id)
	return has
}
