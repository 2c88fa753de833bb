// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/kittyvm/heap"
)

// SortedMempool keeps items ordered by a uint64 value assigned on [Add].
//
// SortedMempool is not safe for concurrent use.
type SortedMempool[T Item] struct {
	minHeap *heap.Heap[T, uint64]
}

func NewSortedMempool[T Item](items int) *SortedMempool[T] {
	return &SortedMempool[T]{
		minHeap: heap.New[T, uint64](items, true),
	}
}

// Add tracks [item] at [val]. Adding an item that is already tracked is a
// no-op.
func (sm *SortedMempool[T]) Add(item T, val uint64) {
	if sm.minHeap.Has(item.ID()) {
		return
	}
	sm.minHeap.Push(&heap.Entry[T, uint64]{
		ID:    item.ID(),
		Val:   val,
		Item:  item,
		Index: sm.minHeap.Len(),
	})
}

// Get returns the item tracked as [id] and its value.
func (sm *SortedMempool[T]) Get(id ids.ID) (T, uint64, bool) {
	entry, ok := sm.minHeap.Get(id)
	if !ok {
		return *new(T), 0, false
	}
	return entry.Item, entry.Val, true
}

func (sm *SortedMempool[T]) Remove(id ids.ID) {
	entry, ok := sm.minHeap.Get(id)
	if !ok {
		return
	}
	sm.minHeap.Remove(entry.Index)
}

// SetMinVal removes and returns every item with a value below [val].
func (sm *SortedMempool[T]) SetMinVal(val uint64) []T {
	removed := []T{}
	for {
		first := sm.minHeap.First()
		if first == nil || first.Val >= val {
			return removed
		}
		sm.minHeap.Pop()
		removed = append(removed, first.Item)
	}
}

func (sm *SortedMempool[T]) PeekMin() (T, bool) {
	first := sm.minHeap.First()
	if first == nil {
		return *new(T), false
	}
	return first.Item, true
}

func (sm *SortedMempool[T]) PopMin() (T, bool) {
	first := sm.minHeap.Pop()
	if first == nil {
		return *new(T), false
	}
	return first.Item, true
}

func (sm *SortedMempool[T]) Has(id ids.ID) bool {
	return sm.minHeap.Has(id)
}

func (sm *SortedMempool[T]) Len() int {
	return sm.minHeap.Len()
}
