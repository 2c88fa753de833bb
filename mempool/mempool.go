// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import (
	"context"
	"errors"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/set"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ava-labs/kittyvm/codec"

	oteltrace "go.opentelemetry.io/otel/trace"
)

const maxPrealloc = 4_096

var (
	ErrDuplicate     = errors.New("duplicate item")
	ErrMempoolFull   = errors.New("mempool full")
	ErrSponsorLimit  = errors.New("sponsor item limit reached")
	ErrInvalidLimit = errors.New("limits must be positive")
)

// Item is a pending transaction.
type Item interface {
	ID() ids.ID
	Actor() codec.Address
	Expiry() int64
}

// Mempool holds pending items in arrival order. Items are also indexed by
// expiry so the ones that can no longer be included are dropped in bulk.
type Mempool[T Item] struct {
	tracer trace.Tracer

	mu sync.RWMutex

	maxSize        int
	maxSponsorSize int

	seq uint64
	fm  *SortedMempool[T] // arrival order
	tm  *SortedMempool[T] // expiry

	owned map[codec.Address]set.Set[ids.ID]
}

func New[T Item](
	tracer trace.Tracer,
	maxSize int,
	maxSponsorSize int,
) (*Mempool[T], error) {
	if maxSize <= 0 || maxSponsorSize <= 0 {
		return nil, ErrInvalidLimit
	}
	return &Mempool[T]{
		tracer: tracer,

		maxSize:        maxSize,
		maxSponsorSize: maxSponsorSize,

		fm:    NewSortedMempool[T](min(maxSize, maxPrealloc)),
		tm:    NewSortedMempool[T](min(maxSize, maxPrealloc)),
		owned: map[codec.Address]set.Set[ids.ID]{},
	}, nil
}

func (m *Mempool[T]) removeFromOwned(item T) {
	sponsor := item.Actor()
	acct, ok := m.owned[sponsor]
	if !ok {
		return
	}
	acct.Remove(item.ID())
	if acct.Len() == 0 {
		delete(m.owned, sponsor)
	}
}

func (m *Mempool[T]) remove(id ids.ID) {
	item, _, ok := m.fm.Get(id)
	if !ok {
		return
	}
	m.fm.Remove(id)
	m.tm.Remove(id)
	m.removeFromOwned(item)
}

func (m *Mempool[T]) Has(ctx context.Context, itemID ids.ID) bool {
	_, span := m.tracer.Start(ctx, "Mempool.Has")
	defer span.End()

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.fm.Has(itemID)
}

// Add queues [items] behind everything already pending. The returned slice
// holds one entry per item: nil if it was queued, otherwise the reason it
// was not.
func (m *Mempool[T]) Add(ctx context.Context, items []T) []error {
	_, span := m.tracer.Start(ctx, "Mempool.Add", oteltrace.WithAttributes(
		attribute.Int("items", len(items)),
	))
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	errs := make([]error, len(items))
	for i, item := range items {
		errs[i] = m.add(item)
	}
	return errs
}

func (m *Mempool[T]) add(item T) error {
	if m.fm.Has(item.ID()) {
		return ErrDuplicate
	}
	if m.fm.Len() >= m.maxSize {
		return ErrMempoolFull
	}
	sponsor := item.Actor()
	acct, ok := m.owned[sponsor]
	if !ok {
		acct = set.Set[ids.ID]{}
		m.owned[sponsor] = acct
	}
	if acct.Len() >= m.maxSponsorSize {
		return ErrSponsorLimit
	}
	m.seq++
	m.fm.Add(item, m.seq)
	m.tm.Add(item, uint64(item.Expiry()))
	acct.Add(item.ID())
	return nil
}

// PeekNext returns the oldest pending item.
func (m *Mempool[T]) PeekNext(ctx context.Context) (T, bool) {
	_, span := m.tracer.Start(ctx, "Mempool.PeekNext")
	defer span.End()

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.fm.PeekMin()
}

// PopNext removes and returns the oldest pending item.
func (m *Mempool[T]) PopNext(ctx context.Context) (T, bool) {
	_, span := m.tracer.Start(ctx, "Mempool.PopNext")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.fm.PopMin()
	if ok {
		m.tm.Remove(item.ID())
		m.removeFromOwned(item)
	}
	return item, ok
}

// Remove drops [items]. Items not in the mempool are ignored.
func (m *Mempool[T]) Remove(ctx context.Context, items []T) {
	_, span := m.tracer.Start(ctx, "Mempool.Remove")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range items {
		m.remove(item.ID())
	}
}

func (m *Mempool[T]) Len(ctx context.Context) int {
	_, span := m.tracer.Start(ctx, "Mempool.Len")
	defer span.End()

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.fm.Len()
}

// SetMinTimestamp removes and returns all items that expire before [t].
func (m *Mempool[T]) SetMinTimestamp(ctx context.Context, t int64) []T {
	_, span := m.tracer.Start(ctx, "Mempool.SetMinTimestamp")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	if t < 0 {
		return nil
	}
	removed := m.tm.SetMinVal(uint64(t))
	for _, item := range removed {
		m.fm.Remove(item.ID())
		m.removeFromOwned(item)
	}
	return removed
}

// Build hands pending items to [f] oldest first until [f] asks to stop or
// the mempool is drained. Items [f] asks to restore are put back at their
// original position; every other visited item is dropped.
func (m *Mempool[T]) Build(
	ctx context.Context,
	f func(context.Context, T) (cont bool, restore bool, err error),
) error {
	ctx, span := m.tracer.Start(ctx, "Mempool.Build")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	type restorable struct {
		item T
		seq  uint64
	}
	restorableItems := []restorable{}
	var err error
	for m.fm.Len() > 0 {
		next, _ := m.fm.PeekMin()
		_, seq, _ := m.fm.Get(next.ID())
		m.fm.PopMin()

		cont, restore, fErr := f(ctx, next)
		if restore {
			restorableItems = append(restorableItems, restorable{item: next, seq: seq})
		} else {
			m.tm.Remove(next.ID())
			m.removeFromOwned(next)
		}
		if !cont || fErr != nil {
			err = fErr
			break
		}
	}
	for _, r := range restorableItems {
		m.fm.Add(r.item, r.seq)
	}
	return err
}
