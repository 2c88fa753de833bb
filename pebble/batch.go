// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

var (
	_ database.Batch = (*batch)(nil)

	ErrInvalidOperation = errors.New("invalid batch operation")
)

type batch struct {
	db    *Database
	batch *pebble.Batch
	size  int
}

func (db *Database) NewBatch() database.Batch {
	return &batch{db: db, batch: db.db.NewBatch()}
}

func (b *batch) Put(key []byte, value []byte) error {
	b.size += len(key) + len(value)
	return b.batch.Set(key, value, nil)
}

func (b *batch) Delete(key []byte) error {
	b.size += len(key)
	return b.batch.Delete(key, nil)
}

func (b *batch) Size() int {
	return b.size
}

func (b *batch) Write() error {
	b.db.lock.RLock()
	defer b.db.lock.RUnlock()

	if b.db.closed {
		return database.ErrClosed
	}
	start := time.Now()
	if err := b.batch.Commit(b.db.writeOptions); err != nil {
		return err
	}
	b.db.metrics.batchLatency.Observe(float64(time.Since(start)))
	b.db.metrics.batchBytes.Add(float64(b.size))
	return nil
}

func (b *batch) Reset() {
	b.batch.Reset()
	b.size = 0
}

func (b *batch) Replay(w database.KeyValueWriterDeleter) error {
	reader := b.batch.Reader()
	for {
		kind, k, v, ok := reader.Next()
		if !ok {
			return nil
		}
		switch kind {
		case pebble.InternalKeyKindSet:
			if err := w.Put(k, v); err != nil {
				return err
			}
		case pebble.InternalKeyKindDelete:
			if err := w.Delete(k); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %v", ErrInvalidOperation, kind)
		}
	}
}

func (b *batch) Inner() database.Batch {
	return b
}
