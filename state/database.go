// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

var _ Database = (*WrappedDatabase)(nil)

// WrappedDatabase adapts any avalanchego [database.Database] (memdb, leveldb)
// to [Database].
type WrappedDatabase struct {
	db database.Database
}

func NewWrappedDatabase(db database.Database) *WrappedDatabase {
	return &WrappedDatabase{db: db}
}

func (w *WrappedDatabase) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return w.db.Get(key)
}

func (w *WrappedDatabase) Commit(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	batch := w.db.NewBatch()
	for k, v := range changes {
		if v.IsNothing() {
			if err := batch.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put([]byte(k), v.Value()); err != nil {
			return err
		}
	}
	return batch.Write()
}

func (w *WrappedDatabase) Close() error {
	return w.db.Close()
}
