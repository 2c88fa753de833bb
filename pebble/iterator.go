// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"bytes"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

var _ database.Iterator = (*iterator)(nil)

type iterator struct {
	it *pebble.Iterator

	started bool
	closed  bool
	err     error

	key   []byte
	value []byte
}

func (db *Database) NewIterator() database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, nil)
}

func (db *Database) NewIteratorWithStart(start []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(start, nil)
}

func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, prefix)
}

func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return &iterator{closed: true, err: database.ErrClosed}
	}
	it, err := db.db.NewIter(keyRange(start, prefix))
	if err != nil {
		return &iterator{closed: true, err: err}
	}
	return &iterator{it: it}
}

func (i *iterator) Next() bool {
	if i.closed || i.err != nil {
		return false
	}
	var ok bool
	if !i.started {
		ok = i.it.First()
		i.started = true
	} else {
		ok = i.it.Next()
	}
	if !ok {
		i.key, i.value = nil, nil
		i.err = i.it.Error()
		return false
	}
	i.key = bytes.Clone(i.it.Key())
	i.value = bytes.Clone(i.it.Value())
	return true
}

func (i *iterator) Error() error {
	return i.err
}

func (i *iterator) Key() []byte {
	return i.key
}

func (i *iterator) Value() []byte {
	return i.value
}

func (i *iterator) Release() {
	if i.closed {
		return
	}
	i.closed = true
	if err := i.it.Close(); err != nil && i.err == nil {
		i.err = err
	}
}

// keyRange bounds iteration to keys >= [start] that begin with [prefix].
func keyRange(start, prefix []byte) *pebble.IterOptions {
	opts := &pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	}
	if bytes.Compare(start, prefix) == 1 {
		opts.LowerBound = start
	}
	return opts
}

// prefixUpperBound returns the smallest key greater than every key with
// [prefix], or nil if there is none.
func prefixUpperBound(prefix []byte) []byte {
	upper := bytes.Clone(prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}
