// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittyvm/keys"
	"github.com/ava-labs/kittyvm/state"
)

var (
	testKey = keys.EncodeChunks([]byte("key"), 1)
	testVal = []byte("value")

	key1    = keys.EncodeChunks([]byte("key1"), 1)
	key2    = keys.EncodeChunks([]byte("key2"), 2)
	key2str = string(key2)
	key3    = keys.EncodeChunks([]byte("key3"), 3)
	key3str = string(key3)
)

func TestGetValue(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.ImmutableStorage{string(testKey): testVal})
	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err, "unable to get value")
	require.Equal(testVal, val, "value was not saved correctly")
}

func TestGetValueNoStorage(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.ImmutableStorage{})
	_, err := tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound, "data should not exist")
}

func TestDeleteCommitGet(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)
	storage := state.ImmutableStorage{string(testKey): testVal}

	// Delete value
	tsv := ts.NewView(storage)
	require.NoError(tsv.Remove(ctx, testKey))
	tsv.Commit()

	// Check deleted
	tsv = ts.NewView(storage)
	val, err := tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)
	require.Nil(val)
}

func TestInsertNew(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.ImmutableStorage{})
	require.NoError(tsv.Insert(ctx, testKey, testVal))
	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(1, tsv.OpIndex(), "insert was not added as an operation")
	require.Equal(testVal, val, "value was not set correctly")

	// Check commit
	tsv.Commit()
	require.Equal(1, ts.OpIndex(), "insert was not added as an operation")
}

func TestInsertInvalid(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	key := keys.EncodeChunks([]byte("hello"), 0)
	tsv := ts.NewView(state.ImmutableStorage{})

	require.ErrorIs(tsv.Insert(ctx, key, []byte("cool")), ErrInvalidKeyValue)

	_, err := tsv.GetValue(ctx, key)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestInsertUpdate(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)
	storage := state.ImmutableStorage{string(testKey): testVal}

	tsv := ts.NewView(storage)
	require.Equal(0, ts.OpIndex())

	newVal := []byte("newVal")
	require.NoError(tsv.Insert(ctx, testKey, newVal))
	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(1, tsv.OpIndex(), "insert operation was not added")
	require.Equal(newVal, val, "value was not set correctly")
	require.Equal(testVal, tsv.ops[0].pastV)
	require.True(tsv.ops[0].pastExists)
	require.False(tsv.ops[0].pastChanged)

	// Check value after commit
	tsv.Commit()
	tsv = ts.NewView(storage)
	val, err = tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(newVal, val, "value was not committed correctly")
}

func TestInsertRemoveInsert(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.ImmutableStorage{})

	// Insert key for first time
	require.NoError(tsv.Insert(ctx, key2, testVal))
	require.Equal(maybe.Some(testVal), tsv.pendingChangedKeys[key2str])

	// Remove key
	require.NoError(tsv.Remove(ctx, key2))
	require.Equal(maybe.Nothing[[]byte](), tsv.pendingChangedKeys[key2str])

	// Insert key again
	require.NoError(tsv.Insert(ctx, key2, testVal))
	require.Equal(maybe.Some(testVal), tsv.pendingChangedKeys[key2str])

	// Modify key
	testVal2 := []byte("blah")
	require.NoError(tsv.Insert(ctx, key2, testVal2))
	require.Equal(maybe.Some(testVal2), tsv.pendingChangedKeys[key2str])

	// Rollback modify
	tsv.Rollback(ctx, tsv.OpIndex()-1)
	require.Equal(maybe.Some(testVal), tsv.pendingChangedKeys[key2str])

	// Rollback second insert
	tsv.Rollback(ctx, tsv.OpIndex()-1)
	require.Equal(maybe.Nothing[[]byte](), tsv.pendingChangedKeys[key2str])

	// Rollback remove
	tsv.Rollback(ctx, tsv.OpIndex()-1)
	require.Equal(maybe.Some(testVal), tsv.pendingChangedKeys[key2str])

	// Rollback insert
	tsv.Rollback(ctx, tsv.OpIndex()-1)
	require.NotContains(tsv.pendingChangedKeys, key2str)
	require.Equal(0, tsv.OpIndex())

	// Remove empty should do nothing
	require.NoError(tsv.Remove(ctx, key2))
	require.Equal(0, tsv.OpIndex())
}

func TestRestoreInsert(t *testing.T) {
	require := require.New(t)
	ts := New(10)
	ctx := context.TODO()
	keys := [][]byte{key1, key2, key3}
	vals := [][]byte{[]byte("val1"), []byte("val2"), []byte("val3")}

	tsv := ts.NewView(state.ImmutableStorage{})
	for i, key := range keys {
		require.NoError(tsv.Insert(ctx, key, vals[i]))
	}

	// Update keys[0]
	updatedVal := []byte("newVal")
	require.NoError(tsv.Insert(ctx, keys[0], updatedVal))
	require.Equal(len(keys)+1, tsv.OpIndex(), "operations not added properly")
	val, err := tsv.GetValue(ctx, keys[0])
	require.NoError(err, "error getting value")
	require.Equal(updatedVal, val, "value not updated correctly")

	// Rollback inserting updatedVal and key[2]
	tsv.Rollback(ctx, 2)
	require.Equal(2, tsv.OpIndex(), "operations not rolled back properly")

	// Keys[2] was removed
	_, err = tsv.GetValue(ctx, keys[2])
	require.ErrorIs(err, database.ErrNotFound, "TState read op not rolled back properly")

	// Keys[0] was set to past value
	val, err = tsv.GetValue(ctx, keys[0])
	require.NoError(err, "error getting value")
	require.Equal(vals[0], val, "value not rolled back properly")
}

func TestRestoreDelete(t *testing.T) {
	require := require.New(t)
	ts := New(10)
	ctx := context.TODO()
	keys := [][]byte{key1, key2, key3}
	vals := [][]byte{[]byte("val1"), []byte("val2"), []byte("val3")}
	tsv := ts.NewView(state.ImmutableStorage{
		string(keys[0]): vals[0],
		string(keys[1]): vals[1],
		string(keys[2]): vals[2],
	})

	// Remove all
	for _, key := range keys {
		require.NoError(tsv.Remove(ctx, key), "error removing from ts")
		_, err := tsv.GetValue(ctx, key)
		require.ErrorIs(err, database.ErrNotFound, "value not removed")
	}
	require.Equal(len(keys), tsv.OpIndex(), "operations not added properly")
	require.Equal(3, tsv.PendingChanges())

	// Roll back all removes
	tsv.Rollback(ctx, 0)
	require.Equal(0, tsv.OpIndex(), "operations not rolled back properly")
	require.Equal(0, tsv.PendingChanges())
	for i, key := range keys {
		val, err := tsv.GetValue(ctx, key)
		require.NoError(err, "error getting value")
		require.Equal(vals[i], val, "value not reset correctly")
	}
}

func TestRollbackAcrossCommittedViews(t *testing.T) {
	require := require.New(t)
	ts := New(10)
	ctx := context.TODO()

	first := ts.NewView(state.ImmutableStorage{})
	require.NoError(first.Insert(ctx, key1, []byte("a")))
	first.Commit()

	second := ts.NewView(state.ImmutableStorage{})
	require.NoError(second.Insert(ctx, key1, []byte("b")))
	require.NoError(second.Remove(ctx, key1))
	second.Rollback(ctx, 0)

	val, err := second.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal([]byte("a"), val)
}

func TestExportChanges(t *testing.T) {
	require := require.New(t)
	ts := New(10)
	ctx := context.TODO()
	db := state.NewWrappedDatabase(memdb.New())
	require.NoError(db.Commit(ctx, map[string]maybe.Maybe[[]byte]{
		key3str: maybe.Some([]byte("old")),
	}))

	tsv := ts.NewView(db)
	require.NoError(tsv.Insert(ctx, key1, []byte("val1")))
	require.NoError(tsv.Remove(ctx, key3))
	tsv.Commit()
	require.Equal(2, ts.PendingChanges())

	require.NoError(db.Commit(ctx, ts.ExportChanges()))

	val, err := db.GetValue(ctx, key1)
	require.NoError(err)
	require.Equal([]byte("val1"), val)
	_, err = db.GetValue(ctx, key3)
	require.ErrorIs(err, database.ErrNotFound)
}
