// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/stretchr/testify/require"
)

func TestWrappedDatabaseCommit(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	db := NewWrappedDatabase(memdb.New())
	require.NoError(db.Commit(ctx, map[string]maybe.Maybe[[]byte]{
		"a": maybe.Some([]byte{1}),
		"b": maybe.Some([]byte{2}),
	}))
	v, err := db.GetValue(ctx, []byte("a"))
	require.NoError(err)
	require.Equal([]byte{1}, v)

	require.NoError(db.Commit(ctx, map[string]maybe.Maybe[[]byte]{
		"a": maybe.Nothing[[]byte](),
	}))
	_, err = db.GetValue(ctx, []byte("a"))
	require.ErrorIs(err, database.ErrNotFound)
	v, err = db.GetValue(ctx, []byte("b"))
	require.NoError(err)
	require.Equal([]byte{2}, v)
	require.NoError(db.Close())
}

func TestMutableStorage(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	m := MutableStorage{}
	require.NoError(m.Insert(ctx, []byte("k"), []byte("v")))
	c := m.Clone()
	require.NoError(m.Remove(ctx, []byte("k")))

	_, err := m.GetValue(ctx, []byte("k"))
	require.ErrorIs(err, database.ErrNotFound)
	v, err := c.GetValue(ctx, []byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), v)
}
