// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/tstate"
)

// ActionTest is a single parameterized test. It calls Execute on the action with the passed parameters
// and checks that all assertions pass.
//
// Execute runs inside a [tstate.TStateView] that is committed on success and
// rolled back on failure, the same way the processor runs it. [State] only
// reflects the changes of a successful run.
type ActionTest struct {
	Name string

	Action chain.Action

	Rules chain.Rules
	State state.Mutable
	Env   chain.Env
	Actor codec.Address

	ExpectedOutput chain.Output
	ExpectedErr    error

	Assertion func(context.Context, *testing.T, state.Mutable)
}

// Run executes the [ActionTest] and make sure all assertions pass.
func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		ts := tstate.New(0)
		tsv := ts.NewView(test.State)
		output, err := test.Action.Execute(ctx, test.Rules, tsv, test.Env, test.Actor)
		if err != nil {
			tsv.Rollback(ctx, 0)
		} else {
			tsv.Commit()
		}

		require.ErrorIs(err, test.ExpectedErr)
		require.Equal(test.ExpectedOutput, output)

		for k, v := range ts.ExportChanges() {
			if v.IsNothing() {
				require.NoError(test.State.Remove(ctx, []byte(k)))
				continue
			}
			require.NoError(test.State.Insert(ctx, []byte(k), v.Value()))
		}

		if test.Assertion != nil {
			test.Assertion(ctx, t, test.State)
		}
	})
}

// ActionBenchmark is a parameterized benchmark. It calls Execute on the action with the passed parameters
// and checks that all assertions pass. To avoid using shared state between runs, a new
// state is created for each iteration using the provided `CreateState` function.
type ActionBenchmark struct {
	Name   string
	Action chain.Action

	Rules       chain.Rules
	CreateState func() state.Mutable
	Env         chain.Env
	Actor       codec.Address

	ExpectedOutput chain.Output
	ExpectedErr    error

	Assertion func(context.Context, *testing.B, state.Mutable)
}

// Run executes the [ActionBenchmark] and make sure all the benchmark assertions pass.
func (test *ActionBenchmark) Run(ctx context.Context, b *testing.B) {
	require := require.New(b)

	// create a slice of b.N states
	states := make([]state.Mutable, b.N)
	for i := 0; i < b.N; i++ {
		states[i] = test.CreateState()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		output, err := test.Action.Execute(ctx, test.Rules, states[i], test.Env, test.Actor)
		require.ErrorIs(err, test.ExpectedErr)
		require.Equal(test.ExpectedOutput, output)
	}

	b.StopTimer()
	// check assertions
	if test.Assertion != nil {
		for i := 0; i < b.N; i++ {
			test.Assertion(ctx, b, states[i])
		}
	}
}
