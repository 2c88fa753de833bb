// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"time"

	"github.com/neilotoole/errgroup"
	"go.uber.org/atomic"

	"github.com/ava-labs/kittyvm/actions"
	"github.com/ava-labs/kittyvm/auth"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/rpc"
	"github.com/ava-labs/kittyvm/utils"
)

// SpamResult tallies the outcome of a [Handler.Spam] run.
type SpamResult struct {
	Accepted uint64
	Failed   uint64
	Rejected uint64
	Elapsed  time.Duration
}

// Split divides [count] transactions among at most [workers] senders. No
// share is empty.
func Split(count int, workers int) []int {
	if count <= 0 || workers <= 0 {
		return nil
	}
	if workers > count {
		workers = count
	}
	shares := make([]int, workers)
	for i := range shares {
		shares[i] = count / workers
		if i < count%workers {
			shares[i]++
		}
	}
	return shares
}

// Spam mints [count] kitties from the default key over [workers] concurrent
// websocket connections and waits for every transaction to settle.
func (h *Handler) Spam(ctx context.Context, count int, workers int) (*SpamResult, error) {
	if count <= 0 || workers <= 0 {
		return nil, ErrNothingToSend
	}
	cli, uri, err := h.Client(ctx, true)
	if err != nil {
		return nil, err
	}
	priv, err := h.GetDefaultKey(true)
	if err != nil {
		return nil, err
	}
	factory, err := auth.GetFactory(priv)
	if err != nil {
		return nil, err
	}

	var (
		accepted atomic.Uint64
		failed   atomic.Uint64
		rejected atomic.Uint64
		start    = time.Now()
		shares   = Split(count, workers)
	)
	g, gctx := errgroup.WithContextN(ctx, len(shares), len(shares))
	for _, share := range shares {
		share := share
		g.Go(func() error {
			ws, err := rpc.NewWebSocketClient(uri, wsHandshakeTimeout, wsPending, consts.NetworkSizeLimit)
			if err != nil {
				return err
			}
			defer ws.Close()

			for i := 0; i < share; i++ {
				_, tx, err := cli.GenerateTransaction(gctx, &actions.CreateKitty{}, factory)
				if err != nil {
					return err
				}
				if err := ws.RegisterTx(tx); err != nil {
					return err
				}
				status, err := ws.ListenTx(gctx)
				if err != nil {
					return err
				}
				switch {
				case status.Result == nil:
					rejected.Inc()
				case status.Result.Success:
					accepted.Inc()
				default:
					failed.Inc()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &SpamResult{
		Accepted: accepted.Load(),
		Failed:   failed.Load(),
		Rejected: rejected.Load(),
		Elapsed:  time.Since(start),
	}
	utils.Outf(
		"{{green}}accepted:{{/}} %d {{orange}}failed:{{/}} %d {{red}}rejected:{{/}} %d {{cyan}}elapsed:{{/}} %v\n",
		result.Accepted,
		result.Failed,
		result.Rejected,
		result.Elapsed,
	)
	return result, nil
}
