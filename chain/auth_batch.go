// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// VerifyAuth checks the signature of every transaction in [txs] and returns
// one error slot per transaction. Types with an [AuthEngine] are verified as
// a batch; if a batch fails its members are checked one by one so only the
// invalid transactions are rejected.
func VerifyAuth(ctx context.Context, engines map[uint8]AuthEngine, cores int, txs []*Transaction) []error {
	errs := make([]error, len(txs))
	byType := make(map[uint8][]int)
	for i, tx := range txs {
		typeID := tx.Auth.GetTypeID()
		byType[typeID] = append(byType[typeID], i)
	}

	var g errgroup.Group
	g.SetLimit(max(cores, 1))
	verifyOne := func(i int) {
		errs[i] = txs[i].Verify(ctx)
	}
	for typeID, indices := range byType {
		var (
			indices = indices
			bv      AuthBatchVerifier
			ok      bool
		)
		if engine, found := engines[typeID]; found {
			bv, ok = engine.GetBatchVerifier(len(indices))
		}
		if !ok {
			for _, i := range indices {
				i := i
				g.Go(func() error {
					verifyOne(i)
					return nil
				})
			}
			continue
		}
		g.Go(func() error {
			for _, i := range indices {
				msg, err := txs[i].Digest()
				if err != nil {
					errs[i] = err
					continue
				}
				bv.Add(msg, txs[i].Auth)
			}
			if bv.Verify() == nil {
				return nil
			}
			for _, i := range indices {
				if errs[i] == nil {
					verifyOne(i)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
