// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/kittyvm/ledger"
	"github.com/ava-labs/kittyvm/state"
	"github.com/ava-labs/kittyvm/tstate"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// keysPerTx sizes the [tstate.TState] of a block.
const keysPerTx = 8

// Processor executes the transactions of a block in order.
type Processor struct {
	log      logging.Logger
	tracer   trace.Tracer
	rules    Rules
	currency ledger.Currency
	engines  map[uint8]AuthEngine
	cores    int
}

func NewProcessor(
	log logging.Logger,
	tracer trace.Tracer,
	rules Rules,
	currency ledger.Currency,
	engines map[uint8]AuthEngine,
	cores int,
) *Processor {
	return &Processor{
		log:      log,
		tracer:   tracer,
		rules:    rules,
		currency: currency,
		engines:  engines,
		cores:    cores,
	}
}

// Execute applies [blk] on top of [im]. Signatures are verified in parallel
// first, then each transaction runs in its own view: a failing transaction
// is rolled back and only its [Result] records that it ran.
//
// The returned error is reserved for failures of the host (for example an
// output that cannot be encoded) and means the block must not be accepted.
func (p *Processor) Execute(
	ctx context.Context,
	im state.Immutable,
	blk *Block,
	entropy ids.ID,
) (*tstate.TState, []*Result, error) {
	ctx, span := p.tracer.Start(ctx, "Processor.Execute", oteltrace.WithAttributes(
		attribute.Int("txs", len(blk.Txs)),
		attribute.Int64("height", int64(blk.Height)),
	))
	defer span.End()

	authErrs := VerifyAuth(ctx, p.engines, p.cores, blk.Txs)

	ts := tstate.New(len(blk.Txs) * keysPerTx)
	results := make([]*Result, len(blk.Txs))
	for i, tx := range blk.Txs {
		result := &Result{TxID: tx.ID(), Height: blk.Height}
		results[i] = result

		if err := authErrs[i]; err != nil {
			p.decline(result, tx, err)
			continue
		}
		if err := tx.Base.Execute(p.rules, blk.Timestamp); err != nil {
			p.decline(result, tx, err)
			continue
		}

		env := Env{
			Height:    blk.Height,
			Timestamp: blk.Timestamp,
			Entropy:   entropy,
			Index:     uint32(i),
			Currency:  p.currency,
		}
		tsv := ts.NewView(im)
		start := tsv.OpIndex()
		output, err := tx.Action.Execute(ctx, p.rules, tsv, env, tx.Actor())
		if err != nil {
			tsv.Rollback(ctx, start)
			p.decline(result, tx, err)
			continue
		}
		encoded, err := MarshalOutput(output)
		if err != nil {
			return nil, nil, err
		}
		tsv.Commit()
		result.Success = true
		result.Output = encoded
	}
	return ts, results, nil
}

func (p *Processor) decline(result *Result, tx *Transaction, err error) {
	p.log.Debug("transaction declined",
		zap.Stringer("txID", tx.ID()),
		zap.Uint8("action", tx.Action.GetTypeID()),
		zap.Error(err),
	)
	result.Error = []byte(err.Error())
}
