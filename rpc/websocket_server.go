// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/emap"
	"github.com/ava-labs/kittyvm/event"
	"github.com/ava-labs/kittyvm/pubsub"
)

var _ event.Subscription[*chain.Result] = (*WebSocketServer)(nil)

type txWrapper struct {
	msg []byte
	c   *pubsub.Connection
}

// WebSocketServer streams accepted results to subscribed connections and
// accepts transactions submitted over the same connections.
type WebSocketServer struct {
	vm VM
	s  *pubsub.Server

	resultListeners *pubsub.Connections

	incomingTransactions chan *txWrapper
	stop                 chan struct{}
	stopOnce             sync.Once
	workers              sync.WaitGroup

	txL         sync.Mutex
	txListeners map[ids.ID]*pubsub.Connections
	expiringTxs *emap.EMap[*chain.Transaction] // ensures all tx listeners are eventually responded to
}

// NewWebSocketServer starts [cores] workers that verify and submit
// transactions. At most [backlog] submissions wait for a worker.
func NewWebSocketServer(vm VM, cfg *pubsub.ServerConfig, backlog int, cores int) (*WebSocketServer, *pubsub.Server) {
	w := &WebSocketServer{
		vm:                   vm,
		resultListeners:      pubsub.NewConnections(),
		incomingTransactions: make(chan *txWrapper, backlog),
		stop:                 make(chan struct{}),
		txListeners:          map[ids.ID]*pubsub.Connections{},
		expiringTxs:          emap.NewEMap[*chain.Transaction](),
	}
	w.s = pubsub.New(w.vm.Logger(), cfg, w.MessageCallback())
	for i := 0; i < cores; i++ {
		w.workers.Add(1)
		go w.startWorker()
	}
	return w, w.s
}

func (w *WebSocketServer) startWorker() {
	defer w.workers.Done()

	log := w.vm.Logger()
	for {
		select {
		case txw := <-w.incomingTransactions:
			ctx := context.Background()

			tx, err := chain.ParseTx(txw.msg, w.vm.Registry())
			if err != nil {
				log.Debug("failed to unmarshal tx",
					zap.Int("len", len(txw.msg)),
					zap.Error(err),
				)
				continue
			}
			w.AddTxListener(tx, txw.c)

			// Submit verifies the signature before the tx enters the mempool.
			txID := tx.ID()
			if err := w.vm.Submit(ctx, []*chain.Transaction{tx})[0]; err != nil {
				log.Debug("failed to submit tx",
					zap.Stringer("txID", txID),
					zap.Error(err),
				)
				if err := w.RemoveTx(txID, err); err != nil {
					log.Warn("failed to notify tx listeners",
						zap.Stringer("txID", txID),
						zap.Error(err),
					)
				}
			}
		case <-w.stop:
			return
		}
	}
}

// AddTxListener sends the outcome of [tx] to [c].
//
// Listeners are removed when the tx is accepted, rejected or expires.
func (w *WebSocketServer) AddTxListener(tx *chain.Transaction, c *pubsub.Connection) {
	w.txL.Lock()
	defer w.txL.Unlock()

	txID := tx.ID()
	if _, ok := w.txListeners[txID]; !ok {
		w.txListeners[txID] = pubsub.NewConnections()
	}
	w.txListeners[txID].Add(c)
	w.expiringTxs.Add([]*chain.Transaction{tx})
}

// RemoveTx tells the listeners of [txID] it will never be accepted.
func (w *WebSocketServer) RemoveTx(txID ids.ID, reason error) error {
	w.txL.Lock()
	defer w.txL.Unlock()

	return w.removeTx(txID, reason)
}

func (w *WebSocketServer) removeTx(txID ids.ID, reason error) error {
	listeners, ok := w.txListeners[txID]
	if !ok {
		return nil
	}
	bytes, err := PackTxMessage(txID, nil, reason)
	if err != nil {
		return err
	}
	w.s.Publish(bytes, listeners)
	delete(w.txListeners, txID)
	// [expiringTxs] will be cleared eventually (does not support removal)
	return nil
}

// SetMinTx expires the listeners of every transaction whose expiry is
// before [t].
func (w *WebSocketServer) SetMinTx(t int64) error {
	w.txL.Lock()
	defer w.txL.Unlock()

	expired := w.expiringTxs.SetMin(t)
	for _, id := range expired {
		if err := w.removeTx(id, ErrExpired); err != nil {
			return err
		}
	}
	if exp := len(expired); exp > 0 {
		w.vm.Logger().Debug("expired listeners", zap.Int("count", exp))
	}
	return nil
}

// Accept publishes [result] to result listeners and answers the
// connections that submitted the transaction.
func (w *WebSocketServer) Accept(_ context.Context, result *chain.Result) error {
	if w.resultListeners.Len() > 0 {
		bytes, err := PackResultMessage(result)
		if err != nil {
			return err
		}
		w.s.Publish(bytes, w.resultListeners)
	}

	w.txL.Lock()
	defer w.txL.Unlock()

	listeners, ok := w.txListeners[result.TxID]
	if !ok {
		return nil
	}
	bytes, err := PackTxMessage(result.TxID, result, nil)
	if err != nil {
		return err
	}
	w.s.Publish(bytes, listeners)
	delete(w.txListeners, result.TxID)
	return nil
}

// Close stops the workers and disconnects every client.
func (w *WebSocketServer) Close() error {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
	w.workers.Wait()
	w.s.Close()
	return nil
}

func (w *WebSocketServer) MessageCallback() pubsub.Callback {
	// Assumes controller is initialized before this is called
	var (
		tracer = w.vm.Tracer()
		log    = w.vm.Logger()
	)

	return func(msgBytes []byte, c *pubsub.Connection) {
		_, span := tracer.Start(context.Background(), "WebSocketServer.Callback")
		defer span.End()

		// Check empty messages
		if len(msgBytes) == 0 {
			log.Debug("failed to unmarshal msg",
				zap.Int("len", len(msgBytes)),
			)
			return
		}

		switch msgBytes[0] {
		case ResultMode:
			w.resultListeners.Add(c)
			log.Debug("added result listener")
		case TxMode:
			select {
			case w.incomingTransactions <- &txWrapper{msgBytes[1:], c}:
				log.Debug("enqueued tx for processing")
			default:
				log.Debug("dropping tx because backlog is full")
			}
		default:
			log.Debug("unexpected message type",
				zap.Int("len", len(msgBytes)),
				zap.Uint8("mode", msgBytes[0]),
			)
		}
	}
}
