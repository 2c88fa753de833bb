// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"

	"github.com/ava-labs/kittyvm/chain"
	"github.com/ava-labs/kittyvm/pubsub"
)

const flushWait = 10 * time.Millisecond

type WebSocketClient struct {
	conn    *websocket.Conn
	mb      *pubsub.MessageBuffer
	maxSize int

	pendingResults chan *chain.Result
	pendingTxs     chan *TxStatus

	done         chan struct{}
	readStopped  chan struct{}
	writeStopped chan struct{}
	closed       atomic.Bool

	errl sync.Once
	err  error
}

// NewWebSocketClient dials the websocket endpoint of the node at [uri].
// Up to [pending] messages are buffered in each direction and no batch
// exceeds [maxSize] bytes.
func NewWebSocketClient(uri string, handshakeTimeout time.Duration, pending int, maxSize int) (*WebSocketClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri += WebSocketEndpoint
	uri = "ws" + strings.TrimPrefix(uri, "http")

	dialer := &websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
		ReadBufferSize:   maxSize,
		WriteBufferSize:  maxSize,
	}
	conn, resp, err := dialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	c := &WebSocketClient{
		conn:           conn,
		mb:             pubsub.NewMessageBuffer(logging.NoLog{}, pending, maxSize, flushWait),
		maxSize:        maxSize,
		pendingResults: make(chan *chain.Result, pending),
		pendingTxs:     make(chan *TxStatus, pending),
		done:           make(chan struct{}),
		readStopped:    make(chan struct{}),
		writeStopped:   make(chan struct{}),
	}
	go c.readLoop()
	go c.writeLoop()
	return c, nil
}

func (c *WebSocketClient) readLoop() {
	defer close(c.readStopped)

	for {
		_, msgBatch, err := c.conn.ReadMessage()
		if err != nil {
			c.setErr(err)
			return
		}
		msgs, err := pubsub.ParseBatchMessage(c.maxSize, msgBatch)
		if err != nil {
			c.setErr(err)
			return
		}
		for _, msg := range msgs {
			if !c.route(msg) {
				return
			}
		}
	}
}

// route returns false once the client should stop reading.
func (c *WebSocketClient) route(msg []byte) bool {
	if len(msg) == 0 {
		c.setErr(ErrUnexpectedMode)
		return false
	}
	switch msg[0] {
	case ResultMode:
		result, err := UnpackResultMessage(msg)
		if err != nil {
			c.setErr(err)
			return false
		}
		select {
		case c.pendingResults <- result:
		case <-c.done:
			c.setErr(ErrClosed)
			return false
		}
	case TxMode:
		status, err := UnpackTxMessage(msg)
		if err != nil {
			c.setErr(err)
			return false
		}
		select {
		case c.pendingTxs <- status:
		case <-c.done:
			c.setErr(ErrClosed)
			return false
		}
	default:
		c.setErr(ErrUnexpectedMode)
		return false
	}
	return true
}

func (c *WebSocketClient) writeLoop() {
	defer close(c.writeStopped)

	for msg := range c.mb.Queue {
		if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
			c.setErr(err)
			return
		}
	}
	_ = c.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
}

func (c *WebSocketClient) setErr(err error) {
	c.errl.Do(func() {
		if c.closed.Load() {
			err = ErrClosed
		}
		c.err = err
	})
}

// RegisterResults subscribes to the result of every accepted transaction.
func (c *WebSocketClient) RegisterResults() error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.mb.Send([]byte{ResultMode})
}

// ListenResult returns the next result streamed by the node.
func (c *WebSocketClient) ListenResult(ctx context.Context) (*chain.Result, error) {
	select {
	case r := <-c.pendingResults:
		return r, nil
	case <-c.readStopped:
		return nil, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RegisterTx submits [tx]. Its outcome is returned by [ListenTx].
func (c *WebSocketClient) RegisterTx(tx *chain.Transaction) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.mb.Send(append([]byte{TxMode}, tx.Bytes()...))
}

// ListenTx returns the outcome of the next submitted transaction the node
// has decided on.
func (c *WebSocketClient) ListenTx(ctx context.Context) (*TxStatus, error) {
	select {
	case s := <-c.pendingTxs:
		return s, nil
	case <-c.readStopped:
		return nil, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close flushes queued messages and closes the connection.
func (c *WebSocketClient) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	_ = c.mb.Close()
	<-c.writeStopped
	close(c.done)
	err := c.conn.Close()
	<-c.readStopped
	return err
}
