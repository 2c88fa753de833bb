// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer"
	"go.uber.org/zap"

	"github.com/ava-labs/kittyvm/consts"
)

// MessageBuffer batches outgoing messages and hands each batch to [Queue].
type MessageBuffer struct {
	Queue chan []byte

	l            sync.Mutex
	log          logging.Logger
	pending      [][]byte
	pendingSize  int
	maxSize      int
	timeout      time.Duration
	pendingTimer *timer.Timer
	closed       bool
}

func NewMessageBuffer(log logging.Logger, pending int, maxSize int, timeout time.Duration) *MessageBuffer {
	m := &MessageBuffer{
		Queue: make(chan []byte, pending),

		log:     log,
		pending: [][]byte{},
		maxSize: maxSize,
		timeout: timeout,
	}
	m.pendingTimer = timer.NewTimer(func() {
		m.l.Lock()
		defer m.l.Unlock()

		if m.closed {
			return
		}
		l := len(m.pending)
		if l == 0 {
			return
		}
		m.clearPending()
		log.Debug("sent messages", zap.Int("count", l))
	})
	go m.pendingTimer.Dispatch()
	return m
}

func (m *MessageBuffer) Close() error {
	m.l.Lock()
	defer m.l.Unlock()

	if m.closed {
		return ErrClosed
	}

	// Anything pending is queued before the channel closes. The writer drains
	// [Queue] before closing its connection.
	if len(m.pending) > 0 {
		m.clearPending()
	}

	m.pendingTimer.Stop()
	m.closed = true
	close(m.Queue)
	return nil
}

func (m *MessageBuffer) clearPending() {
	bm, err := CreateBatchMessage(consts.MaxInt, m.pending)
	if err != nil {
		m.log.Warn("unable to create batch message", zap.Error(err))
	} else {
		select {
		case m.Queue <- bm:
		default:
			m.log.Debug("dropped pending message")
		}
	}

	m.pendingSize = 0
	m.pending = [][]byte{}
}

// Send buffers [msg]. A full buffer is flushed first, and a partial one is
// flushed once [timeout] passes after its first message.
func (m *MessageBuffer) Send(msg []byte) error {
	m.l.Lock()
	defer m.l.Unlock()

	if m.closed {
		return ErrClosed
	}

	l := len(msg)
	if l > m.maxSize {
		return ErrMessageTooLarge
	}

	if m.pendingSize+l > m.maxSize {
		m.pendingTimer.Cancel()
		m.clearPending()
	}

	m.pendingSize += l
	m.pending = append(m.pending, msg)
	if len(m.pending) == 1 {
		m.pendingTimer.SetTimeoutIn(m.timeout)
	}
	return nil
}
