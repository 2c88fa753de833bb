// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"io"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Callback handles one message read from [Connection].
type Callback func([]byte, *Connection)

// Connection is a single websocket client of [Server].
type Connection struct {
	s *Server

	conn *websocket.Conn

	// Outbound messages, batched.
	mb *MessageBuffer

	// Represents if the connection can receive new messages.
	active atomic.Bool
}

func (c *Connection) isActive() bool {
	return c.active.Load()
}

func (c *Connection) deactivate() {
	if c.active.CompareAndSwap(true, false) {
		_ = c.mb.Close()
	}
}

// Send queues [msg] and returns whether it was accepted.
func (c *Connection) Send(msg []byte) bool {
	if !c.isActive() {
		return false
	}
	if err := c.mb.Send(msg); err != nil {
		c.s.log.Debug("unable to send message", zap.Error(err))
		return false
	}
	return true
}

// readPump reads batches from the client and hands every message to the
// server callback. At most one readPump runs per connection.
func (c *Connection) readPump() {
	defer func() {
		c.s.removeConnection(c)
		c.deactivate()

		// close is called by both the writePump and the readPump so one of them
		// will always error
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(c.s.config.MaxReadMessageSize)
	// SetReadDeadline returns an error if the connection is corrupted
	if err := c.conn.SetReadDeadline(time.Now().Add(c.s.config.PongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.s.config.PongWait))
	})
	for {
		_, reader, err := c.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				c.s.log.Debug("unexpected close in websockets",
					zap.Error(err),
				)
			}
			return
		}
		if c.s.callback == nil {
			continue
		}
		responseBytes, err := io.ReadAll(reader)
		if err != nil {
			c.s.log.Debug("unexpected error reading bytes from websockets",
				zap.Error(err),
			)
			return
		}
		msgs, err := ParseBatchMessage(int(c.s.config.MaxReadMessageSize), responseBytes)
		if err != nil {
			c.s.log.Debug("unable to read websockets message",
				zap.Error(err),
			)
			return
		}
		for _, msg := range msgs {
			c.s.callback(msg, c)
		}
	}
}

// writePump writes queued batches and keeps the connection alive with pings.
// At most one writePump runs per connection.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.s.config.PingPeriod)
	defer func() {
		c.s.removeConnection(c)
		c.deactivate()
		ticker.Stop()

		// close is called by both the writePump and the readPump so one of them
		// will always error
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.mb.Queue:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WriteWait)); err != nil {
				c.s.log.Debug("closing the connection",
					zap.String("reason", "failed to set the write deadline"),
					zap.Error(err),
				)
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				c.s.log.Debug("closing the connection",
					zap.String("reason", "failed to write message"),
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.s.config.WriteWait)); err != nil {
				c.s.log.Debug("closing the connection",
					zap.String("reason", "failed to set the write deadline"),
					zap.Error(err),
				)
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
