// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *ServerConfig {
	cfg := NewDefaultServerConfig()
	cfg.MaxWriteMessageWait = 10 * time.Millisecond
	return cfg
}

func dial(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	u := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool {
		return s.Connections().Len() == 1
	}, 5*time.Second, 10*time.Millisecond)
	return conn
}

func readMessages(t *testing.T, conn *websocket.Conn, n int) [][]byte {
	t.Helper()
	require := require.New(t)

	msgs := [][]byte{}
	require.NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	for len(msgs) < n {
		typ, b, err := conn.ReadMessage()
		require.NoError(err)
		require.Equal(websocket.BinaryMessage, typ)
		batch, err := ParseBatchMessage(maxMessageSize, b)
		require.NoError(err)
		msgs = append(msgs, batch...)
	}
	return msgs
}

func TestServerBroadcast(t *testing.T) {
	require := require.New(t)

	s := New(logging.NoLog{}, newTestConfig(), nil)
	defer s.Close()
	conn := dial(t, s)

	s.Broadcast([]byte("first"))
	s.Broadcast([]byte("second"))
	require.Equal([][]byte{[]byte("first"), []byte("second")}, readMessages(t, conn, 2))
}

func TestServerCallback(t *testing.T) {
	require := require.New(t)

	received := make(chan []byte, 2)
	s := New(logging.NoLog{}, newTestConfig(), func(msg []byte, c *Connection) {
		received <- msg
		c.Send(append([]byte("ack:"), msg...))
	})
	defer s.Close()
	conn := dial(t, s)

	batch, err := CreateBatchMessage(maxMessageSize, [][]byte{[]byte("x"), []byte("y")})
	require.NoError(err)
	require.NoError(conn.WriteMessage(websocket.BinaryMessage, batch))

	require.Equal([]byte("x"), <-received)
	require.Equal([]byte("y"), <-received)
	require.Equal([][]byte{[]byte("ack:x"), []byte("ack:y")}, readMessages(t, conn, 2))
}

func TestServerRemovesClosedConnections(t *testing.T) {
	require := require.New(t)

	s := New(logging.NoLog{}, newTestConfig(), nil)
	conn := dial(t, s)

	require.NoError(conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.NoError(conn.Close())
	require.Eventually(func() bool {
		return s.Connections().Len() == 0
	}, 5*time.Second, 10*time.Millisecond)

	// Publishing to no one is a no-op.
	s.Broadcast([]byte("nobody"))
}

func TestServerClose(t *testing.T) {
	require := require.New(t)

	s := New(logging.NoLog{}, newTestConfig(), nil)
	conn := dial(t, s)
	s.Close()
	require.Zero(s.Connections().Len())

	require.NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(err)
}

func TestBatchMessage(t *testing.T) {
	require := require.New(t)

	msgs := [][]byte{[]byte("a"), []byte("bc")}
	b, err := CreateBatchMessage(maxMessageSize, msgs)
	require.NoError(err)
	parsed, err := ParseBatchMessage(maxMessageSize, b)
	require.NoError(err)
	require.Equal(msgs, parsed)

	_, err = ParseBatchMessage(maxMessageSize, append(b, 0))
	require.Error(err)

	_, err = CreateBatchMessage(4, msgs)
	require.Error(err)
}

func TestMessageBuffer(t *testing.T) {
	require := require.New(t)

	mb := NewMessageBuffer(logging.NoLog{}, 4, 4, time.Hour)
	require.ErrorIs(mb.Send([]byte("large")), ErrMessageTooLarge)

	require.NoError(mb.Send([]byte("ab")))
	require.NoError(mb.Send([]byte("cd")))
	// Exceeding the target size flushes the pending batch.
	require.NoError(mb.Send([]byte("e")))
	flushed, err := ParseBatchMessage(maxMessageSize, <-mb.Queue)
	require.NoError(err)
	require.Equal([][]byte{[]byte("ab"), []byte("cd")}, flushed)

	require.NoError(mb.Close())
	flushed, err = ParseBatchMessage(maxMessageSize, <-mb.Queue)
	require.NoError(err)
	require.Equal([][]byte{[]byte("e")}, flushed)
	_, ok := <-mb.Queue
	require.False(ok)

	require.ErrorIs(mb.Send([]byte("f")), ErrClosed)
	require.ErrorIs(mb.Close(), ErrClosed)
}
