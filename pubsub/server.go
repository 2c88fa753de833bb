// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server upgrades HTTP requests to websocket connections and publishes
// messages to them. It is an [http.Handler] and is mounted on the API
// server rather than listening on its own.
type Server struct {
	log      logging.Logger
	config   *ServerConfig
	upgrader websocket.Upgrader
	conns    *Connections
	// Called for every message a client sends. May be nil.
	callback Callback
}

func New(log logging.Logger, config *ServerConfig, callback Callback) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			// Origins are enforced by the API server.
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		conns:    NewConnections(),
		callback: callback,
	}
}

// ServeHTTP upgrades the request and starts the connection pumps.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	conn := &Connection{
		s:    s,
		conn: wsConn,
		mb: NewMessageBuffer(
			s.log,
			s.config.MaxPendingMessages,
			s.config.TargetWriteMessageSize,
			s.config.MaxWriteMessageWait,
		),
	}
	conn.active.Store(true)
	s.conns.Add(conn)

	go conn.writePump()
	go conn.readPump()
}

// Publish sends [msg] to every connection in [toConns] still held by [s].
func (s *Server) Publish(msg []byte, toConns *Connections) {
	for _, conn := range toConns.Conns() {
		if !s.conns.Has(conn) {
			continue
		}
		if !conn.Send(msg) {
			s.log.Verbo(
				"dropping message to subscribed connection due to too many pending messages",
			)
		}
	}
}

// Broadcast sends [msg] to every connection.
func (s *Server) Broadcast(msg []byte) {
	s.Publish(msg, s.conns)
}

// Connections returns the live connections of [s].
func (s *Server) Connections() *Connections {
	return s.conns
}

func (s *Server) removeConnection(conn *Connection) {
	s.conns.Remove(conn)
}

// Close disconnects every client.
func (s *Server) Close() {
	for _, conn := range s.conns.Conns() {
		s.removeConnection(conn)
		conn.deactivate()
	}
}
