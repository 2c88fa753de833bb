// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"errors"
	"time"

	"github.com/ava-labs/avalanchego/utils/units"
)

const (
	readBufferSize     = units.KiB
	writeBufferSize    = units.KiB
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	maxMessageSize     = 256 * units.KiB
	maxPendingMessages = 1_024
	targetMessageSize  = 10 * units.KiB
	maxMessageWait     = 50 * time.Millisecond
)

var (
	ErrClosed          = errors.New("closed")
	ErrMessageTooLarge = errors.New("message too large")
)

type ServerConfig struct {
	ReadBufferSize     int           `json:"readBufferSize"     yaml:"readBufferSize"`
	WriteBufferSize    int           `json:"writeBufferSize"    yaml:"writeBufferSize"`
	WriteWait          time.Duration `json:"writeWait"          yaml:"writeWait"`
	PongWait           time.Duration `json:"pongWait"           yaml:"pongWait"`
	PingPeriod         time.Duration `json:"pingPeriod"         yaml:"pingPeriod"`
	MaxReadMessageSize int64         `json:"maxReadMessageSize" yaml:"maxReadMessageSize"`
	MaxPendingMessages int           `json:"maxPendingMessages" yaml:"maxPendingMessages"`

	// Messages published to a connection are batched until the batch reaches
	// [TargetWriteMessageSize] or [MaxWriteMessageWait] passes.
	TargetWriteMessageSize int           `json:"targetWriteMessageSize" yaml:"targetWriteMessageSize"`
	MaxWriteMessageWait    time.Duration `json:"maxWriteMessageWait"    yaml:"maxWriteMessageWait"`
}

func NewDefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:         readBufferSize,
		WriteBufferSize:        writeBufferSize,
		WriteWait:              writeWait,
		PongWait:               pongWait,
		PingPeriod:             pingPeriod,
		MaxReadMessageSize:     maxMessageSize,
		MaxPendingMessages:     maxPendingMessages,
		TargetWriteMessageSize: targetMessageSize,
		MaxWriteMessageWait:    maxMessageWait,
	}
}
