// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"time"

	"github.com/ava-labs/kittyvm/consts"
)

const (
	Name              = consts.Name
	JSONRPCEndpoint   = "/rpc"
	WebSocketEndpoint = "/ws"

	waitSleep = 250 * time.Millisecond
)
