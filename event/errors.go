// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import "errors"

var ErrClosed = errors.New("subscription closed")
