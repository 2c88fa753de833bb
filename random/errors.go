// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package random

import "errors"

var ErrInvalidEntropy = errors.New("invalid stored entropy")
