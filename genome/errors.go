// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genome

import "errors"

var ErrInvalidDNALength = errors.New("invalid dna length")
