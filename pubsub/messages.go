// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
)

// CreateBatchMessage packs [msgs] into a single websocket frame.
func CreateBatchMessage(maxSize int, msgs [][]byte) ([]byte, error) {
	size := consts.IntLen
	for _, msg := range msgs {
		size += codec.BytesLen(msg)
	}
	p := codec.NewWriter(size, maxSize)
	p.PackUint32(uint32(len(msgs)))
	for _, msg := range msgs {
		p.PackBytes(msg)
	}
	return p.Bytes(), p.Err()
}

// ParseBatchMessage is the inverse of [CreateBatchMessage].
func ParseBatchMessage(maxSize int, msg []byte) ([][]byte, error) {
	p := codec.NewReader(msg, maxSize)
	count := p.UnpackUint32(false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	msgs := make([][]byte, 0, min(int(count), len(msg)/consts.IntLen))
	for i := uint32(0); i < count; i++ {
		var m []byte
		p.UnpackBytes(-1, true, &m)
		if err := p.Err(); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if !p.Empty() {
		return nil, codec.ErrExtraBytes
	}
	return msgs, p.Err()
}
