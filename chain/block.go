// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/ava-labs/kittyvm/codec"
	"github.com/ava-labs/kittyvm/consts"
)

const blockHeaderSize = consts.IDLen + consts.Uint64Len + consts.Int64Len + consts.IntLen

// Block is an ordered batch of transactions applied together.
type Block struct {
	Parent    ids.ID `json:"parent"`
	Height    uint64 `json:"height"`
	Timestamp int64  `json:"timestamp"`

	Txs []*Transaction `json:"txs"`

	id    ids.ID
	bytes []byte
}

// NewGenesisBlock is the parent of the first built block.
func NewGenesisBlock(timestamp int64) (*Block, error) {
	return NewBlock(ids.Empty, 0, timestamp, nil)
}

func NewBlock(parent ids.ID, height uint64, timestamp int64, txs []*Transaction) (*Block, error) {
	b := &Block{
		Parent:    parent,
		Height:    height,
		Timestamp: timestamp,
		Txs:       txs,
	}
	if err := b.initialize(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Block) initialize() error {
	size := blockHeaderSize
	for _, tx := range b.Txs {
		size += tx.Size()
	}
	p := codec.NewWriter(size, consts.MaxInt)
	p.PackID(b.Parent)
	p.PackUint64(b.Height)
	p.PackInt64(b.Timestamp)
	p.PackUint32(uint32(len(b.Txs)))
	for _, tx := range b.Txs {
		if err := tx.Marshal(p); err != nil {
			return err
		}
	}
	if err := p.Err(); err != nil {
		return err
	}
	b.bytes = p.Bytes()
	b.id = hashing.ComputeHash256Array(b.bytes)
	return nil
}

func (b *Block) ID() ids.ID { return b.id }

func (b *Block) Bytes() []byte { return b.bytes }

// Child checks that [b] extends [parent] and that every transaction in [b]
// is unique.
func (b *Block) Child(parent *Block, r Rules) error {
	switch {
	case b.Parent != parent.ID():
		return fmt.Errorf("%w: expected=%s, got=%s", ErrInvalidParent, parent.ID(), b.Parent)
	case b.Height != parent.Height+1:
		return fmt.Errorf("%w: expected=%d, got=%d", ErrInvalidHeight, parent.Height+1, b.Height)
	case b.Timestamp < parent.Timestamp:
		return fmt.Errorf("%w: parent=%d, block=%d", ErrTimestampRegressed, parent.Timestamp, b.Timestamp)
	case len(b.Txs) > r.GetMaxBlockTxs():
		return fmt.Errorf("%w: max=%d, got=%d", ErrTooManyTxs, r.GetMaxBlockTxs(), len(b.Txs))
	}
	seen := set.NewSet[ids.ID](len(b.Txs))
	for _, tx := range b.Txs {
		if seen.Contains(tx.ID()) {
			return fmt.Errorf("%w: %s", ErrDuplicateTx, tx.ID())
		}
		seen.Add(tx.ID())
	}
	return nil
}

func ParseBlock(raw []byte, registry Registry) (*Block, error) {
	p := codec.NewReader(raw, consts.MaxInt)
	var b Block
	p.UnpackID(false, &b.Parent)
	b.Height = p.UnpackUint64(false)
	b.Timestamp = p.UnpackInt64(false)
	numTxs := p.UnpackUint32(false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	b.Txs = make([]*Transaction, 0, min(int(numTxs), len(raw)/BaseSize))
	for i := uint32(0); i < numTxs; i++ {
		tx, err := UnmarshalTx(p, registry)
		if err != nil {
			return nil, err
		}
		b.Txs = append(b.Txs, tx)
	}
	if !p.Empty() {
		return nil, ErrExtraBytes
	}
	b.bytes = raw
	b.id = hashing.ComputeHash256Array(raw)
	return &b, nil
}
