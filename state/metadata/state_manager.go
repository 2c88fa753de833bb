// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metadata

import (
	"bytes"

	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/ava-labs/kittyvm/keys"
)

const (
	defaultHeightPrefix    byte = 0x0
	defaultTimestampPrefix byte = 0x1
	defaultEntropyPrefix   byte = 0x2

	// DefaultMinimumPrefix is the first prefix free for VM tables.
	DefaultMinimumPrefix byte = 0x3

	heightChunks    uint16 = 1
	timestampChunks uint16 = 1
	entropyChunks   uint16 = 1
)

// MetadataManager owns the keys the host writes once per block.
type MetadataManager struct {
	heightPrefix    []byte
	timestampPrefix []byte
	entropyPrefix   []byte
}

func NewManager(
	heightPrefix []byte,
	timestampPrefix []byte,
	entropyPrefix []byte,
) MetadataManager {
	return MetadataManager{
		heightPrefix:    heightPrefix,
		timestampPrefix: timestampPrefix,
		entropyPrefix:   entropyPrefix,
	}
}

func NewDefaultManager() MetadataManager {
	return MetadataManager{
		heightPrefix:    []byte{defaultHeightPrefix},
		timestampPrefix: []byte{defaultTimestampPrefix},
		entropyPrefix:   []byte{defaultEntropyPrefix},
	}
}

func (m MetadataManager) HeightPrefix() []byte {
	return m.heightPrefix
}

func (m MetadataManager) TimestampPrefix() []byte {
	return m.timestampPrefix
}

func (m MetadataManager) EntropyPrefix() []byte {
	return m.entropyPrefix
}

func (m MetadataManager) HeightKey() []byte {
	return keys.EncodeChunks(bytes.Clone(m.heightPrefix), heightChunks)
}

func (m MetadataManager) TimestampKey() []byte {
	return keys.EncodeChunks(bytes.Clone(m.timestampPrefix), timestampChunks)
}

func (m MetadataManager) EntropyKey() []byte {
	return keys.EncodeChunks(bytes.Clone(m.entropyPrefix), entropyChunks)
}

// Returns true if any two prefixes in `m` and `vmPrefixes` overlap
func HasConflictingPrefixes(
	m MetadataManager,
	vmPrefixes [][]byte,
) bool {
	prefixes := [][]byte{
		m.HeightPrefix(),
		m.TimestampPrefix(),
		m.EntropyPrefix(),
	}

	prefixes = append(prefixes, vmPrefixes...)
	verifiedPrefixes := set.Set[string]{}

	for _, p := range prefixes {
		for vp := range verifiedPrefixes {
			if bytes.HasPrefix(p, []byte(vp)) || bytes.HasPrefix([]byte(vp), p) {
				return true
			}
		}

		verifiedPrefixes.Add(string(p))
	}

	return false
}
