/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package protocol defines the versioned protocol parameters consumed by the
// rooter and the projection.
package protocol

import (
	"sort"

	"github.com/pkg/errors"
)

// Protocol defines protocol parameters effective for a range of blocks.
type Protocol struct {
	// MaxOperationsPerBatch defines the maximum number of operations in a batch file.
	MaxOperationsPerBatch uint

	// HashAlgorithmCode is the multihash code used to hash operations and files.
	HashAlgorithmCode uint64

	// MaxDeltaByteSize is maximum size of the encoded operation payload.
	MaxDeltaByteSize uint
}

// Entry associates a protocol with the block at which it first takes effect.
type Entry struct {
	// StartingBlockChainTime is the inclusive starting block number this protocol applies to.
	StartingBlockChainTime uint64

	Protocol Protocol
}

// Table is a sorted list of protocol entries keyed by starting block number.
// Get resolves the parameters effective at a given block number by returning
// the entry with the greatest StartingBlockChainTime <= block.
type Table struct {
	entries []Entry
}

// NewTable creates a protocol table from the given entries. Entries do not
// need to be pre-sorted; NewTable sorts them ascending by StartingBlockChainTime.
func NewTable(entries ...Entry) *Table {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartingBlockChainTime < sorted[j].StartingBlockChainTime
	})

	return &Table{entries: sorted}
}

// Get returns the protocol parameters effective at the given block number.
func (t *Table) Get(block uint64) (Protocol, error) {
	if len(t.entries) == 0 {
		return Protocol{}, errors.New("protocol table is empty")
	}

	if block < t.entries[0].StartingBlockChainTime {
		return Protocol{}, errors.Errorf("no protocol defined for block %d", block)
	}

	// entries are sorted ascending; find the last entry whose starting block is <= block.
	idx := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].StartingBlockChainTime > block
	})

	return t.entries[idx-1].Protocol, nil
}
