/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package merkle builds a deterministic Merkle tree over an ordered,
// non-empty sequence of operation payloads and yields a root hash, the
// commitment the rooter includes in the anchor file.
package merkle

import (
	"github.com/pkg/errors"

	"github.com/yancyribbens/sidetree-core/pkg/hashing"
)

// ErrEmptyInput is returned when RootHash is called with no payloads. The
// rooter must guard against this; an empty batch never reaches this package.
var ErrEmptyInput = errors.New("merkle: cannot compute root of an empty input")

// RootHash computes the Merkle root over payloads using the given multihash
// algorithm. The leaf hash of a payload is exactly its multihash — the same
// primitive used to compute OperationHash elsewhere — so that a leaf in the
// tree can be independently recomputed from the original payload with no
// extra domain separation. Internal nodes hash the concatenation of their
// two children; odd levels duplicate the last node, the convention named
// "Bitcoin-style doubling" (the same rule btcsuite/btcd applies when
// building a block's transaction Merkle root).
func RootHash(payloads [][]byte, hashAlgorithmCode uint64) ([]byte, error) {
	if len(payloads) == 0 {
		return nil, ErrEmptyInput
	}

	level := make([][]byte, len(payloads))

	for i, p := range payloads {
		leaf, err := hashing.ComputeMultihash(hashAlgorithmCode, p)
		if err != nil {
			return nil, err
		}

		level[i] = leaf
	}

	for len(level) > 1 {
		level = nextLevel(level, hashAlgorithmCode)
	}

	return level[0], nil
}

func nextLevel(level [][]byte, hashAlgorithmCode uint64) [][]byte {
	if len(level)%2 != 0 {
		level = append(level, level[len(level)-1])
	}

	parents := make([][]byte, 0, len(level)/2)

	for i := 0; i < len(level); i += 2 {
		combined := append(append([]byte{}, level[i]...), level[i+1]...)

		parent, err := hashing.ComputeMultihash(hashAlgorithmCode, combined)
		if err != nil {
			// hashAlgorithmCode was already validated by the leaf pass above.
			panic(err)
		}

		parents = append(parents, parent)
	}

	return parents
}
