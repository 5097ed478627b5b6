/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package merkle

import (
	"testing"

	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/require"

	"github.com/yancyribbens/sidetree-core/pkg/hashing"
)

func TestRootHash_singleLeaf(t *testing.T) {
	payload := []byte("op-a")

	root, err := RootHash([][]byte{payload}, multihash.SHA2_256)
	require.NoError(t, err)

	leaf, err := hashing.ComputeMultihash(multihash.SHA2_256, payload)
	require.NoError(t, err)

	require.Equal(t, leaf, root)
}

func TestRootHash_deterministic(t *testing.T) {
	payloads := [][]byte{[]byte("op-a"), []byte("op-b"), []byte("op-c")}

	root1, err := RootHash(payloads, multihash.SHA2_256)
	require.NoError(t, err)

	root2, err := RootHash(payloads, multihash.SHA2_256)
	require.NoError(t, err)

	require.Equal(t, root1, root2)
}

func TestRootHash_oddCountDuplicatesLast(t *testing.T) {
	payloads := [][]byte{[]byte("op-a"), []byte("op-b"), []byte("op-c")}

	root, err := RootHash(payloads, multihash.SHA2_256)
	require.NoError(t, err)

	// manually duplicate the last leaf and recompute, expecting the same root.
	leaves := make([][]byte, 3)
	for i, p := range payloads {
		leaves[i], err = hashing.ComputeMultihash(multihash.SHA2_256, p)
		require.NoError(t, err)
	}

	left, err := hashing.ComputeMultihash(multihash.SHA2_256, append(append([]byte{}, leaves[0]...), leaves[1]...))
	require.NoError(t, err)

	right, err := hashing.ComputeMultihash(multihash.SHA2_256, append(append([]byte{}, leaves[2]...), leaves[2]...))
	require.NoError(t, err)

	expected, err := hashing.ComputeMultihash(multihash.SHA2_256, append(append([]byte{}, left...), right...))
	require.NoError(t, err)

	require.Equal(t, expected, root)
}

func TestRootHash_empty(t *testing.T) {
	_, err := RootHash(nil, multihash.SHA2_256)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestRootHash_differentOrderDifferentRoot(t *testing.T) {
	a := [][]byte{[]byte("op-a"), []byte("op-b")}
	b := [][]byte{[]byte("op-b"), []byte("op-a")}

	rootA, err := RootHash(a, multihash.SHA2_256)
	require.NoError(t, err)

	rootB, err := RootHash(b, multihash.SHA2_256)
	require.NoError(t, err)

	require.NotEqual(t, rootA, rootB)
}
