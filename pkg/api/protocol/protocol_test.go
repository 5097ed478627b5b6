/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTable_Get(t *testing.T) {
	table := NewTable(
		Entry{StartingBlockChainTime: 100, Protocol: Protocol{MaxOperationsPerBatch: 10}},
		Entry{StartingBlockChainTime: 0, Protocol: Protocol{MaxOperationsPerBatch: 1}},
		Entry{StartingBlockChainTime: 50, Protocol: Protocol{MaxOperationsPerBatch: 5}},
	)

	t.Run("first entry's starting block", func(t *testing.T) {
		_, err := table.Get(0)
		require.NoError(t, err)
	})

	t.Run("between entries picks the lower one", func(t *testing.T) {
		p, err := table.Get(75)
		require.NoError(t, err)
		require.EqualValues(t, 5, p.MaxOperationsPerBatch)
	})

	t.Run("exact match", func(t *testing.T) {
		p, err := table.Get(100)
		require.NoError(t, err)
		require.EqualValues(t, 10, p.MaxOperationsPerBatch)
	})

	t.Run("past last entry", func(t *testing.T) {
		p, err := table.Get(1000)
		require.NoError(t, err)
		require.EqualValues(t, 10, p.MaxOperationsPerBatch)
	})
}

func TestTable_Get_empty(t *testing.T) {
	table := NewTable()

	_, err := table.Get(0)
	require.Error(t, err)
}
