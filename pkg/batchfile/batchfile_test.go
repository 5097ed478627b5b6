/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package batchfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	ops := [][]byte{[]byte("op-a"), []byte("op-b"), []byte("op-c")}

	f := FromOperations(ops)

	buf, err := f.ToBuffer()
	require.NoError(t, err)

	decoded, err := FromBuffer(buf)
	require.NoError(t, err)
	require.Equal(t, len(ops), decoded.Len())

	for i, op := range ops {
		got, err := decoded.GetOperationBuffer(i)
		require.NoError(t, err)
		require.Equal(t, op, got)
	}
}

func TestToBuffer_deterministic(t *testing.T) {
	ops := [][]byte{[]byte("op-a"), []byte("op-b")}

	buf1, err := FromOperations(ops).ToBuffer()
	require.NoError(t, err)

	buf2, err := FromOperations(ops).ToBuffer()
	require.NoError(t, err)

	require.Equal(t, buf1, buf2)
}

func TestFromBuffer_malformed(t *testing.T) {
	_, err := FromBuffer([]byte("not json"))
	require.ErrorIs(t, err, ErrMalformedBatchFile)
}

func TestGetOperationBuffer_outOfRange(t *testing.T) {
	f := FromOperations([][]byte{[]byte("op-a")})

	_, err := f.GetOperationBuffer(1)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = f.GetOperationBuffer(-1)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}
