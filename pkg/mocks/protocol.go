/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import "github.com/yancyribbens/sidetree-core/pkg/api/protocol"

// sha2_256 is the multihash code for SHA-256.
const sha2_256 = 18

// NewProtocolTable creates a single-entry protocol table for testing, with
// a low MaxOperationsPerBatch so batching behavior is easy to exercise.
func NewProtocolTable() *protocol.Table {
	return protocol.NewTable(protocol.Entry{
		StartingBlockChainTime: 0,
		Protocol: protocol.Protocol{
			MaxOperationsPerBatch: 2,
			HashAlgorithmCode:     sha2_256,
			MaxDeltaByteSize:      2000,
		},
	})
}
