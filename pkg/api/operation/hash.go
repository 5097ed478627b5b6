/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operation

import "github.com/yancyribbens/sidetree-core/pkg/hashing"

// ComputeHash computes op's OperationHash per the rule in the data model:
// a Create operation hashes its encoded payload; every other type hashes
// the entire operation buffer.
func ComputeHash(op *WriteOperation, hashAlgorithmCode uint64) (Hash, error) {
	var content []byte

	if op.Type == TypeCreate {
		content = op.EncodedPayload
	} else {
		content = op.OperationBuffer
	}

	return hashing.HashAndEncode(hashAlgorithmCode, content)
}
