/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package hashing computes multihashes and the Base58-encoded OperationHash
// identifiers used throughout the projection and the batching pipeline.
package hashing

import (
	"crypto"
	"fmt"
	"hash"

	"github.com/mr-tron/base58/base58"
	"github.com/multiformats/go-multihash"
)

// ComputeMultihash hashes data with the algorithm identified by multihashCode
// and returns the self-describing multihash bytes.
func ComputeMultihash(multihashCode uint64, data []byte) ([]byte, error) {
	h, err := getHash(multihashCode)
	if err != nil {
		return nil, err
	}

	if _, err := h.Write(data); err != nil {
		return nil, err
	}

	return multihash.Encode(h.Sum(nil), multihashCode)
}

// EncodeToString Base58-encodes a multihash.
func EncodeToString(multihashBytes []byte) string {
	return base58.Encode(multihashBytes)
}

// DecodeString decodes a Base58-encoded multihash.
func DecodeString(encoded string) ([]byte, error) {
	return base58.Decode(encoded)
}

// GetMultihashCode returns the multihash code embedded in an encoded hash.
func GetMultihashCode(encoded string) (uint64, error) {
	decoded, err := DecodeString(encoded)
	if err != nil {
		return 0, err
	}

	mh, err := multihash.Decode(decoded)
	if err != nil {
		return 0, err
	}

	return mh.Code, nil
}

func getHash(multihashCode uint64) (h hash.Hash, err error) {
	switch multihashCode {
	case multihash.SHA2_256:
		h = crypto.SHA256.New()
	default:
		err = fmt.Errorf("hashing algorithm not supported: multihash code %d", multihashCode)
	}

	return h, err
}

// HashAndEncode computes the multihash of data and returns it Base58-encoded.
func HashAndEncode(multihashCode uint64, data []byte) (string, error) {
	mh, err := ComputeMultihash(multihashCode, data)
	if err != nil {
		return "", err
	}

	return EncodeToString(mh), nil
}
