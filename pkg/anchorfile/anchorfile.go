/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package anchorfile defines the small CAS artifact committing a batch
// file's hash and its Merkle root.
package anchorfile

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/yancyribbens/sidetree-core/pkg/canonicalizer"
)

// ErrMalformedAnchorFile is returned when decoding fails.
var ErrMalformedAnchorFile = errors.New("malformed anchor file")

// File is the canonical {batchFileHash, merkleRoot} artifact. Field order
// is fixed and there are no optional fields, so JSON struct marshaling is
// deterministic.
type File struct {
	BatchFileHash string `json:"batchFileHash"`
	MerkleRoot    string `json:"merkleRoot"`
}

// New builds an anchor file referencing the given batch file hash and
// Merkle root.
func New(batchFileHash, merkleRoot string) *File {
	return &File{BatchFileHash: batchFileHash, MerkleRoot: merkleRoot}
}

// ToBuffer serializes the anchor file to its canonical byte representation.
func (f *File) ToBuffer() ([]byte, error) {
	return canonicalizer.MarshalCanonical(f)
}

// FromBuffer decodes an anchor file from its canonical byte representation.
func FromBuffer(buf []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(buf, &f); err != nil {
		return nil, errors.Wrap(ErrMalformedAnchorFile, err.Error())
	}

	return &f, nil
}
