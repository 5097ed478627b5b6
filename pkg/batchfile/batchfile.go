/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package batchfile serializes an ordered group of raw operation payloads
// into a single opaque byte artifact and back, the CAS artifact the rooter
// calls the "batch file".
package batchfile

import (
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/yancyribbens/sidetree-core/pkg/canonicalizer"
)

// ErrMalformedBatchFile is returned when FromBuffer is given bytes that do
// not decode to a valid batch file.
var ErrMalformedBatchFile = errors.New("malformed batch file")

// ErrIndexOutOfRange is returned by GetOperationBuffer for an out-of-range index.
var ErrIndexOutOfRange = errors.New("operation index out of range")

// schema is the wire schema of a batch file: an ordered list of base64url
// encoded operation payloads. Field order is fixed (a single field), so
// canonical marshaling is deterministic for free.
type schema struct {
	Operations []string `json:"operations"`
}

// File is a decoded batch file, with indexed access to its operations.
type File struct {
	schema schema
}

// FromOperations builds a File from an ordered, non-empty sequence of raw
// operation payloads.
func FromOperations(ops [][]byte) *File {
	encoded := make([]string, len(ops))
	for i, op := range ops {
		encoded[i] = base64.URLEncoding.EncodeToString(op)
	}

	return &File{schema: schema{Operations: encoded}}
}

// FromBuffer decodes a File from its canonical byte representation.
func FromBuffer(buf []byte) (*File, error) {
	var s schema
	if err := json.Unmarshal(buf, &s); err != nil {
		return nil, errors.Wrap(ErrMalformedBatchFile, err.Error())
	}

	for _, op := range s.Operations {
		if _, err := base64.URLEncoding.DecodeString(op); err != nil {
			return nil, errors.Wrap(ErrMalformedBatchFile, err.Error())
		}
	}

	return &File{schema: s}, nil
}

// ToBuffer serializes the File to its canonical byte representation.
// Equal Files produce byte-equal output, which is what makes CAS addressing
// of batch files stable.
func (f *File) ToBuffer() ([]byte, error) {
	return canonicalizer.MarshalCanonical(f.schema)
}

// Len returns the number of operations in the batch file.
func (f *File) Len() int {
	return len(f.schema.Operations)
}

// GetOperationBuffer returns the raw payload of the operation at index i.
func (f *File) GetOperationBuffer(i int) ([]byte, error) {
	if i < 0 || i >= len(f.schema.Operations) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d, batch size %d", i, len(f.schema.Operations))
	}

	return base64.URLEncoding.DecodeString(f.schema.Operations[i])
}
