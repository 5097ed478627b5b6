/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operation

import "encoding/json"

// wireFormat is the self-describing JSON envelope a client submits to the
// rooter and that ends up, byte-for-byte, as one entry in a batch file. It
// is also exactly the buffer that gets hashed for every operation type
// other than Create (spec data model: OperationHash hashes "the entire
// operation byte buffer" for non-Create operations).
type wireFormat struct {
	Type                  Type   `json:"type"`
	EncodedPayload        []byte `json:"encodedPayload"`
	PreviousOperationHash Hash   `json:"previousOperationHash,omitempty"`
}

// Marshal encodes a client-submitted operation into the raw byte buffer
// the rooter queues and the batch file codec stores.
func Marshal(opType Type, encodedPayload []byte, previousOperationHash Hash) ([]byte, error) {
	return json.Marshal(wireFormat{
		Type:                  opType,
		EncodedPayload:        encodedPayload,
		PreviousOperationHash: previousOperationHash,
	})
}

// Unmarshal decodes a raw operation buffer (as read back out of a batch
// file) into a WriteOperation, attaching the resolved-transaction envelope
// supplied by the caller.
func Unmarshal(buf []byte, info Info) (*WriteOperation, error) {
	var w wireFormat
	if err := json.Unmarshal(buf, &w); err != nil {
		return nil, err
	}

	return &WriteOperation{
		Type:                  w.Type,
		EncodedPayload:        w.EncodedPayload,
		PreviousOperationHash: w.PreviousOperationHash,
		OperationBuffer:       buf,
		BlockNumber:           info.Timestamp.BlockNumber,
		TransactionNumber:     info.Timestamp.TransactionNumber,
		OperationIndex:        info.Timestamp.OperationIndex,
		BatchFileHash:         info.BatchFileHash,
		AnchorFileHash:        info.AnchorFileHash,
	}, nil
}
