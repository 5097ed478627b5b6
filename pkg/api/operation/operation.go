/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package operation defines the raw and resolved operation types exchanged
// between the rooter, the CAS and the DID state projection.
package operation

// Type defines the valid operation type tags.
type Type string

const (
	// TypeCreate captures the "create" operation type. A create operation is
	// a root of its version chain: it carries no PreviousOperationHash.
	TypeCreate Type = "create"

	// TypeUpdate captures the "update" operation type.
	TypeUpdate Type = "update"

	// TypeDelete captures the "delete" operation type.
	TypeDelete Type = "delete"

	// TypeRecover captures the "recover" operation type.
	TypeRecover Type = "recover"
)

// Hash is a Base58-encoded multihash identifying an operation. For Create
// operations it is the multihash of the encoded create payload; for all
// other types it is the multihash of the entire operation byte buffer.
type Hash = string

// VersionId is an alias of Hash: it identifies the DID-document version
// produced by a particular operation.
type VersionId = Hash

// Timestamp is the linear order used by the projection:
// lexicographic on (TransactionNumber, OperationIndex). BlockNumber is
// carried for context and for rollback.
type Timestamp struct {
	BlockNumber       uint64
	TransactionNumber uint64
	OperationIndex    uint
}

// Less reports whether t is strictly earlier than other in the projection's
// ordering.
func (t Timestamp) Less(other Timestamp) bool {
	if t.TransactionNumber != other.TransactionNumber {
		return t.TransactionNumber < other.TransactionNumber
	}

	return t.OperationIndex < other.OperationIndex
}

// QueuedOperation is a raw operation payload accepted by the rooter, not yet
// resolved against the ledger.
type QueuedOperation struct {
	EncodedPayload []byte
}

// WriteOperation is a fully-typed operation, either freshly submitted
// (Timestamp is the zero value) or resolved against the ledger by the
// observer before being handed to the projection's Apply.
type WriteOperation struct {
	Type Type

	// EncodedPayload is the operation's own payload, exclusive of the
	// resolved-transaction envelope below.
	EncodedPayload []byte

	// PreviousOperationHash is unset for Create operations and required
	// for every other type.
	PreviousOperationHash Hash

	// OperationBuffer is the entire operation byte buffer as submitted.
	// Non-Create hashes are computed over this buffer.
	OperationBuffer []byte

	// Resolved-transaction envelope, populated by the observer once the
	// operation has been read back out of a batch file.
	BlockNumber       uint64
	TransactionNumber uint64
	OperationIndex    uint
	BatchFileHash     string
	AnchorFileHash    string
}

// Timestamp extracts the operation's position in ledger order.
func (op *WriteOperation) Timestamp() Timestamp {
	return Timestamp{
		BlockNumber:       op.BlockNumber,
		TransactionNumber: op.TransactionNumber,
		OperationIndex:    op.OperationIndex,
	}
}

// Info is the projection's compressed record of an operation: enough to
// fetch the full operation lazily via CAS, without retaining the operation
// body in memory.
type Info struct {
	BatchFileHash  string
	AnchorFileHash string
	Type           Type
	Timestamp      Timestamp
}
