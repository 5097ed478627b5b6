/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package projection maintains an in-memory, rollback-capable projection of
// DID-document state by replaying operations observed on the ledger. It is
// the counterpart of pkg/rooter: the rooter commits operations to CAS and
// the ledger; this package consumes them back in ledger order.
package projection

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/yancyribbens/sidetree-core/pkg/api/cas"
	"github.com/yancyribbens/sidetree-core/pkg/api/operation"
	"github.com/yancyribbens/sidetree-core/pkg/api/protocol"
	"github.com/yancyribbens/sidetree-core/pkg/batchfile"
	"github.com/yancyribbens/sidetree-core/pkg/document"
)

var logger = log.New("sidetree-core-projection")

// ErrInvalidOperation is returned by Apply when the operation is missing
// required resolved-transaction metadata.
var ErrInvalidOperation = errors.New("invalid operation: missing resolved-transaction metadata")

// Config holds the projection's external configuration.
type Config struct {
	// DIDMethodName becomes a document's id, as is, when the patches of its
	// Create operation leave the id unset; an id set by those patches is
	// kept unchanged.
	DIDMethodName string
}

// Projection maintains opInfoByHash and chosenNext, the two maps described
// in the data model, and reconstructs DID documents lazily from CAS on read.
type Projection struct {
	cfg      Config
	cas      cas.Client
	protocol *protocol.Table

	mutex sync.RWMutex

	opInfoByHash map[operation.Hash]operation.Info
	chosenNext   map[operation.VersionId]operation.VersionId

	lastProcessedTransaction uint64
}

// New creates a Projection backed by the given CAS client. protocolTable
// resolves the multihash algorithm in effect at the block number an
// operation was anchored in, so that recomputing OperationHash uses the
// same algorithm the anchoring Rooter used.
func New(cfg Config, casClient cas.Client, protocolTable *protocol.Table) *Projection {
	return &Projection{
		cfg:          cfg,
		cas:          casClient,
		protocol:     protocolTable,
		opInfoByHash: make(map[operation.Hash]operation.Info),
		chosenNext:   make(map[operation.VersionId]operation.VersionId),
	}
}

// LastProcessedTransaction returns the highest TransactionNumber that has
// been fully applied.
func (p *Projection) LastProcessedTransaction() uint64 {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.lastProcessedTransaction
}

// Apply applies a resolved operation to the projection. It returns the
// operation's hash, or "" if the arrival lost the duplicate-resolution race
// (an earlier-timestamped observation of the same hash already won).
//
// apply and rollback do not suspend: they never touch CAS, only the two
// in-memory maps, so callers may invoke them without a context.
func (p *Projection) Apply(op *operation.WriteOperation) (operation.Hash, error) {
	if op.BatchFileHash == "" {
		return "", ErrInvalidOperation
	}

	hashAlgorithmCode, err := p.hashAlgorithmCodeFor(op)
	if err != nil {
		return "", err
	}

	h, err := operation.ComputeHash(op, hashAlgorithmCode)
	if err != nil {
		return "", err
	}

	info := operation.Info{
		BatchFileHash:  op.BatchFileHash,
		AnchorFileHash: op.AnchorFileHash,
		Type:           op.Type,
		Timestamp:      op.Timestamp(),
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if existing, ok := p.opInfoByHash[h]; ok && existing.Timestamp.Less(info.Timestamp) {
		logger.Debugf("duplicate operation %s at %+v lost the race to earlier observation at %+v",
			h, info.Timestamp, existing.Timestamp)

		return "", nil
	}

	p.opInfoByHash[h] = info

	if op.PreviousOperationHash != "" {
		p.updateChosenNext(op.PreviousOperationHash, h, info)
	}

	if info.Timestamp.TransactionNumber > p.lastProcessedTransaction {
		p.lastProcessedTransaction = info.Timestamp.TransactionNumber
	}

	return h, nil
}

// updateChosenNext resolves a fork between siblings claiming the same
// predecessor: the earliest-timestamped sibling wins.
func (p *Projection) updateChosenNext(prev, h operation.Hash, info operation.Info) {
	cur, ok := p.chosenNext[prev]
	if !ok {
		p.chosenNext[prev] = h

		return
	}

	curInfo, ok := p.opInfoByHash[cur]
	if ok && curInfo.Timestamp.Less(info.Timestamp) {
		// cur remains the earliest-timestamped sibling.
		return
	}

	p.chosenNext[prev] = h
}

// Rollback removes every operation with TransactionNumber >= txn, restoring
// the projection to the state it was in just before txn was first observed.
// chosenNext is pruned first since pruning it reads opInfoByHash.
func (p *Projection) Rollback(txn uint64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for prev, next := range p.chosenNext {
		info, ok := p.opInfoByHash[next]
		if !ok || info.Timestamp.TransactionNumber >= txn {
			delete(p.chosenNext, prev)
		}
	}

	for h, info := range p.opInfoByHash {
		if info.Timestamp.TransactionNumber >= txn {
			delete(p.opInfoByHash, h)
		}
	}

	if p.lastProcessedTransaction >= txn {
		if txn == 0 {
			p.lastProcessedTransaction = 0
		} else {
			p.lastProcessedTransaction = txn - 1
		}
	}
}

// Lookup reconstructs the DID document produced by version v, or returns
// (nil, nil) if v is unknown or its predecessor chain is incomplete.
//
// Per the design note on deep chains, this walks the predecessor chain with
// an explicit stack and folds documents forward from the genesis Create,
// rather than recursing, to avoid stack exhaustion on long chains.
func (p *Projection) Lookup(v operation.VersionId) (document.Document, error) {
	chain, err := p.versionChainToGenesis(v)
	if err != nil || chain == nil {
		return nil, err
	}

	var doc document.Document

	for i := len(chain) - 1; i >= 0; i-- {
		op, err := p.getOperation(chain[i])
		if err != nil {
			return nil, err
		}

		doc, err = applyOperationPatches(doc, op, p.cfg.DIDMethodName)
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// versionChainToGenesis walks Previous from v back to the Create operation,
// returning the chain from v (index 0) to genesis (last index). It returns
// (nil, nil) if v or any ancestor is unknown.
func (p *Projection) versionChainToGenesis(v operation.VersionId) ([]operationRef, error) {
	var chain []operationRef

	cur := v

	for {
		p.mutex.RLock()
		info, ok := p.opInfoByHash[cur]
		p.mutex.RUnlock()

		if !ok {
			return nil, nil
		}

		ref := operationRef{hash: cur, info: info}
		chain = append(chain, ref)

		if info.Type == operation.TypeCreate {
			return chain, nil
		}

		op, err := p.getOperation(ref)
		if err != nil {
			return nil, err
		}

		cur = op.PreviousOperationHash
	}
}

// Previous returns the predecessor of version v, or "" if v is a Create
// operation or is unknown.
func (p *Projection) Previous(v operation.VersionId) (operation.VersionId, error) {
	p.mutex.RLock()
	info, ok := p.opInfoByHash[v]
	p.mutex.RUnlock()

	if !ok {
		return "", nil
	}

	op, err := p.getOperation(operationRef{hash: v, info: info})
	if err != nil {
		return "", err
	}

	return op.PreviousOperationHash, nil
}

// First walks Previous from v back to its genesis VersionId. It fails slow:
// if v is unknown, it returns "" immediately.
func (p *Projection) First(v operation.VersionId) (operation.VersionId, error) {
	p.mutex.RLock()
	_, ok := p.opInfoByHash[v]
	p.mutex.RUnlock()

	if !ok {
		return "", nil
	}

	cur := v

	for {
		prev, err := p.Previous(cur)
		if err != nil {
			return "", err
		}

		if prev == "" {
			return cur, nil
		}

		cur = prev
	}
}

// Next returns the chosen successor of version v, or "" if none has been
// applied yet.
func (p *Projection) Next(v operation.VersionId) operation.VersionId {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	return p.chosenNext[v]
}

// Last walks Next from v to the tip of its version chain.
func (p *Projection) Last(v operation.VersionId) operation.VersionId {
	cur := v

	for {
		next := p.Next(cur)
		if next == "" {
			return cur
		}

		cur = next
	}
}

// Resolve resolves a DID's unique portion (the VersionId of its genesis
// Create operation) to its current document.
func (p *Projection) Resolve(didUniquePortion operation.VersionId) (document.Document, error) {
	return p.Lookup(p.Last(didUniquePortion))
}

// operationRef pairs a hash with its already-looked-up Info, so
// getOperation doesn't need to re-acquire the lock.
type operationRef struct {
	hash operation.Hash
	info operation.Info
}

// getOperation fetches the full operation from CAS given its compressed
// in-memory record. This lazy reconstruction is why only Info, not the
// operation body, is retained in RAM.
func (p *Projection) getOperation(ref operationRef) (*operation.WriteOperation, error) {
	batchBuf, err := p.cas.Read(ref.info.BatchFileHash)
	if err != nil {
		return nil, err
	}

	bf, err := batchfile.FromBuffer(batchBuf)
	if err != nil {
		return nil, err
	}

	opBuf, err := bf.GetOperationBuffer(int(ref.info.Timestamp.OperationIndex))
	if err != nil {
		return nil, err
	}

	return operation.Unmarshal(opBuf, ref.info)
}

// hashAlgorithmCodeFor resolves the multihash algorithm that was in effect
// at op's block number, per the protocol table — not hard-coded, per the
// design-note decision recorded in DESIGN.md.
func (p *Projection) hashAlgorithmCodeFor(op *operation.WriteOperation) (uint64, error) {
	proto, err := p.protocol.Get(op.BlockNumber)
	if err != nil {
		return 0, err
	}

	return proto.HashAlgorithmCode, nil
}
