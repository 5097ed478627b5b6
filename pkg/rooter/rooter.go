/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package rooter implements the batching & anchoring pipeline: it enqueues
// submitted operation payloads, and on a periodic tick assembles a batch,
// writes a batch file and an anchor file to CAS, and writes the anchor
// file's hash to the ledger.
package rooter

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/yancyribbens/sidetree-core/pkg/anchorfile"
	"github.com/yancyribbens/sidetree-core/pkg/api/cas"
	"github.com/yancyribbens/sidetree-core/pkg/api/protocol"
	"github.com/yancyribbens/sidetree-core/pkg/api/txn"
	"github.com/yancyribbens/sidetree-core/pkg/batchfile"
	"github.com/yancyribbens/sidetree-core/pkg/hashing"
	"github.com/yancyribbens/sidetree-core/pkg/merkle"
)

var logger = log.New("sidetree-core-rooter")

const defaultBatchIntervalSeconds = 2

// Config holds the rooter's external configuration.
type Config struct {
	// BatchIntervalSeconds is the fixed wall-clock interval between ticks.
	BatchIntervalSeconds int
}

// Rooter implements the batching & anchoring pipeline described in the
// component design: queue -> batch file -> Merkle commitment -> anchor
// file -> ledger write.
type Rooter struct {
	cfg      Config
	cas      cas.Client
	ledger   txn.Ledger
	protocol *protocol.Table

	queue      queue
	processing uint32

	exitChan chan struct{}
	stopped  uint32
}

// New creates a Rooter.
func New(cfg Config, casClient cas.Client, ledger txn.Ledger, protocolTable *protocol.Table) *Rooter {
	if cfg.BatchIntervalSeconds <= 0 {
		cfg.BatchIntervalSeconds = defaultBatchIntervalSeconds
	}

	return &Rooter{
		cfg:      cfg,
		cas:      casClient,
		ledger:   ledger,
		protocol: protocolTable,
		exitChan: make(chan struct{}),
	}
}

// Add appends op to the tail of the pending-operations queue. O(1); no size
// bound is enforced here — overflow is a policy for the surrounding system.
func (r *Rooter) Add(op []byte) error {
	if atomic.LoadUint32(&r.stopped) == 1 {
		return errors.New("rooter is stopped")
	}

	n := r.queue.add(op)

	logger.Debugf("operation added to the queue, pending operations: %d", n)

	return nil
}

// GetOperationQueueLength returns the number of operations currently queued.
func (r *Rooter) GetOperationQueueLength() int {
	return r.queue.len()
}

// StartPeriodicRooting schedules RootOperations at a fixed wall-clock
// interval until Stop is called.
func (r *Rooter) StartPeriodicRooting() {
	go r.run()
}

// Stop halts the periodic tick. Safe to call multiple times.
func (r *Rooter) Stop() {
	if !atomic.CompareAndSwapUint32(&r.stopped, 0, 1) {
		return
	}

	close(r.exitChan)
}

func (r *Rooter) run() {
	interval := time.Duration(r.cfg.BatchIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.RootOperations(); err != nil {
				logger.Warnf("error rooting operations: %s", err)
			}

		case <-r.exitChan:
			logger.Infof("exiting rooter")

			return
		}
	}
}

// RootOperations is the pipeline tick. It runs at most once concurrently:
// if a tick is already in progress, a second call returns immediately
// (tick coalescing).
func (r *Rooter) RootOperations() error {
	if !atomic.CompareAndSwapUint32(&r.processing, 0, 1) {
		return nil
	}

	defer atomic.StoreUint32(&r.processing, 0)

	block, err := r.ledger.GetLastBlock()
	if err != nil {
		return errors.Wrap(err, "get last block")
	}

	p, err := r.protocol.Get(block.BlockNumber + 1)
	if err != nil {
		return errors.Wrap(err, "resolve protocol")
	}

	batch := r.queue.drain(int(p.MaxOperationsPerBatch))
	if len(batch) == 0 {
		return nil
	}

	if err := r.anchor(batch, p.HashAlgorithmCode); err != nil {
		// Failure policy: the batch has already been drained from the
		// queue (spec §4.4 step 4 happens before any CAS/ledger call).
		// Rather than lose it, as the naive drain-then-write order would
		// (spec §9's QueueLoss weakness), re-enqueue it at the head so the
		// next tick retries it ahead of anything added meanwhile. See
		// DESIGN.md for why this option was chosen over peek-then-commit.
		r.queue.requeueAtHead(batch)

		return errors.Wrap(err, "anchor batch")
	}

	logger.Infof("anchored %d operations, %d pending", len(batch), r.queue.len())

	return nil
}

// anchor writes the batch file, computes its Merkle commitment, writes the
// anchor file, and writes the anchor file's hash to the ledger — steps 6-9
// of the pipeline tick.
func (r *Rooter) anchor(batch [][]byte, hashAlgorithmCode uint64) error {
	bf := batchfile.FromOperations(batch)

	batchBuf, err := bf.ToBuffer()
	if err != nil {
		return errors.Wrap(err, "encode batch file")
	}

	batchFileHash, err := r.cas.Write(batchBuf)
	if err != nil {
		return errors.Wrap(err, "write batch file")
	}

	root, err := merkle.RootHash(batch, hashAlgorithmCode)
	if err != nil {
		return errors.Wrap(err, "compute merkle root")
	}

	af := anchorfile.New(batchFileHash, hashing.EncodeToString(root))

	anchorBuf, err := af.ToBuffer()
	if err != nil {
		return errors.Wrap(err, "encode anchor file")
	}

	anchorFileHash, err := r.cas.Write(anchorBuf)
	if err != nil {
		return errors.Wrap(err, "write anchor file")
	}

	if err := r.ledger.WriteAnchor(anchorFileHash); err != nil {
		return errors.Wrap(err, "write anchor to ledger")
	}

	return nil
}
