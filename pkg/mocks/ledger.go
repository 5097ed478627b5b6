/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"sync"

	"github.com/yancyribbens/sidetree-core/pkg/api/txn"
)

// LedgerClient is an in-memory ledger. Every WriteAnchor call is recorded as
// a new block at the next transaction number.
type LedgerClient struct {
	mutex sync.RWMutex
	txns  []txn.SidetreeTxn
	err   error
}

// NewLedgerClient creates an in-memory ledger client. err, if non-nil, is
// returned by every GetLastBlock and WriteAnchor call, to simulate
// LedgerUnavailable.
func NewLedgerClient(err error) *LedgerClient {
	return &LedgerClient{err: err}
}

// GetLastBlock returns the ledger's current tip: the block number of the
// most recently written anchor, or 0 if nothing has been anchored yet.
// Blocks are numbered starting at 1, so a tip of 0 means "no block written",
// matching the rooter's `protocol.Get(tip.BlockNumber + 1)` query for the
// protocol in effect at the next block to be written.
func (l *LedgerClient) GetLastBlock() (txn.Block, error) {
	if err := l.getError(); err != nil {
		return txn.Block{}, err
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return txn.Block{BlockNumber: uint64(len(l.txns))}, nil
}

// WriteAnchor anchors anchorFileHash as the next ledger transaction, one per
// block: the first write lands at block 1, matching the block number
// GetLastBlock reports as the new tip once this call returns.
func (l *LedgerClient) WriteAnchor(anchorFileHash string) error {
	if err := l.getError(); err != nil {
		return err
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	transactionNumber := uint64(len(l.txns))
	blockNumber := transactionNumber + 1

	l.txns = append(l.txns, txn.SidetreeTxn{
		BlockNumber:       blockNumber,
		TransactionNumber: transactionNumber,
		AnchorFileHash:    anchorFileHash,
	})

	return nil
}

// Transactions returns every transaction written so far, in order.
func (l *LedgerClient) Transactions() []txn.SidetreeTxn {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	out := make([]txn.SidetreeTxn, len(l.txns))
	copy(out, l.txns)

	return out
}

// SetError injects an error to be returned on every subsequent call.
func (l *LedgerClient) SetError(err error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.err = err
}

func (l *LedgerClient) getError() error {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.err
}
