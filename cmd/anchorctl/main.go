/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Command anchorctl is a thin demo node wiring the batching & anchoring
// pipeline and the DID state projection behind an HTTP API. It is not part
// of the core library's test budget; it exists to show the pieces wired
// together end to end, against in-memory CAS and ledger test doubles.
package main

import (
	"flag"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/yancyribbens/sidetree-core/pkg/api/operation"
	"github.com/yancyribbens/sidetree-core/pkg/api/protocol"
	"github.com/yancyribbens/sidetree-core/pkg/anchorfile"
	"github.com/yancyribbens/sidetree-core/pkg/batchfile"
	"github.com/yancyribbens/sidetree-core/pkg/mocks"
	"github.com/yancyribbens/sidetree-core/pkg/projection"
	"github.com/yancyribbens/sidetree-core/pkg/rooter"
)

var logger = log.New("sidetree-core-anchorctl")

const sha2256 = 18

// node bundles the wired pipeline components behind the HTTP handlers.
type node struct {
	cas        *mocks.CASClient
	ledger     *mocks.LedgerClient
	rooter     *rooter.Rooter
	projection *projection.Projection

	mu           sync.Mutex
	replayedTxns int
}

func newNode(batchIntervalSeconds int, didMethodName string) *node {
	casClient := mocks.NewCASClient(nil)
	ledgerClient := mocks.NewLedgerClient(nil)

	table := protocol.NewTable(protocol.Entry{
		StartingBlockChainTime: 0,
		Protocol: protocol.Protocol{
			MaxOperationsPerBatch: 100,
			HashAlgorithmCode:     sha2256,
			MaxDeltaByteSize:      4000,
		},
	})

	return &node{
		cas:        casClient,
		ledger:     ledgerClient,
		rooter:     rooter.New(rooter.Config{BatchIntervalSeconds: batchIntervalSeconds}, casClient, ledgerClient, table),
		projection: projection.New(projection.Config{DIDMethodName: didMethodName}, casClient, table),
	}
}

// replayNewTransactions reads every ledger transaction written since the
// last call and applies its operations to the projection in order. See
// handlers.go's rootNow for why this lives in-process rather than behind a
// subscription channel.
func (n *node) replayNewTransactions() (int, error) {
	txns := n.ledger.Transactions()

	n.mu.Lock()
	start := n.replayedTxns
	n.mu.Unlock()

	applied := 0

	for _, tx := range txns[start:] {
		anchorBuf, err := n.cas.Read(tx.AnchorFileHash)
		if err != nil {
			return applied, errors.Wrap(err, "read anchor file")
		}

		af, err := anchorfile.FromBuffer(anchorBuf)
		if err != nil {
			return applied, errors.Wrap(err, "decode anchor file")
		}

		batchBuf, err := n.cas.Read(af.BatchFileHash)
		if err != nil {
			return applied, errors.Wrap(err, "read batch file")
		}

		bf, err := batchfile.FromBuffer(batchBuf)
		if err != nil {
			return applied, errors.Wrap(err, "decode batch file")
		}

		for i := 0; i < bf.Len(); i++ {
			opBuf, err := bf.GetOperationBuffer(i)
			if err != nil {
				return applied, errors.Wrap(err, "read operation buffer")
			}

			info := operation.Info{
				BatchFileHash:  af.BatchFileHash,
				AnchorFileHash: tx.AnchorFileHash,
				Timestamp: operation.Timestamp{
					BlockNumber:       tx.BlockNumber,
					TransactionNumber: tx.TransactionNumber,
					OperationIndex:    uint(i),
				},
			}

			op, err := operation.Unmarshal(opBuf, info)
			if err != nil {
				return applied, errors.Wrap(err, "unmarshal operation")
			}

			if _, err := n.projection.Apply(op); err != nil {
				return applied, errors.Wrap(err, "apply operation")
			}

			applied++
		}
	}

	n.mu.Lock()
	n.replayedTxns = len(txns)
	n.mu.Unlock()

	return applied, nil
}

// startObserver polls the ledger on a fixed interval and replays whatever
// RootOperations anchored since the last poll, mirroring the teacher's
// ticker-driven observer loop without the subscription channel this
// repository's minimal Ledger interface doesn't expose.
func (n *node) startObserver(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if applied, err := n.replayNewTransactions(); err != nil {
				logger.Warnf("observer replay failed: %s", err)
			} else if applied > 0 {
				logger.Infof("observer applied %d operations", applied)
			}
		}
	}()
}

func errNotFound(id string) error {
	return errors.Errorf("document %q not found", id)
}

// newRouter registers this node's three routes directly against a
// gorilla/mux router — a single demo binary with three handlers has no
// second caller that would justify a reusable route-descriptor type.
func newRouter(n *node) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/operations", n.submitOperation).Methods(http.MethodPost)
	router.HandleFunc("/resolve/{id}", n.resolveDocument).Methods(http.MethodGet)
	router.HandleFunc("/root", n.rootNow).Methods(http.MethodPost)

	return router
}

func main() {
	addr := flag.String("listen", ":8080", "address to listen on")
	batchIntervalSeconds := flag.Int("batch-interval", 2, "seconds between batching ticks")
	didMethodName := flag.String("did-method", "did:sidetree:", "DID method name, used as the id of created documents that set none")
	flag.Parse()

	n := newNode(*batchIntervalSeconds, *didMethodName)

	n.rooter.StartPeriodicRooting()
	n.startObserver(time.Duration(*batchIntervalSeconds) * time.Second)

	logger.Infof("anchorctl listening on %s", *addr)

	if err := http.ListenAndServe(*addr, newRouter(n)); err != nil {
		logger.Errorf("server exited: %s", err)
		os.Exit(1)
	}
}
