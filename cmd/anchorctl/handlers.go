/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yancyribbens/sidetree-core/pkg/api/operation"
)

// submitRequest is the wire shape clients POST to /operations.
type submitRequest struct {
	Type                  operation.Type `json:"type"`
	EncodedPayload        []byte         `json:"encodedPayload"`
	PreviousOperationHash string         `json:"previousOperationHash,omitempty"`
}

// submitResponse echoes back the queue depth after accepting an operation.
type submitResponse struct {
	QueueLength int `json:"queueLength"`
}

// rootResponse reports how many operations the triggered tick anchored and
// the observer then replayed into the projection.
type rootResponse struct {
	AppliedOperations int `json:"appliedOperations"`
}

func (n *node) submitOperation(rw http.ResponseWriter, req *http.Request) {
	var sr submitRequest
	if err := json.NewDecoder(req.Body).Decode(&sr); err != nil {
		writeError(rw, http.StatusBadRequest, err)

		return
	}

	buf, err := operation.Marshal(sr.Type, sr.EncodedPayload, sr.PreviousOperationHash)
	if err != nil {
		writeError(rw, http.StatusBadRequest, err)

		return
	}

	if err := n.rooter.Add(buf); err != nil {
		writeError(rw, http.StatusServiceUnavailable, err)

		return
	}

	writeJSON(rw, http.StatusAccepted, submitResponse{QueueLength: n.rooter.GetOperationQueueLength()})
}

func (n *node) resolveDocument(rw http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	doc, err := n.projection.Resolve(id)
	if err != nil {
		writeError(rw, http.StatusInternalServerError, err)

		return
	}

	if doc == nil {
		writeError(rw, http.StatusNotFound, errNotFound(id))

		return
	}

	writeJSON(rw, http.StatusOK, doc)
}

// rootNow triggers one batching-pipeline tick synchronously, then replays
// every newly-anchored transaction into the projection. A production
// deployment splits this second half into the observer service described in
// SPEC_FULL.md as an external collaborator; here, in-process, it keeps the
// demo binary runnable end to end without one.
func (n *node) rootNow(rw http.ResponseWriter, req *http.Request) {
	if err := n.rooter.RootOperations(); err != nil {
		writeError(rw, http.StatusInternalServerError, err)

		return
	}

	applied, err := n.replayNewTransactions()
	if err != nil {
		writeError(rw, http.StatusInternalServerError, err)

		return
	}

	writeJSON(rw, http.StatusOK, rootResponse{AppliedOperations: applied})
}
