/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"net/http"
)

// apiError is the JSON body written for every non-2xx response, grounded on
// the teacher's restapi/model.Error shape.
type apiError struct {
	Message string `json:"message"`
}

// writeJSON JSON-encodes v as the response body under status.
func writeJSON(rw http.ResponseWriter, status int, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	if err := json.NewEncoder(rw).Encode(v); err != nil {
		logger.Errorf("unable to write response: %s", err)
	}
}

// writeError writes err as a JSON apiError body under status.
func writeError(rw http.ResponseWriter, status int, err error) {
	writeJSON(rw, status, apiError{Message: err.Error()})
}
