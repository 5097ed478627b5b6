/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package document defines the generic DID document the projection
// reconstructs by replaying patches over a version chain.
package document

import "encoding/json"

// IDProperty is the DID document's id key.
const IDProperty = "id"

// Document defines a generic JSON-LD DID document.
type Document map[string]interface{}

// FromBytes parses a Document from its JSON representation.
func FromBytes(data []byte) (Document, error) {
	doc := make(Document)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// ID returns the document's identifier.
func (doc Document) ID() string {
	id, _ := doc[IDProperty].(string)

	return id
}

// Bytes returns the canonical byte representation of the document.
func (doc Document) Bytes() ([]byte, error) {
	return json.Marshal(doc)
}
