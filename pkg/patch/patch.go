/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package patch defines the document patches carried by Create/Update/
// Recover operations and applies them via the JSON patch operator. The
// patch language itself is an external collaborator (spec §1 Non-goals);
// this package only recognizes which action to dispatch to it.
package patch

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/pkg/errors"

	"github.com/yancyribbens/sidetree-core/pkg/document"
)

// Action identifies how a patch's Content should be applied.
type Action string

const (
	// Replace replaces the entire document (used by Create and Recover).
	Replace Action = "replace"

	// JSONPatch applies an RFC 6902 JSON patch (used by Update).
	JSONPatch Action = "ietf-json-patch"
)

// Patch is a single document mutation carried inside an operation's encoded
// payload.
type Patch struct {
	Action  Action
	Content json.RawMessage
}

// Apply applies the ordered list of patches to doc, returning the resulting
// document. For the patches carried by a Create operation, doc is an empty
// document.
func Apply(doc document.Document, patches []Patch) (document.Document, error) {
	var err error

	for _, p := range patches {
		doc, err = applyOne(doc, p)
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func applyOne(doc document.Document, p Patch) (document.Document, error) {
	switch p.Action {
	case Replace:
		return document.FromBytes(p.Content)
	case JSONPatch:
		return applyJSONPatch(doc, p.Content)
	default:
		return nil, errors.Errorf("patch action %q not supported", p.Action)
	}
}

func applyJSONPatch(doc document.Document, patches json.RawMessage) (document.Document, error) {
	if doc == nil {
		return nil, errors.New("json patch cannot be applied to a nil document")
	}

	decoded, err := jsonpatch.DecodePatch(patches)
	if err != nil {
		return nil, err
	}

	docBytes, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	patched, err := decoded.Apply(docBytes)
	if err != nil {
		return nil, err
	}

	return document.FromBytes(patched)
}
