/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package projection

import (
	"github.com/pkg/errors"

	"github.com/yancyribbens/sidetree-core/pkg/api/operation"
	"github.com/yancyribbens/sidetree-core/pkg/document"
	"github.com/yancyribbens/sidetree-core/pkg/patch"
)

// applyOperationPatches folds a single operation's patches onto doc. doc is
// nil when op is the genesis Create operation.
func applyOperationPatches(doc document.Document, op *operation.WriteOperation, didMethodName string) (document.Document, error) {
	patches, err := decodePayload(op.EncodedPayload)
	if err != nil {
		return nil, err
	}

	switch op.Type {
	case operation.TypeCreate:
		if doc != nil {
			return nil, errors.New("create has to be the first operation")
		}

		return applyCreate(patches, didMethodName)

	case operation.TypeUpdate, operation.TypeRecover:
		if doc == nil {
			return nil, errors.New("update/recover cannot be the first operation in a chain")
		}

		return patch.Apply(doc, patches)

	case operation.TypeDelete:
		if doc == nil {
			return nil, errors.New("delete can only be applied to an existing document")
		}
		// Delete is a version like any other: the produced document
		// reflects the delete. There is no separate Deleted state; the
		// document patches carried by the delete operation (if any)
		// describe what "deleted" means for this DID method.
		return patch.Apply(doc, patches)

	default:
		return nil, errors.Errorf("operation type %q not supported", op.Type)
	}
}

func applyCreate(patches []patch.Patch, didMethodName string) (document.Document, error) {
	doc, err := patch.Apply(document.Document{}, patches)
	if err != nil {
		return nil, err
	}

	if doc.ID() == "" && didMethodName != "" {
		doc[document.IDProperty] = didMethodName
	}

	return doc, nil
}
