/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package projection

import (
	"encoding/json"

	"github.com/yancyribbens/sidetree-core/pkg/patch"
)

// payload is the schema of WriteOperation.EncodedPayload: an ordered list
// of document patches to apply on top of whatever document the previous
// version in the chain produced.
type payload struct {
	Patches []patch.Patch `json:"patches"`
}

func decodePayload(encoded []byte) ([]patch.Patch, error) {
	var p payload
	if err := json.Unmarshal(encoded, &p); err != nil {
		return nil, err
	}

	return p.Patches, nil
}
