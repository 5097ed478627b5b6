/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package canonicalizer produces deterministic byte encodings of the batch
// and anchor file schemas so that CAS addressing is stable.
package canonicalizer

import "encoding/json"

// MarshalCanonical marshals value to its canonical byte representation.
//
// Both the batch file and the anchor file schemas declare a fixed field
// order with no maps, so encoding/json's struct marshaling is already
// deterministic: Go emits struct fields in declaration order, never in the
// randomized order it uses for map keys. A general RFC 8785-style
// canonicalizer is unnecessary here and would only add a dependency this
// module's two schemas have no need for.
func MarshalCanonical(value interface{}) ([]byte, error) {
	return json.Marshal(value)
}
