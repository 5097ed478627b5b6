/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package cas defines the interface for the content-addressable store the
// rooter and the projection depend on. The store itself lives outside this
// module; it is treated as an opaque write(bytes) -> hash, read(hash) ->
// bytes collaborator.
package cas

// Client defines the interface for accessing the underlying content
// addressable storage.
type Client interface {
	// Write writes the given content to CAS and returns its content hash.
	Write(content []byte) (string, error)

	// Read reads the content stored at the given address.
	// Returns ErrNotFound if the address is unknown.
	Read(address string) ([]byte, error)
}
