/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mocks provides in-memory test doubles for the CAS, ledger and
// protocol table external collaborators.
package mocks

import (
	"bytes"
	"sync"

	"github.com/pkg/errors"

	"github.com/yancyribbens/sidetree-core/pkg/hashing"
)

// hashAlgorithmCode is the multihash algorithm the mock CAS addresses
// content with.
const hashAlgorithmCode = 18 // SHA2-256

// ErrNotFound is returned by CASClient.Read for an unknown address.
var ErrNotFound = errors.New("cas: not found")

// CASClient is an in-memory content-addressable store.
type CASClient struct {
	mutex sync.RWMutex
	store map[string][]byte
	err   error
}

// NewCASClient creates an in-memory CAS client. err, if non-nil, is
// returned by every Write and Read call, to simulate CasUnavailable.
func NewCASClient(err error) *CASClient {
	return &CASClient{store: make(map[string][]byte), err: err}
}

// Write stores content and returns its Base58-encoded multihash address.
func (c *CASClient) Write(content []byte) (string, error) {
	if err := c.getError(); err != nil {
		return "", err
	}

	address, err := hashing.HashAndEncode(hashAlgorithmCode, content)
	if err != nil {
		return "", err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.store[address] = content

	return address, nil
}

// Read returns the content stored at address.
func (c *CASClient) Read(address string) ([]byte, error) {
	if err := c.getError(); err != nil {
		return nil, err
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	content, ok := c.store[address]
	if !ok {
		return nil, ErrNotFound
	}

	decoded, err := hashing.DecodeString(address)
	if err != nil {
		return nil, err
	}

	computed, err := hashing.ComputeMultihash(hashAlgorithmCode, content)
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(decoded, computed) {
		return nil, errors.New("cas: content hash mismatch")
	}

	return content, nil
}

// SetError injects an error to be returned on every subsequent call.
func (c *CASClient) SetError(err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.err = err
}

func (c *CASClient) getError() error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.err
}
