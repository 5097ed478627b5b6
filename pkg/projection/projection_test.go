/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package projection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yancyribbens/sidetree-core/pkg/api/operation"
	"github.com/yancyribbens/sidetree-core/pkg/batchfile"
	"github.com/yancyribbens/sidetree-core/pkg/mocks"
	"github.com/yancyribbens/sidetree-core/pkg/patch"
)

func newTestProjection(t *testing.T) (*Projection, *mocks.CASClient) {
	t.Helper()

	cas := mocks.NewCASClient(nil)
	table := mocks.NewProtocolTable()

	return New(Config{DIDMethodName: "did:sidetree:"}, cas, table), cas
}

// anchorOp writes op's wire buffer into a single-operation batch file in
// cas and returns a WriteOperation with the given resolved-transaction
// envelope, ready to Apply.
func anchorOp(t *testing.T, cas *mocks.CASClient, opType operation.Type, encodedPayload []byte,
	prev operation.Hash, blockNumber, txnNumber uint64, idx uint) *operation.WriteOperation {
	t.Helper()

	wireBuf, err := operation.Marshal(opType, encodedPayload, prev)
	require.NoError(t, err)

	bf := batchfile.FromOperations([][]byte{wireBuf})
	batchBuf, err := bf.ToBuffer()
	require.NoError(t, err)

	batchFileHash, err := cas.Write(batchBuf)
	require.NoError(t, err)

	return &operation.WriteOperation{
		Type:                  opType,
		EncodedPayload:        encodedPayload,
		PreviousOperationHash: prev,
		OperationBuffer:       wireBuf,
		BlockNumber:           blockNumber,
		TransactionNumber:     txnNumber,
		OperationIndex:        idx,
		BatchFileHash:         batchFileHash,
	}
}

func createPayload(t *testing.T, id string) []byte {
	t.Helper()

	doc := map[string]interface{}{"id": id}
	docBytes, err := json.Marshal(doc)
	require.NoError(t, err)

	patches := []patch.Patch{{Action: patch.Replace, Content: docBytes}}
	buf, err := json.Marshal(struct {
		Patches []patch.Patch `json:"patches"`
	}{Patches: patches})
	require.NoError(t, err)

	return buf
}

// updatePayload builds a distinct update payload per marker, so that two
// operations built from different markers hash differently even when they
// share a PreviousOperationHash.
func updatePayload(t *testing.T, marker string) []byte {
	t.Helper()

	patchJSON := `[{"op":"add","path":"/marker","value":"` + marker + `"}]`

	buf, err := json.Marshal(struct {
		Patches []patch.Patch `json:"patches"`
	}{Patches: []patch.Patch{{Action: patch.JSONPatch, Content: json.RawMessage(patchJSON)}}})
	require.NoError(t, err)

	return buf
}

func TestApply_duplicateEarliestWins(t *testing.T) {
	p, cas := newTestProjection(t)

	payload := createPayload(t, "did:sidetree:abc")

	first := anchorOp(t, cas, operation.TypeCreate, payload, "", 1, 5, 0)
	h1, err := p.Apply(first)
	require.NoError(t, err)
	require.NotEmpty(t, h1)

	// same bytes observed again at a later timestamp must lose the race.
	second := anchorOp(t, cas, operation.TypeCreate, payload, "", 1, 7, 0)
	h2, err := p.Apply(second)
	require.NoError(t, err)
	require.Empty(t, h2)

	p.mutex.RLock()
	info := p.opInfoByHash[h1]
	p.mutex.RUnlock()

	require.EqualValues(t, 5, info.Timestamp.TransactionNumber)
}

func TestApply_missingMetadataIsInvalid(t *testing.T) {
	p, _ := newTestProjection(t)

	_, err := p.Apply(&operation.WriteOperation{Type: operation.TypeCreate})
	require.ErrorIs(t, err, ErrInvalidOperation)
}

func TestForkResolution(t *testing.T) {
	p, cas := newTestProjection(t)

	createBuf := createPayload(t, "did:sidetree:fork")
	c := anchorOp(t, cas, operation.TypeCreate, createBuf, "", 1, 1, 0)
	cHash, err := p.Apply(c)
	require.NoError(t, err)

	u1Buf := updatePayload(t, "u1")
	u1 := anchorOp(t, cas, operation.TypeUpdate, u1Buf, cHash, 2, 10, 0)
	u1Hash, err := p.Apply(u1)
	require.NoError(t, err)

	u2Buf := updatePayload(t, "u2")
	u2 := anchorOp(t, cas, operation.TypeUpdate, u2Buf, cHash, 2, 10, 1)
	u2Hash, err := p.Apply(u2)
	require.NoError(t, err)
	require.NotEqual(t, u1Hash, u2Hash)

	require.Equal(t, u1Hash, p.Next(cHash))
	require.Equal(t, u1Hash, p.Last(cHash))
}

func TestRollback(t *testing.T) {
	p, cas := newTestProjection(t)

	createBuf := createPayload(t, "did:sidetree:rb")
	c := anchorOp(t, cas, operation.TypeCreate, createBuf, "", 1, 1, 0)
	cHash, err := p.Apply(c)
	require.NoError(t, err)

	u1Buf := updatePayload(t, "u1")
	u1 := anchorOp(t, cas, operation.TypeUpdate, u1Buf, cHash, 2, 10, 0)
	u1Hash, err := p.Apply(u1)
	require.NoError(t, err)

	u2Buf := updatePayload(t, "u2")
	u2 := anchorOp(t, cas, operation.TypeUpdate, u2Buf, cHash, 2, 10, 1)
	u2Hash, err := p.Apply(u2)
	require.NoError(t, err)

	u3Buf := updatePayload(t, "u3")
	u3 := anchorOp(t, cas, operation.TypeUpdate, u3Buf, u1Hash, 3, 12, 0)
	u3Hash, err := p.Apply(u3)
	require.NoError(t, err)
	require.NotEmpty(t, u3Hash)

	p.Rollback(11)

	p.mutex.RLock()
	_, hasC := p.opInfoByHash[cHash]
	_, hasU1 := p.opInfoByHash[u1Hash]
	_, hasU2 := p.opInfoByHash[u2Hash]
	_, hasU3 := p.opInfoByHash[u3Hash]
	p.mutex.RUnlock()

	require.True(t, hasC)
	require.True(t, hasU1)
	require.True(t, hasU2)
	require.False(t, hasU3)

	require.Equal(t, u1Hash, p.Next(cHash))
	require.Empty(t, p.Next(u1Hash))
}

func TestFirstLast(t *testing.T) {
	p, cas := newTestProjection(t)

	createBuf := createPayload(t, "did:sidetree:chain")
	c := anchorOp(t, cas, operation.TypeCreate, createBuf, "", 1, 1, 0)
	cHash, err := p.Apply(c)
	require.NoError(t, err)

	u1Buf := updatePayload(t, "u1")
	u1 := anchorOp(t, cas, operation.TypeUpdate, u1Buf, cHash, 2, 10, 0)
	u1Hash, err := p.Apply(u1)
	require.NoError(t, err)

	last := p.Last(cHash)
	require.Equal(t, u1Hash, last)

	first, err := p.First(last)
	require.NoError(t, err)
	require.Equal(t, cHash, first)
}

func TestResolveAndLookup(t *testing.T) {
	p, cas := newTestProjection(t)

	createBuf := createPayload(t, "did:sidetree:resolve")
	c := anchorOp(t, cas, operation.TypeCreate, createBuf, "", 1, 1, 0)
	cHash, err := p.Apply(c)
	require.NoError(t, err)

	doc, err := p.Resolve(cHash)
	require.NoError(t, err)
	require.Equal(t, "did:sidetree:resolve", doc.ID())

	doc2, err := p.Lookup(p.Last(cHash))
	require.NoError(t, err)
	require.Equal(t, doc, doc2)
}

func TestLookup_unknownVersion(t *testing.T) {
	p, _ := newTestProjection(t)

	doc, err := p.Lookup("unknown")
	require.NoError(t, err)
	require.Nil(t, doc)
}

func TestResolve_unknownDIDReturnsNil(t *testing.T) {
	p, _ := newTestProjection(t)

	doc, err := p.Resolve("unknown-genesis")
	require.NoError(t, err)
	require.Nil(t, doc)
}

func TestLastProcessedTransaction(t *testing.T) {
	p, cas := newTestProjection(t)

	require.EqualValues(t, 0, p.LastProcessedTransaction())

	createBuf := createPayload(t, "did:sidetree:lpt")
	c := anchorOp(t, cas, operation.TypeCreate, createBuf, "", 1, 5, 0)
	_, err := p.Apply(c)
	require.NoError(t, err)

	require.EqualValues(t, 5, p.LastProcessedTransaction())
}
