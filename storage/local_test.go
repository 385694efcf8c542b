package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveOpenRemove(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	docID := uuid.New()

	key, err := store.Save(ctx, docID, "lease agreement.pdf", strings.NewReader("document body"))
	require.NoError(t, err)
	assert.Equal(t, "documents/"+docID.String()+"/lease_agreement.pdf", key)

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "document body", string(data))

	require.NoError(t, store.Remove(ctx, key))

	_, err = store.Open(ctx, key)
	assert.Error(t, err)
}

func TestLocalStore_RemoveMissingKeyIsNoOp(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Remove(context.Background(), "documents/nope/missing.pdf"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeFor("report.pdf"))
	assert.Equal(t, "text/plain", ContentTypeFor("notes.TXT"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", ContentTypeFor("contract.docx"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("archive.bin"))
}
