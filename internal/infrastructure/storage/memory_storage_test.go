package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryObjectStorage("http://files.local/propledger")

	exists, err := s.ObjectExists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	data := []byte("pdf")
	require.NoError(t, s.Upload(ctx, "k", data, "application/pdf"))
	data[0] = 'x'

	obj, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "pdf", string(obj.Data))
	assert.Equal(t, "application/pdf", obj.ContentType)

	url, expiresAt, err := s.GenerateDownloadURL(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "http://files.local/propledger/k?")
	assert.True(t, expiresAt.After(time.Now()))

	url, _, err = s.GenerateUploadURL(ctx, "k2", "image/png", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "content-type=image%2Fpng")

	require.NoError(t, s.DeleteObject(ctx, "k"))
	require.NoError(t, s.DeleteObject(ctx, "k"))
	exists, err = s.ObjectExists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryObjectStorage_EmptyKey(t *testing.T) {
	s := NewMemoryObjectStorage("")
	assert.Equal(t, "http://localhost:9000/propledger", s.BaseURL)
	assert.ErrorIs(t, s.Upload(context.Background(), "", nil, ""), errStorageKeyRequired)
	_, _, err := s.GenerateUploadURL(context.Background(), "", "", time.Minute)
	assert.ErrorIs(t, err, errStorageKeyRequired)
}
