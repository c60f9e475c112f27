package objectstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	data, err := m.GetObject(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, data, "missing key is (nil, nil)")

	require.NoError(t, m.PutObject(ctx, "k", []byte("one"), "image/jpeg"))
	require.NoError(t, m.PutObject(ctx, "k", []byte("two"), "image/png"))

	data, err = m.GetObject(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
	assert.Equal(t, "image/png", m.ContentType("k"))

	require.NoError(t, m.DeleteObject(ctx, "k"))
	require.NoError(t, m.DeleteObject(ctx, "k"), "deleting twice is fine")

	data, _ = m.GetObject(ctx, "k")
	assert.Nil(t, data)

	url, err := m.PresignUpload(ctx, "k", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "memory://photos/k", url)
}

func TestMemoryStore_CopiesInput(t *testing.T) {
	m := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, m.PutObject(context.Background(), "k", buf, "image/jpeg"))
	buf[0] = 'x'

	data, _ := m.GetObject(context.Background(), "k")
	assert.Equal(t, []byte("abc"), data)
}

var (
	_ ObjectStore = (*MemoryStore)(nil)
	_ ObjectStore = (*S3Store)(nil)
)
