package memory

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Markers(t *testing.T) {
	store := NewStore(time.Hour, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.PutMarker(ctx, "root-Acme"))
	require.NoError(t, store.PutMarker(ctx, "root-Acme/"))
	require.NoError(t, store.PutMarker(ctx, "root-Acme/Reports"))

	assert.Equal(t, []string{"root-Acme/", "root-Acme/Reports/"}, store.Markers())
	assert.True(t, store.HasMarker("root-Acme"))
	assert.False(t, store.HasMarker("root-Acme/Other"))
}

func TestStore_Presign(t *testing.T) {
	store := NewStore(time.Hour, 30*time.Minute)
	ctx := context.Background()

	put, err := store.PresignWrite(ctx, "root-Acme/q1.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, put.Method)
	assert.Contains(t, put.URL, BaseURL+"/root-Acme/q1.pdf?")

	get, err := store.PresignRead(ctx, "root-Acme/q1.pdf")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, get.Method)
	assert.True(t, get.ExpiresAt.Before(put.ExpiresAt))

	assert.Len(t, store.Issued(), 2)
}

func TestFaulty(t *testing.T) {
	inner := NewStore(time.Hour, time.Minute)
	faulty := NewFaulty(inner)
	boom := errors.New("boom")
	ctx := context.Background()

	faulty.Fail("PutMarker", boom)
	assert.ErrorIs(t, faulty.PutMarker(ctx, "root-A"), boom)
	assert.Empty(t, inner.Markers())

	faulty.Fail("PutMarker", nil)
	require.NoError(t, faulty.PutMarker(ctx, "root-A"))
	assert.True(t, inner.HasMarker("root-A"))
}
