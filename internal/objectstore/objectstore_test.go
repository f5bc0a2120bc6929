package objectstore

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orgdrive/internal/config"
	"orgdrive/internal/objectstore/memory"
)

func TestNew(t *testing.T) {
	logger := slog.Default()

	store, err := New(context.Background(), config.ObjectStoreConfig{
		Type:            "memory",
		PresignWriteTTL: time.Hour,
		PresignReadTTL:  time.Minute,
	}, logger)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)

	_, err = New(context.Background(), config.ObjectStoreConfig{Type: "ftp"}, logger)
	assert.ErrorContains(t, err, "unknown object store type")
}
