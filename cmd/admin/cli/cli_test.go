package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orgdrive/internal/domain"
	"orgdrive/internal/repository/postgres/migrations"
)

func memoryEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "dev")
	t.Setenv("METADATA_STORE", "memory")
	t.Setenv("OBJECT_STORE", "memory")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigShow_RedactsSecrets(t *testing.T) {
	memoryEnv(t)
	t.Setenv("DATABASE_URL", "postgres://admin:hunter2@db/orgdrive")
	t.Setenv("S3_SECRET_ACCESS_KEY", "very-secret")

	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "very-secret")
	assert.Contains(t, out, redacted)
	assert.Contains(t, out, "metadata_store: memory")
}

func TestRegenerateCode(t *testing.T) {
	memoryEnv(t)

	t.Run("requires user flag", func(t *testing.T) {
		_, err := run(t, "org", "regenerate-code", "0b7a8f3e-4a8e-4d55-9b1c-6c1d1f3f5e21")
		assert.ErrorContains(t, err, "user")
	})

	t.Run("requires organization id", func(t *testing.T) {
		_, err := run(t, "org", "regenerate-code", "--user", "3a1f9c2e-7b4d-4e6a-8c1f-2d9e0b7a6c54")
		assert.Error(t, err)
	})

	t.Run("non-member is refused", func(t *testing.T) {
		_, err := run(t, "org", "regenerate-code", "0b7a8f3e-4a8e-4d55-9b1c-6c1d1f3f5e21", "--user", "3a1f9c2e-7b4d-4e6a-8c1f-2d9e0b7a6c54")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestInvalidLogLevel(t *testing.T) {
	memoryEnv(t)
	_, err := run(t, "--log-level", "loud", "config", "show")
	assert.Error(t, err)
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "version: 1\nlatest:  1\n", formatStatus(&migrations.Status{Version: 1, Latest: 1}))
	assert.Contains(t, formatStatus(&migrations.Status{Version: 1, Latest: 1, Dirty: true}), "dirty")
}
