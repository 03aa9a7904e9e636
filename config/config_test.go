package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("invalid start date", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.BackfillStart = "01/02/2024" // doesn't follow the format

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidStartDate)
	})

	t.Run("invalid fetch timeout", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.FetchTimeout = 0

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidFetchTimeout)
	})

	t.Run("invalid fetch attempts", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.FetchAttempts = -1

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidFetchAttempts)
	})

	t.Run("valid configuration", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.BackfillStart = "2023-01-01"

		assert.NoError(t, ValidateConfig(cfg))
	})
}

func TestConfig_Read(t *testing.T) {
	t.Parallel()

	writeConfig := func(t *testing.T, content string) string {
		t.Helper()

		path := filepath.Join(t.TempDir(), "ccr.toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		return path
	}

	t.Run("full configuration", func(t *testing.T) {
		t.Parallel()

		content := `
output_dir = "/data/ccr"
backfill_start = "2023-01-01"
fetch_timeout_seconds = 10
fetch_attempts = 5
`

		cfg, err := Read(writeConfig(t, content))
		require.NoError(t, err)

		assert.Equal(t, "/data/ccr", cfg.OutputDir)
		assert.Equal(t, "2023-01-01", cfg.BackfillStart)
		assert.Equal(t, 10, cfg.FetchTimeout)
		assert.Equal(t, 5, cfg.FetchAttempts)
	})

	t.Run("omitted fields keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := Read(writeConfig(t, `backfill_start = "2023-01-01"`))
		require.NoError(t, err)

		// A minimal config stays valid
		require.NoError(t, ValidateConfig(cfg))

		assert.Equal(t, "2023-01-01", cfg.BackfillStart)
		assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
		assert.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
		assert.Equal(t, DefaultFetchAttempts, cfg.FetchAttempts)
	})

	t.Run("empty configuration keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := Read(writeConfig(t, ""))
		require.NoError(t, err)

		require.NoError(t, ValidateConfig(cfg))
		assert.Equal(t, DefaultConfig(), cfg)
	})
}
