package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8, cfg.Solver.MaxLength)
	assert.Equal(t, 20, cfg.Solver.MaxResults)
	assert.Equal(t, 999, cfg.Solver.MaxOperand)
	assert.Equal(t, 10*time.Second, cfg.Solver.Timeout.Std())
	assert.False(t, cfg.Logging.Verbose)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sumzle.json")
	data := `{"solver": {"max_length": 10, "max_results": 5, "max_operand": 99, "timeout": "30s"},
	          "logging": {"verbose": true}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Solver.MaxLength)
	assert.Equal(t, 5, cfg.Solver.MaxResults)
	assert.Equal(t, 99, cfg.Solver.MaxOperand)
	assert.Equal(t, 30*time.Second, cfg.Solver.Timeout.Std())
	assert.True(t, cfg.Logging.Verbose)
}

func TestLoadNumericTimeoutIsSeconds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sumzle.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"solver": {"timeout": 5}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Solver.Timeout.Std())
}

func TestLoadBrokenFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sumzle.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"solver": {`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("limits", func(t *testing.T) {
		t.Setenv("SUMZLE_MAX_LENGTH", "12")
		t.Setenv("SUMZLE_MAX_RESULTS", "3")
		t.Setenv("SUMZLE_MAX_OPERAND", "0")
		t.Setenv("SUMZLE_TIMEOUT", "2s")
		t.Setenv("SUMZLE_VERBOSE", "true")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		require.NoError(t, err)
		assert.Equal(t, 12, cfg.Solver.MaxLength)
		assert.Equal(t, 3, cfg.Solver.MaxResults)
		assert.Equal(t, 0, cfg.Solver.MaxOperand)
		assert.Equal(t, 2*time.Second, cfg.Solver.Timeout.Std())
		assert.True(t, cfg.Logging.Verbose)
	})

	t.Run("env wins over file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sumzle.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"solver": {"max_results": 5}}`), 0o644))
		t.Setenv("SUMZLE_MAX_RESULTS", "7")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Solver.MaxResults)
	})

	t.Run("garbage values ignored", func(t *testing.T) {
		t.Setenv("SUMZLE_MAX_RESULTS", "many")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		require.NoError(t, err)
		assert.Equal(t, Default().Solver.MaxResults, cfg.Solver.MaxResults)
	})
}

func TestValidation(t *testing.T) {
	t.Run("negative max length", func(t *testing.T) {
		t.Setenv("SUMZLE_MAX_LENGTH", "-1")
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
	})

	t.Run("negative max operand", func(t *testing.T) {
		t.Setenv("SUMZLE_MAX_OPERAND", "-5")
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
	})
}
