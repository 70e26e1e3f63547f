package sile_test

import (
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/sile"
)

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "sile.jsonc", []byte(`{
	// cluster scripts rename TIMES
	"aliases": {
		"timing": "times",
	},
	"log_level": "warn",
	"strict": true,
}`))

	cfg, err := sile.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"timing": "times"}, cfg.Aliases)
	assert.True(t, cfg.Strict)
	assert.Len(t, cfg.Options(), 1)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	require.NoError(t, cfg.Apply())

	run := writeFile(t, "run.timing", []byte(timesFile))
	s, err := sile.Open(run, cfg.Options()...)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "siesta.times", s.Format())
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := sile.ParseConfig("empty", []byte(`{}`))
	require.NoError(t, err)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
	assert.Empty(t, cfg.Options())
	assert.NoError(t, cfg.Apply())
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantKey string
	}{
		{name: "syntax", data: `{"aliases": `},
		{name: "unknown field", data: `{"verbose": true}`},
		{name: "wrong type", data: `{"strict": "yes"}`},
		{name: "bad level", data: `{"log_level": "loud"}`, wantKey: "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sile.ParseConfig("test.jsonc", []byte(tt.data))
			var cfgErr *sile.ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, "test.jsonc", cfgErr.Path)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestConfig_ApplyUnknownTarget(t *testing.T) {
	cfg, err := sile.ParseConfig("test.jsonc", []byte(`{"aliases": {"b": "nope-b", "a": "nope-a"}}`))
	require.NoError(t, err)

	err = cfg.Apply()
	var cfgErr *sile.ConfigError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "aliases.a", cfgErr.Key)
	assert.Contains(t, err.Error(), "aliases.b")
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := sile.LoadConfig(filepath.Join(t.TempDir(), "absent.jsonc"))
	var cfgErr *sile.ConfigError
	assert.True(t, errors.As(err, &cfgErr), "got %v", err)
}
