package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MavenRain/CrossNet-sub002/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, TargetCSharp, cfg.Target)
	assert.Equal(t, GranularityType, cfg.Granularity)
	assert.Equal(t, 4, cfg.Indent)
	assert.Equal(t, DefaultMaxGenericDepth, cfg.MaxGenericDepth)
	assert.Empty(t, cfg.ExcludedTypes)
	assert.Equal(t, 0, cfg.Log.Verbosity)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crossnet.toml")
	content := `
target = "all"
granularity = "module"
excluded_types = ["System.Object", "Demo.Skip"]
indent = 2

[log]
verbosity = 2
json = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{TargetCSharp, TargetCpp}, cfg.Targets())
	assert.Equal(t, GranularityModule, cfg.Granularity)
	assert.Equal(t, 2, cfg.Indent)
	assert.True(t, cfg.Excluded()["Demo.Skip"])
	assert.False(t, cfg.Excluded()["Demo.Keep"])
	assert.Equal(t, 2, cfg.Log.Verbosity)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, DefaultMaxGenericDepth, cfg.MaxGenericDepth, "unset keys keep defaults")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CROSSNET_TARGET", "cpp")
	t.Setenv("CROSSNET_LOG_VERBOSITY", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, TargetCpp, cfg.Target)
	assert.Equal(t, 3, cfg.Log.Verbosity)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Target: TargetCSharp, Granularity: GranularityType, Indent: 4, MaxGenericDepth: 8}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ok", func(*Config) {}, ""},
		{"zero indent", func(c *Config) { c.Indent = 0 }, ""},
		{"bad target", func(c *Config) { c.Target = "java" }, "target must be one of"},
		{"bad granularity", func(c *Config) { c.Granularity = "file" }, "granularity must be"},
		{"negative indent", func(c *Config) { c.Indent = -1 }, "indent must be >= 0"},
		{"zero depth", func(c *Config) { c.MaxGenericDepth = 0 }, "max_generic_depth"},
		{"negative verbosity", func(c *Config) { c.Log.Verbosity = -1 }, "log.verbosity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
