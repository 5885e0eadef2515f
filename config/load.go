package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/MavenRain/CrossNet-sub002/errors"
)

// EnvPrefix is the prefix of environment overrides (CROSSNET_TARGET, ...).
const EnvPrefix = "CROSSNET"

// New returns a Viper instance with defaults and environment binding but no
// config file.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads configuration from configPath when it is non-empty, applies
// environment overrides and defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	v := New()
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates configuration from a prepared Viper
// instance. Callers use it to layer command-line flags over file values.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
