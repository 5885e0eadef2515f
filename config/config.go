// Package config loads generator settings from a TOML file, CROSSNET_
// environment variables and built-in defaults.
package config

// Config is the configuration surface consumed by the generator and CLI.
type Config struct {
	Target          string    `mapstructure:"target"`
	Granularity     string    `mapstructure:"granularity"`
	ExcludedTypes   []string  `mapstructure:"excluded_types"`
	Indent          int       `mapstructure:"indent"`
	MaxGenericDepth int       `mapstructure:"max_generic_depth"`
	OutputDir       string    `mapstructure:"output_dir"`
	Log             LogConfig `mapstructure:"log"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Verbosity int  `mapstructure:"verbosity"`
	JSON      bool `mapstructure:"json"`
}

// Target syntax names.
const (
	TargetCSharp = "cs"
	TargetCpp    = "cpp"
	TargetAll    = "all"
)

// Output granularities.
const (
	GranularityType   = "type"
	GranularityModule = "module"
)

// Targets expands the configured target into the concrete target list.
func (c *Config) Targets() []string {
	if c.Target == TargetAll {
		return []string{TargetCSharp, TargetCpp}
	}
	return []string{c.Target}
}

// Excluded returns the excluded type names as a set.
func (c *Config) Excluded() map[string]bool {
	set := make(map[string]bool, len(c.ExcludedTypes))
	for _, name := range c.ExcludedTypes {
		set[name] = true
	}
	return set
}
