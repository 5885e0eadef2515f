package config

import "github.com/spf13/viper"

// DefaultMaxGenericDepth bounds recursion when rendering generic argument
// graphs.
const DefaultMaxGenericDepth = 16

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("target", TargetCSharp)
	v.SetDefault("granularity", GranularityType)
	v.SetDefault("excluded_types", []string{})
	v.SetDefault("indent", 4)
	v.SetDefault("max_generic_depth", DefaultMaxGenericDepth)
	v.SetDefault("output_dir", "") // empty writes to stdout

	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.json", false)
}
