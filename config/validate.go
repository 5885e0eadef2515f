package config

import "github.com/MavenRain/CrossNet-sub002/errors"

// ErrInvalidConfig marks configuration validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Target {
	case TargetCSharp, TargetCpp, TargetAll:
	default:
		return errors.Wrapf(ErrInvalidConfig, "target must be one of cs, cpp, all; got %q", c.Target)
	}

	switch c.Granularity {
	case GranularityType, GranularityModule:
	default:
		return errors.Wrapf(ErrInvalidConfig, "granularity must be type or module; got %q", c.Granularity)
	}

	// zero indent is allowed and indents with tabs
	if c.Indent < 0 {
		return errors.Wrapf(ErrInvalidConfig, "indent must be >= 0, got %d", c.Indent)
	}
	if c.MaxGenericDepth < 1 {
		return errors.Wrapf(ErrInvalidConfig, "max_generic_depth must be >= 1, got %d", c.MaxGenericDepth)
	}
	if c.Log.Verbosity < 0 {
		return errors.Wrapf(ErrInvalidConfig, "log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	return nil
}
