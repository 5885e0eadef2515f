package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
const (
	VerbosityUser  = 0 // No flags: results and errors only
	VerbosityInfo  = 1 // -v: + per-type progress
	VerbosityDebug = 2 // -vv: + compatibility patches, pass timing
	VerbosityTrace = 3 // -vvv: + dispatch statistics
)

// Standard field names for consistent structured logging.
const (
	FieldComponent  = "component"
	FieldType       = "type"
	FieldMember     = "member"
	FieldPatch      = "patch"
	FieldTarget     = "target"
	FieldPass       = "pass"
	FieldDurationMS = "duration_ms"
	FieldCount      = "count"
)

// VerbosityToLevel maps verbosity flags (-v, -vv, etc.) to zap log levels
//
// Mapping:
//
//	0 (none)  -> WarnLevel
//	1 (-v)    -> InfoLevel
//	2+ (-vv)  -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// ShouldLogTrace returns true for verbosity >= 3 (-vvv)
func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}
