package compiler

// Compatibility patches work around known defects of the upstream model.
// Each one is narrow, recorded on the EmissionContext and logged at debug
// level when it fires.
const (
	// PatchTrailingTryReturn appends one fallback return after a trailing
	// try statement in a non-void body, which target compilers otherwise
	// reject as a missing return.
	PatchTrailingTryReturn = "trailing-try-return"
	// PatchUndefinedGotoContinue emits continue for a goto whose label the
	// body never defines.
	PatchUndefinedGotoContinue = "undefined-goto-continue"
	// PatchInOutByRefAsRef treats a by-ref parameter flagged both in and
	// out as ref, and drops an out flag on a by-value parameter.
	PatchInOutByRefAsRef = "inout-byref-as-ref"
	// PatchEventBackingFieldByName finds an event's accessors and backing
	// field by name when the model duplicated the objects.
	PatchEventBackingFieldByName = "event-backing-field-by-name"
)

// Patches lists every compatibility patch name.
func Patches() []string {
	return []string{
		PatchTrailingTryReturn,
		PatchUndefinedGotoContinue,
		PatchInOutByRefAsRef,
		PatchEventBackingFieldByName,
	}
}
