// Package intercept defines the decision a hook returns to the host: either
// a substitute result that replaces the host's own behaviour, or a request to
// let the host run its default.
package intercept

import "errors"

// Result is the tagged outcome of an intercepted host call.
type Result struct {
	override bool
	value    any
}

// Override supplies value as the full substitute result.
func Override(value any) Result {
	return Result{override: true, value: value}
}

// Defer asks the host to run its default behaviour.
func Defer() Result {
	return Result{}
}

// Overridden reports whether the hook supplied a substitute.
func (r Result) Overridden() bool {
	return r.override
}

// Value returns the substitute, or nil for Defer.
func (r Result) Value() any {
	return r.value
}

// Common reasons a hook declines to intervene. All are recovered locally:
// the hook logs and the host's own behaviour runs.
var (
	ErrMissingOwner      = errors.New("owning faction not found")
	ErrMissingDefinition = errors.New("transport ship def not found")
	ErrMissingComponent  = errors.New("ship thing has no shuttle component")
	ErrMissingDelayStep  = errors.New("no shuttle delay step in quest")
	ErrIndexNotFound     = errors.New("step not found in quest")
	ErrMissingSlateValue = errors.New("slate value not set")
	ErrUnexpectedTarget  = errors.New("unexpected hook target")
)
