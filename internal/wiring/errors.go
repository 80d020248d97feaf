package wiring

import (
	"fmt"
	"strings"
)

// WiringError describes one component that could not be wired.
type WiringError struct {
	Component string
	Layer     Kind
	Missing   []string
	// Cause is set when the constructor itself failed; Missing is then empty.
	Cause error
}

func (e *WiringError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed to build: %v", e.Component, e.Cause)
	}
	return fmt.Sprintf("%s requires provider %q", e.Component, strings.Join(e.Missing, ", "))
}

func (e *WiringError) Unwrap() error {
	return e.Cause
}

// FailureMessage closes every wiring report.
const FailureMessage = "process has failed on dependency injection"

// Report is the consolidated result of a failed assembly.
type Report struct {
	Errors []*WiringError
}

func (r *Report) Error() string {
	lines := make([]string, 0, len(r.Errors)+1)
	for _, e := range r.Errors {
		lines = append(lines, e.Error())
	}
	lines = append(lines, FailureMessage)
	return strings.Join(lines, "\n")
}

// Unwrap exposes the individual wiring errors to errors.Is/As.
func (r *Report) Unwrap() []error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errs
}

// Unresolved counts the missing provider names across the report.
func (r *Report) Unresolved() int {
	n := 0
	for _, e := range r.Errors {
		n += len(e.Missing)
	}
	return n
}

// ByLayer groups errors by layer kind.
func (r *Report) ByLayer() map[Kind][]*WiringError {
	out := make(map[Kind][]*WiringError)
	for _, e := range r.Errors {
		out[e.Layer] = append(out[e.Layer], e)
	}
	return out
}
