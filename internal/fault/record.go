// Package fault defines the terminal failure record attached to reports.
// Every failure that reaches the top of a pipeline is normalized into a
// Record carrying mandatory, human-readable recovery instructions.
package fault

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"
)

// ValidationError reports a construction-time contract violation, such as a
// malformed data key or an empty recovery-instruction list. It is always a
// programming error, never a runtime condition to recover from.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// FaultType implements the type-tag hook used by Record.Type.
func (e *ValidationError) FaultType() string { return "ValidationError" }

// Record is a terminal failure with mandatory remediation. Construction goes
// through NewRecord or FromFault only; fields are sealed behind accessors so
// the non-empty recovery invariant cannot be broken after the fact.
type Record struct {
	cause     error
	recovery  []string
	debugInfo map[string]any
	context   map[string]any
	createdAt time.Time
}

// NewRecord builds a Record from a cause and its recovery steps.
// Returns a ValidationError if recovery is empty or contains a blank entry.
func NewRecord(cause error, recovery []string) (*Record, error) {
	if len(recovery) == 0 {
		return nil, &ValidationError{
			Field:  "recoveryInstructions",
			Reason: "at least one recovery instruction is required",
		}
	}

	steps := make([]string, 0, len(recovery))
	for i, step := range recovery {
		if strings.TrimSpace(step) == "" {
			return nil, &ValidationError{
				Field:  "recoveryInstructions",
				Reason: fmt.Sprintf("the %s instruction is blank", Ordinal(i+1)),
			}
		}

		steps = append(steps, step)
	}

	return &Record{
		cause:     cause,
		recovery:  steps,
		debugInfo: make(map[string]any),
		context:   make(map[string]any),
		createdAt: time.Now().UTC(),
	}, nil
}

// Cause returns the underlying fault.
func (r *Record) Cause() error { return r.cause }

// Message returns the cause's message, or a fixed placeholder when the cause
// is unknown.
func (r *Record) Message() string {
	if r.cause == nil {
		return "unknown error"
	}

	return r.cause.Error()
}

// Type derives a stable tag from the cause. Causes may provide their own tag
// via a FaultType() method; otherwise the concrete type name is used. Opaque
// causes (nil, anonymous or unexported types) report "UnknownError".
func (r *Record) Type() string {
	if r.cause == nil {
		return "UnknownError"
	}

	if t, ok := r.cause.(interface{ FaultType() string }); ok {
		return t.FaultType()
	}

	t := reflect.TypeOf(r.cause)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		return "UnknownError"
	}

	return name
}

// Stack returns the stack trace exposed by the cause, or "" if it has none.
func (r *Record) Stack() string {
	if r.cause == nil {
		return ""
	}

	if s, ok := r.cause.(interface{ StackTrace() string }); ok {
		return s.StackTrace()
	}

	return ""
}

// Recovery returns a copy of the recovery instructions. Never empty.
func (r *Record) Recovery() []string {
	out := make([]string, len(r.recovery))
	copy(out, r.recovery)

	return out
}

// AddContext records one supplementary context entry. Nil values are ignored
// so callers can pass through optional context unconditionally.
func (r *Record) AddContext(key string, value any) {
	if value == nil {
		return
	}

	r.context[key] = value
}

// Context returns a copy of the caller-supplied context entries.
func (r *Record) Context() map[string]any {
	out := make(map[string]any, len(r.context))
	for k, v := range r.context {
		out[k] = v
	}

	return out
}

// DebugInfo returns a copy of the machine-captured debug entries.
func (r *Record) DebugInfo() map[string]any {
	out := make(map[string]any, len(r.debugInfo))
	for k, v := range r.debugInfo {
		out[k] = v
	}

	return out
}

// CreatedAt returns the record's creation time (UTC).
func (r *Record) CreatedAt() time.Time { return r.createdAt }
