package pipeline

import (
	"fmt"
	"strings"
)

// StructuralError reports a violated pipeline invariant: a required
// collaborator is missing, or a phase claimed success without providing a
// derived identifier downstream phases need. Structural errors are always
// fatal and never retryable; the diagnostic carries exactly what was
// expected and what was received.
type StructuralError struct {
	Pipeline   string
	Stage      string
	Reason     string
	Candidates []string          // derived-key candidates that were checked
	Received   map[string]string // full data map at the time of the failure
}

func (e *StructuralError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "pipeline %s, stage %s: %s", e.Pipeline, e.Stage, e.Reason)

	if len(e.Candidates) > 0 {
		fmt.Fprintf(&b, " (checked keys: %s)", strings.Join(e.Candidates, ", "))
	}

	if len(e.Received) > 0 {
		fmt.Fprintf(&b, " (received: %v)", e.Received)
	}

	return b.String()
}

// FaultType implements the type-tag hook used by fault.Record.
func (e *StructuralError) FaultType() string { return "StructuralError" }
