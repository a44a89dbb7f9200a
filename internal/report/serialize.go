package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// The serialized block is the only thing written to stdout and the only
// interface the downstream text-processing agent has. Values are not escaped;
// embedded newlines or '=' in a value are a known, accepted limitation.

const failureBanner = `============================================================
EXECUTION_STATUS=FAILED
AGENT_DIRECTIVE=STOP_PROCESSING
An unrecoverable error occurred. Stop processing this output
and follow the recovery instructions at the end of this block.
============================================================`

// Serialize renders the report into the canonical line-oriented text format.
// The output branches entirely on HasError: the failure form leads with an
// unmissable stop banner and ends with the mandatory recovery instructions;
// the success form leads with EXECUTION_STATUS=SUCCESS.
func (r *Report) Serialize() string {
	var b strings.Builder

	if r.HasError() {
		r.serializeFailure(&b)
	} else {
		r.serializeSuccess(&b)
	}

	return b.String()
}

func (r *Report) serializeFailure(b *strings.Builder) {
	rec := r.err

	b.WriteString(failureBanner)
	b.WriteString("\n\n")

	fmt.Fprintf(b, "ERROR_TYPE=%s\n", rec.Type())
	fmt.Fprintf(b, "ERROR_MESSAGE=%s\n", rec.Message())
	fmt.Fprintf(b, "ERROR_TIMESTAMP=%s\n", rec.CreatedAt().Format(time.RFC3339))

	writeKeyedBlock(b, "DEBUG_INFO", rec.DebugInfo())
	writeKeyedBlock(b, "CONTEXT", rec.Context())

	if r.debugLogPath != "" {
		fmt.Fprintf(b, "\nDEBUG_LOG=%s\n", r.debugLogPath)
	}

	if stack := rec.Stack(); stack != "" {
		b.WriteString("\nSTACK_TRACE:\n")
		b.WriteString(stack)

		if !strings.HasSuffix(stack, "\n") {
			b.WriteString("\n")
		}
	}

	// Everything accumulated before the failure is kept for forensic value.
	r.writeDataSection(b)
	r.writeActionSection(b)
	r.writeFileSection(b)

	b.WriteString("\nRECOVERY_INSTRUCTIONS:\n")
	for _, step := range rec.Recovery() {
		fmt.Fprintf(b, "- %s\n", step)
	}
}

func (r *Report) serializeSuccess(b *strings.Builder) {
	b.WriteString("EXECUTION_STATUS=SUCCESS\n")

	if r.debugLogPath != "" {
		fmt.Fprintf(b, "DEBUG_LOG=%s\n", r.debugLogPath)
	}

	r.writeActionSection(b)
	r.writeFileSection(b)
	r.writeDataSection(b)

	b.WriteString("\nINSTRUCTIONS:\n")
	for _, text := range r.instructions {
		fmt.Fprintf(b, "- %s\n", text)
	}
}

func (r *Report) writeActionSection(b *strings.Builder) {
	b.WriteString("\nACTIONS:\n")

	var succeeded, failed, skipped int

	for i, a := range r.actions {
		n := i + 1

		fmt.Fprintf(b, "ACTION_%d_EVENT=%s\n", n, a.Event)
		fmt.Fprintf(b, "ACTION_%d_RESULT=%s\n", n, a.Outcome)

		if a.Details != "" {
			fmt.Fprintf(b, "ACTION_%d_DETAILS=%s\n", n, a.Details)
		}

		if a.DurationMS >= 0 {
			fmt.Fprintf(b, "ACTION_%d_DURATION_MS=%d\n", n, a.DurationMS)
		}

		switch a.Outcome {
		case OutcomeSuccess:
			succeeded++
		case OutcomeFailed:
			failed++
		case OutcomeSkipped:
			skipped++
		}
	}

	fmt.Fprintf(b, "ACTIONS_SUCCEEDED=%d\n", succeeded)
	fmt.Fprintf(b, "ACTIONS_FAILED=%d\n", failed)
	fmt.Fprintf(b, "ACTIONS_SKIPPED=%d\n", skipped)
}

func (r *Report) writeFileSection(b *strings.Builder) {
	b.WriteString("\nFILES:\n")

	for i, f := range r.files {
		n := i + 1

		fmt.Fprintf(b, "FILE_%d_PATH=%s\n", n, f.Path)
		fmt.Fprintf(b, "FILE_%d_OPERATION=%s\n", n, f.Operation)

		if f.SizeBytes >= 0 {
			fmt.Fprintf(b, "FILE_%d_SIZE=%d\n", n, f.SizeBytes)
		}
	}

	fmt.Fprintf(b, "FILES_TOTAL=%d\n", len(r.files))
}

func (r *Report) writeDataSection(b *strings.Builder) {
	b.WriteString("\nDATA:\n")

	for _, key := range r.dataKeys {
		fmt.Fprintf(b, "%s=%s\n", key, r.data[key])
	}
}

// writeKeyedBlock renders a map as an upper-cased KEY=<json value> block.
// Keys are sorted so the output is deterministic. Empty maps are omitted.
func writeKeyedBlock(b *strings.Builder, header string, entries map[string]any) {
	if len(entries) == 0 {
		return
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	fmt.Fprintf(b, "\n%s:\n", header)

	for _, k := range keys {
		label := strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(k))

		encoded, err := json.Marshal(entries[k])
		if err != nil {
			encoded = []byte(fmt.Sprintf("%q", fmt.Sprint(entries[k])))
		}

		fmt.Fprintf(b, "%s=%s\n", label, encoded)
	}
}
