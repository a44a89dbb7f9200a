package fault

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"
)

// Context carries caller-supplied details for classification, such as the
// pipeline stage or the command being run. The "command" key, when present,
// adds a command-specific --help hint to the recovery steps.
type Context map[string]any

// signature pairs a best-effort message predicate with a fixed remediation
// template. Matching is heuristic by design: the list covers the documented
// low-level fault signatures and nothing more, with a guaranteed generic
// fallback when none match.
type signature struct {
	name  string
	match func(msg string) bool
	steps []string
}

func containsAny(msg string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(msg, n) {
			return true
		}
	}

	return false
}

var signatures = []signature{
	{
		name: "missing-file",
		match: func(msg string) bool {
			return containsAny(msg, "no such file or directory", "cannot find the file", "file does not exist", "enoent")
		},
		steps: []string{
			"Verify the file or directory path exists and is spelled correctly",
			"Check that the command is being run from the intended working directory",
			"Create the missing file or directory if it is expected to exist",
		},
	},
	{
		name: "permission-denied",
		match: func(msg string) bool {
			return containsAny(msg, "permission denied", "access is denied", "eacces", "operation not permitted")
		},
		steps: []string{
			"Check the permissions on the target file or directory",
			"Verify the current user owns the target or has been granted access",
			"Re-run with sufficient privileges if elevated access is required",
		},
	},
	{
		name: "already-exists",
		match: func(msg string) bool {
			return containsAny(msg, "already exists", "eexist")
		},
		steps: []string{
			"Remove or rename the existing file or directory",
			"Choose a different output path if the existing one must be kept",
		},
	},
	{
		name: "connection-refused",
		match: func(msg string) bool {
			return containsAny(msg, "connection refused", "econnrefused", "no such host", "network is unreachable")
		},
		steps: []string{
			"Check that the network connection is up",
			"Verify the remote endpoint is reachable and accepting connections",
			"Check proxy and firewall settings if the host is behind one",
		},
	},
	{
		name: "timeout",
		match: func(msg string) bool {
			return containsAny(msg, "timeout", "timed out", "deadline exceeded")
		},
		steps: []string{
			"Retry the operation; the remote service may be slow or briefly unavailable",
			"Check the network connection quality",
			"Verify the remote service is healthy before retrying",
		},
	},
	{
		name: "malformed-data",
		match: func(msg string) bool {
			return containsAny(msg, "invalid character", "unexpected end of json", "cannot unmarshal", "malformed", "unexpected eof")
		},
		steps: []string{
			"Inspect the input data for truncation or formatting errors",
			"Regenerate the input from its source if it was hand-edited",
			"Verify the data was produced by a compatible version of this tool",
		},
	},
	{
		name: "missing-dependency",
		match: func(msg string) bool {
			return containsAny(msg, "executable file not found", "command not found", "not recognized as an internal or external command")
		},
		steps: []string{
			"Install the missing tool referenced in the error message",
			"Verify the tool's location is included in PATH",
			"Restart the shell so PATH changes take effect",
		},
	},
}

// genericSteps is the fallback remediation when no signature matches.
var genericSteps = []string{
	"Re-run the command with the same arguments to rule out a transient failure",
	"Verify the inputs listed in the debug info below",
	"Report the issue with the full output attached if it persists",
}

// FromFault normalizes an arbitrary fault into a Record. The cause's message
// is matched against the known signatures in order and the first match
// supplies the remediation steps; unrecognized faults get the generic steps.
// Universal trailing steps (debug log, stack trace, --help hint) are always
// appended, and machine context is captured into the record's debug info.
func FromFault(cause error, ctx Context) *Record {
	msg := ""
	if cause != nil {
		msg = strings.ToLower(cause.Error())
	}

	steps := genericSteps
	for _, sig := range signatures {
		if sig.match(msg) {
			steps = sig.steps
			break
		}
	}

	out := make([]string, 0, len(steps)+3)
	out = append(out, steps...)
	out = append(out, "Review the debug log for the full execution trace")

	rec, err := NewRecord(cause, out)
	if err != nil {
		// Unreachable: the templates above are never empty or blank.
		panic(err)
	}

	if rec.Stack() != "" {
		rec.recovery = append(rec.recovery, "Inspect the stack trace to locate the failing call")
	}

	for k, v := range ctx {
		rec.AddContext(k, v)
	}

	if cmd, ok := ctx["command"].(string); ok && cmd != "" {
		rec.recovery = append(rec.recovery, fmt.Sprintf("Run %q for usage details", cmd+" --help"))
	}

	captureDebugInfo(rec)

	return rec
}

// captureDebugInfo records the machine context every failure report carries.
func captureDebugInfo(rec *Record) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "unknown"
	}

	rec.debugInfo["working_dir"] = wd
	rec.debugInfo["go_version"] = runtime.Version()
	rec.debugInfo["platform"] = runtime.GOOS + "/" + runtime.GOARCH
	rec.debugInfo["captured_at"] = time.Now().UTC().Format(time.RFC3339)
}
