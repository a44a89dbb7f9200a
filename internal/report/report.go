// Package report implements the structured outcome container shared by every
// collection workflow. A Report accumulates data, action and file logs plus
// agent instructions; merging folds collaborator results into the aggregate
// the coordinator owns, and Serialize renders the canonical text block.
package report

import (
	"fmt"
	"regexp"
	"time"

	"github.com/inovacc/collectr/internal/fault"
)

// Outcome is the fixed result set for action log entries.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// FileOp is the fixed operation set for file log entries.
type FileOp string

const (
	FileCreated  FileOp = "created"
	FileModified FileOp = "modified"
	FileDeleted  FileOp = "deleted"
	FileRead     FileOp = "read"
)

// Action is one entry in the append-only action log.
type Action struct {
	Event      string
	Outcome    Outcome
	Details    string // optional
	DurationMS int64  // optional, negative when not recorded
}

// FileRecord is one entry in the append-only file log.
type FileRecord struct {
	Path      string
	Operation FileOp
	SizeBytes int64 // optional, negative when unknown
}

// dataKeyPattern constrains data keys to upper snake case.
var dataKeyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// Report is one unit of collected outcome, either from a single collaborator
// call or an aggregate built by merging several. Construction goes through
// New; all mutation happens through the methods below.
type Report struct {
	data         map[string]string
	dataKeys     []string // insertion order
	actions      []Action
	files        []FileRecord
	instructions []string
	err          *fault.Record
	debugLogPath string
}

// New returns an empty report.
func New() *Report {
	return &Report{
		data: make(map[string]string),
	}
}

// AddData stores a data entry, overwriting any existing value for the key.
// The value is coerced to its string form. Keys must be upper snake case
// (first character an uppercase letter, remainder uppercase letters, digits
// or underscores); anything else is a validation fault.
func (r *Report) AddData(key string, value any) error {
	if !dataKeyPattern.MatchString(key) {
		return &fault.ValidationError{
			Field:  "data key",
			Reason: fmt.Sprintf("%q must match %s", key, dataKeyPattern.String()),
		}
	}

	if _, exists := r.data[key]; !exists {
		r.dataKeys = append(r.dataKeys, key)
	}

	r.data[key] = fmt.Sprint(value)

	return nil
}

// Data returns the value for a key and whether it is present.
func (r *Report) Data(key string) (string, bool) {
	v, ok := r.data[key]
	return v, ok
}

// DataKeys returns the data keys in insertion order.
func (r *Report) DataKeys() []string {
	out := make([]string, len(r.dataKeys))
	copy(out, r.dataKeys)

	return out
}

// DataMap returns a copy of the data entries.
func (r *Report) DataMap() map[string]string {
	out := make(map[string]string, len(r.data))
	for k, v := range r.data {
		out[k] = v
	}

	return out
}

// AddAction appends an action log entry with no recorded duration.
func (r *Report) AddAction(event string, outcome Outcome, details string) {
	r.actions = append(r.actions, Action{
		Event:      event,
		Outcome:    outcome,
		Details:    details,
		DurationMS: -1,
	})
}

// AddTimedAction appends an action log entry with its measured duration.
func (r *Report) AddTimedAction(event string, outcome Outcome, details string, d time.Duration) {
	r.actions = append(r.actions, Action{
		Event:      event,
		Outcome:    outcome,
		Details:    details,
		DurationMS: d.Milliseconds(),
	})
}

// Actions returns a copy of the action log.
func (r *Report) Actions() []Action {
	out := make([]Action, len(r.actions))
	copy(out, r.actions)

	return out
}

// AddFile appends a file log entry. Pass a negative size when unknown.
func (r *Report) AddFile(path string, op FileOp, sizeBytes int64) {
	r.files = append(r.files, FileRecord{
		Path:      path,
		Operation: op,
		SizeBytes: sizeBytes,
	})
}

// Files returns a copy of the file log.
func (r *Report) Files() []FileRecord {
	out := make([]FileRecord, len(r.files))
	copy(out, r.files)

	return out
}

// AddInstruction appends one free-text guidance line for the downstream
// consumer. Instructions are only rendered when the report succeeds.
func (r *Report) AddInstruction(text string) {
	r.instructions = append(r.instructions, text)
}

// Instructions returns a copy of the instruction list.
func (r *Report) Instructions() []string {
	out := make([]string, len(r.instructions))
	copy(out, r.instructions)

	return out
}

// SetError marks the report as terminally failed. A later call replaces the
// error; an error is never cleared.
func (r *Report) SetError(rec *fault.Record) {
	r.err = rec
}

// Err returns the attached error record, or nil.
func (r *Report) Err() *fault.Record { return r.err }

// HasError reports whether an error is set.
func (r *Report) HasError() bool { return r.err != nil }

// ExitCode returns the process exit status for this report: 0 on success,
// 1 when an error is set.
func (r *Report) ExitCode() int {
	if r.err != nil {
		return 1
	}

	return 0
}

// SetDebugLog records the path of the persisted debug log so the serialized
// output can point the consumer at it.
func (r *Report) SetDebugLog(path string) {
	r.debugLogPath = path
}

// DebugLog returns the persisted debug-log path, or "".
func (r *Report) DebugLog() string { return r.debugLogPath }

// Merge folds another report into this one.
//
// When other carries an error, only that error is adopted: this report keeps
// what it has already accumulated, other's own data, actions, files and
// instructions are discarded, and the result is terminally failed.
//
// When other is error-free, its action, file and instruction logs are
// concatenated onto this report's in order, and its data entries overlay
// this report's (other wins on key collisions).
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}

	if other.HasError() {
		r.err = other.err
		return
	}

	for _, key := range other.dataKeys {
		if _, exists := r.data[key]; !exists {
			r.dataKeys = append(r.dataKeys, key)
		}

		r.data[key] = other.data[key]
	}

	r.actions = append(r.actions, other.actions...)
	r.files = append(r.files, other.files...)
	r.instructions = append(r.instructions, other.instructions...)
}
