package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// GitError wraps a failed git invocation with its captured stderr, which is
// what the error-message signature helpers below inspect.
type GitError struct {
	ExitCode int
	Stderr   string
	Args     []string
	err      error
}

func (e *GitError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr != "" {
		return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), stderr)
	}

	return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.err)
}

func (e *GitError) Unwrap() error {
	return e.err
}

// FaultType implements the type-tag hook used by fault.Record.
func (e *GitError) FaultType() string { return "GitError" }

// NewGitError creates a GitError from command arguments, stderr and the
// underlying exec error.
func NewGitError(args []string, stderr string, err error) *GitError {
	exitCode := -1

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	return &GitError{
		ExitCode: exitCode,
		Stderr:   stderr,
		Args:     args,
		err:      err,
	}
}

// RemoteNotFoundError reports a remote name with no usable entry in
// .git/config.
type RemoteNotFoundError struct {
	Name string
}

func (e *RemoteNotFoundError) Error() string {
	return fmt.Sprintf("remote %q is not configured in .git/config", e.Name)
}

// FaultType implements the type-tag hook used by fault.Record.
func (e *RemoteNotFoundError) FaultType() string { return "RemoteNotFoundError" }

// Common error messages from git
const (
	errMsgNotRepository = "not a git repository"
	errMsgAuthFailed    = "Authentication failed"
	errMsgPermission    = "Permission denied"
	errMsgBadRevision   = "unknown revision"
)

// IsNotRepository checks if the error indicates not a git repository.
func IsNotRepository(err error) bool {
	return containsError(err, errMsgNotRepository)
}

// IsAuthRequired checks if the error indicates authentication is required.
func IsAuthRequired(err error) bool {
	return containsError(err, errMsgAuthFailed) || containsError(err, errMsgPermission)
}

// IsEmptyRepository checks if the error indicates a repository with no
// commits yet.
func IsEmptyRepository(err error) bool {
	return containsError(err, errMsgBadRevision)
}

func containsError(err error, msg string) bool {
	if err == nil {
		return false
	}

	var gitErr *GitError
	if errors.As(err, &gitErr) {
		return strings.Contains(strings.ToLower(gitErr.Stderr), strings.ToLower(msg))
	}

	return strings.Contains(strings.ToLower(err.Error()), strings.ToLower(msg))
}
