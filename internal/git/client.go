// Package git provides the read-only git operations the collection
// workflows rely on: repository introspection and local activity counts.
// Pattern inspired by github.com/cli/cli
package git

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
)

// Client wraps git invocations for one repository directory.
type Client struct {
	GitPath string // Path to git executable
	RepoDir string // Repository directory
}

// NewClient creates a git client for the given repository directory.
func NewClient(repoDir string) *Client {
	gitPath, _ := exec.LookPath("git")

	return &Client{
		GitPath: gitPath,
		RepoDir: repoDir,
	}
}

// Command creates a git command rooted at the client's repository directory.
func (c *Client) Command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.GitPath, args...)

	if c.RepoDir != "" {
		cmd.Dir = c.RepoDir
	}

	return cmd
}

// run executes a git command and returns its trimmed stdout. Failures carry
// the captured stderr in a GitError so callers can classify them.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd := c.Command(ctx, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", NewGitError(args, stderr.String(), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	return c.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// HeadCommit returns the abbreviated hash of HEAD.
func (c *Client) HeadCommit(ctx context.Context) (string, error) {
	return c.run(ctx, "rev-parse", "--short", "HEAD")
}

// CommitCount returns the number of commits reachable from HEAD.
func (c *Client) CommitCount(ctx context.Context) (int, error) {
	out, err := c.run(ctx, "rev-list", "--count", "HEAD")
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(out)
}

// LastCommitDate returns the committer date of HEAD in strict ISO 8601 form.
func (c *Client) LastCommitDate(ctx context.Context) (string, error) {
	return c.run(ctx, "log", "-1", "--format=%cI")
}

// Contributors returns the distinct author count for commits reachable from
// HEAD, deduplicated by author email.
func (c *Client) Contributors(ctx context.Context) (int, error) {
	out, err := c.run(ctx, "log", "--format=%ae", "HEAD")
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{})

	for _, line := range strings.Split(out, "\n") {
		email := strings.TrimSpace(line)
		if email != "" {
			seen[email] = struct{}{}
		}
	}

	return len(seen), nil
}

// IsRepository reports whether the client's directory is inside a git
// work tree.
func (c *Client) IsRepository(ctx context.Context) bool {
	out, err := c.run(ctx, "rev-parse", "--is-inside-work-tree")

	return err == nil && out == "true"
}
