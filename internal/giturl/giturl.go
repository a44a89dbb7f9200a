// Package giturl normalizes git remote URLs into owner/repo coordinates.
package giturl

import (
	"fmt"
	"net/url"
	"strings"
)

const defaultHost = "github.com"

// Repository identifies a remote repository by host, owner and name.
type Repository struct {
	Owner string
	Name  string
	Host  string
}

// FullName returns the "owner/repo" string.
func (r *Repository) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// WebURL returns the browser URL for the repository.
func (r *Repository) WebURL() string {
	return fmt.Sprintf("https://%s/%s/%s", r.Host, r.Owner, r.Name)
}

func isSupportedProtocol(u string) bool {
	return strings.HasPrefix(u, "ssh:") ||
		strings.HasPrefix(u, "git+ssh:") ||
		strings.HasPrefix(u, "git:") ||
		strings.HasPrefix(u, "http:") ||
		strings.HasPrefix(u, "git+https:") ||
		strings.HasPrefix(u, "https:")
}

// IsURL checks if the given string looks like a git remote URL.
func IsURL(u string) bool {
	return strings.HasPrefix(u, "git@") || isSupportedProtocol(u)
}

// Parse normalizes a git remote URL, including scp-like syntax
// (git@github.com:owner/repo).
func Parse(rawURL string) (*url.URL, error) {
	if !isSupportedProtocol(rawURL) &&
		strings.ContainsRune(rawURL, ':') &&
		// not a Windows path
		!strings.ContainsRune(rawURL, '\\') {
		// support scp-like syntax for ssh protocol
		rawURL = "ssh://" + strings.Replace(rawURL, ":", "/", 1)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "git+https":
		u.Scheme = "https"
	case "git+ssh":
		u.Scheme = "ssh"
	}

	if u.Scheme != "ssh" {
		return u, nil
	}

	if strings.HasPrefix(u.Path, "//") {
		u.Path = strings.TrimPrefix(u.Path, "/")
	}

	u.Host = strings.TrimSuffix(u.Host, ":"+u.Port())

	return u, nil
}

// FromRemote parses a remote URL into a Repository.
func FromRemote(remoteURL string) (*Repository, error) {
	u, err := Parse(remoteURL)
	if err != nil {
		return nil, err
	}

	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, &InvalidRemoteError{URL: remoteURL}
	}

	host := u.Host
	if host == "" {
		host = defaultHost
	}

	return &Repository{
		Owner: parts[0],
		Name:  strings.TrimSuffix(parts[1], ".git"),
		Host:  host,
	}, nil
}

// FromArg parses a repository argument in any of the accepted forms:
// "owner/repo", a full https/ssh URL, or scp-like "git@host:owner/repo".
func FromArg(arg string) (*Repository, error) {
	if IsURL(arg) {
		return FromRemote(arg)
	}

	parts := strings.Split(strings.Trim(arg, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, &InvalidRemoteError{URL: arg}
	}

	return &Repository{
		Owner: parts[0],
		Name:  strings.TrimSuffix(parts[1], ".git"),
		Host:  defaultHost,
	}, nil
}

// InvalidRemoteError reports a remote that does not resolve to owner/repo.
type InvalidRemoteError struct {
	URL string
}

func (e *InvalidRemoteError) Error() string {
	return fmt.Sprintf("invalid remote %q: expected owner/repo", e.URL)
}

// FaultType implements the type-tag hook used by fault.Record.
func (e *InvalidRemoteError) FaultType() string { return "InvalidRemoteError" }
