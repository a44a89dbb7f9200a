// Package github creates authenticated GitHub API clients and resolves the
// token they use.
package github

import (
	"context"
	"os"

	ghauth "github.com/cli/go-gh/v2/pkg/auth"
	"github.com/google/go-github/v82/github"
	"golang.org/x/oauth2"
)

// NewClient creates an authenticated GitHub client using the provided token.
// An empty token yields an unauthenticated client, which works for public
// data at a reduced rate limit.
func NewClient(ctx context.Context, token string) *github.Client {
	if token == "" {
		return github.NewClient(nil)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return github.NewClient(tc)
}

// TokenSource indicates where the token was found.
type TokenSource string

const (
	TokenSourceFlag      TokenSource = "flag"
	TokenSourceEnvGitHub TokenSource = "GITHUB_TOKEN"
	TokenSourceEnvGH     TokenSource = "GH_TOKEN"
	TokenSourceGHCLI     TokenSource = "gh-cli"
	TokenSourceNone      TokenSource = "none"
)

// ResolveToken attempts to find a GitHub token from multiple sources.
// Priority order:
//  1. flagToken (explicit --token flag)
//  2. GITHUB_TOKEN environment variable
//  3. GH_TOKEN environment variable
//  4. gh CLI auth (keyring + config file)
//
// A missing token is not an error; callers decide whether anonymous access
// is acceptable.
func ResolveToken(flagToken string) (token string, source TokenSource) {
	if flagToken != "" {
		return flagToken, TokenSourceFlag
	}

	if token = os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, TokenSourceEnvGitHub
	}

	if token = os.Getenv("GH_TOKEN"); token != "" {
		return token, TokenSourceEnvGH
	}

	if token, _ = ghauth.TokenForHost("github.com"); token != "" {
		return token, TokenSourceGHCLI
	}

	return "", TokenSourceNone
}
