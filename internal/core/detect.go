package core

import (
	"context"
	"log/slog"

	"github.com/inovacc/collectr/internal/fault"
	"github.com/inovacc/collectr/internal/git"
	"github.com/inovacc/collectr/internal/giturl"
	"github.com/inovacc/collectr/internal/pipeline"
	"github.com/inovacc/collectr/internal/report"
)

// GitRemoteService detects the repository at a local path by reading
// .git/config directly and parsing the configured remote. It emits the
// REMOTE_URL, HOST, OWNER and REPO keys later phases derive their
// parameters from.
type GitRemoteService struct{}

// Execute implements pipeline.Service.
// Parameters: "path" (repository directory, default "."), "remote"
// (remote name, default "origin").
func (s *GitRemoteService) Execute(ctx context.Context, params pipeline.Params) *report.Report {
	rep := report.New()

	path := params.String("path")
	if path == "" {
		path = "."
	}

	remoteName := params.String("remote")

	cfg, err := git.LoadConfig(path)
	if err != nil {
		rep.AddAction("read_git_config", report.OutcomeFailed, path)
		rep.SetError(fault.FromFault(err, fault.Context{
			"command": "collectr detect",
			"path":    path,
		}))

		return rep
	}

	rep.AddAction("read_git_config", report.OutcomeSuccess, path)
	rep.AddFile(path+"/.git/config", report.FileRead, -1)

	remoteURL, ok := cfg.Remote(remoteName)
	if !ok {
		name := remoteName
		if name == "" {
			name = "origin"
		}

		rep.AddAction("resolve_remote", report.OutcomeFailed, name)
		rep.SetError(fault.FromFault(&git.RemoteNotFoundError{Name: name}, fault.Context{
			"command": "collectr detect",
			"path":    path,
			"remote":  name,
		}))

		return rep
	}

	repo, err := giturl.FromRemote(remoteURL)
	if err != nil {
		rep.AddAction("parse_remote", report.OutcomeFailed, remoteURL)
		rep.SetError(fault.FromFault(err, fault.Context{
			"command": "collectr detect",
			"remote":  remoteURL,
		}))

		return rep
	}

	rep.AddAction("parse_remote", report.OutcomeSuccess, remoteURL)

	_ = rep.AddData("REMOTE_URL", remoteURL)
	_ = rep.AddData("HOST", repo.Host)
	_ = rep.AddData("OWNER", repo.Owner)
	_ = rep.AddData("REPO", repo.Name)
	_ = rep.AddData("REPO_PATH", path)

	// Branch and head are best-effort enrichment; a repository without
	// commits still detects successfully.
	client := git.NewClient(path)

	if branch, err := client.CurrentBranch(ctx); err == nil {
		_ = rep.AddData("BRANCH", branch)
		rep.AddAction("read_branch", report.OutcomeSuccess, branch)
	} else {
		slog.Debug("branch lookup failed", "path", path, "error", err)
		rep.AddAction("read_branch", report.OutcomeSkipped, "no branch information available")
	}

	if head, err := client.HeadCommit(ctx); err == nil {
		_ = rep.AddData("HEAD_COMMIT", head)
	}

	return rep
}
