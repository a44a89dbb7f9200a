package core

import (
	"log/slog"
	"time"

	"github.com/inovacc/collectr/internal/cache"
	"github.com/inovacc/collectr/internal/pipeline"
	"github.com/inovacc/collectr/internal/report"
)

// Collaborator names shared by the pipeline definitions.
const (
	svcGitRemote   = "git_remote"
	svcRepoLookup  = "github_lookup"
	svcOwner       = "resolve_owner"
	svcProjectList = "list_projects"
	svcCommitStats = "commit_stats"
	svcSnapshot    = "persist"
)

// Deps are the explicit dependencies the pipelines are built from. Tests
// substitute doubles by filling Services directly.
type Deps struct {
	Token       string
	SnapshotDir string
	Cache       *cache.Cache
	CacheTTL    time.Duration
	Logger      *slog.Logger

	// Services overrides individual collaborators when set; any name not
	// present falls back to the real implementation.
	Services map[string]pipeline.Service
}

func (d Deps) services() map[string]pipeline.Service {
	out := map[string]pipeline.Service{
		svcGitRemote:   &GitRemoteService{},
		svcRepoLookup:  &RepoLookupService{Token: d.Token},
		svcOwner:       &OwnerResolveService{Token: d.Token},
		svcProjectList: &ProjectListService{Token: d.Token, Cache: d.Cache, TTL: d.CacheTTL},
		svcCommitStats: &CommitStatsService{},
		svcSnapshot:    &SnapshotService{Dir: d.SnapshotDir},
	}

	for name, svc := range d.Services {
		out[name] = svc
	}

	return out
}

// snapshotParams flattens the aggregate's data into persistence parameters.
func snapshotParams(label string, agg *report.Report) pipeline.Params {
	params := pipeline.Params{"label": label}
	for k, v := range agg.DataMap() {
		params[k] = v
	}

	return params
}

// DetectPipeline identifies the repository at path: local remote parsing
// first, then repository metadata from the GitHub API.
func DetectPipeline(d Deps, path, remote string) *pipeline.Coordinator {
	phases := []pipeline.Phase{
		{
			Name:    "git_remote",
			Service: svcGitRemote,
			BuildParams: func(*report.Report) (pipeline.Params, error) {
				return pipeline.Params{"path": path, "remote": remote}, nil
			},
		},
		{
			Name:    "github_lookup",
			Service: svcRepoLookup,
			BuildParams: func(agg *report.Report) (pipeline.Params, error) {
				owner, err := pipeline.ExtractData("detect", "github_lookup", agg, "OWNER", "REMOTE_OWNER")
				if err != nil {
					return nil, err
				}

				repo, err := pipeline.ExtractData("detect", "github_lookup", agg, "REPO", "REMOTE_REPO")
				if err != nil {
					return nil, err
				}

				return pipeline.Params{"owner": owner, "repo": repo}, nil
			},
		},
	}

	return pipeline.NewCoordinator("detect", d.services(), phases, d.Logger)
}

// DiscoverPipeline lists the projects belonging to an owner (or the
// authenticated user) and persists the listing.
func DiscoverPipeline(d Deps, owner string) *pipeline.Coordinator {
	phases := []pipeline.Phase{
		{
			Name:    "resolve_owner",
			Service: svcOwner,
			BuildParams: func(*report.Report) (pipeline.Params, error) {
				return pipeline.Params{"owner": owner}, nil
			},
		},
		{
			Name:    "list_projects",
			Service: svcProjectList,
			BuildParams: func(agg *report.Report) (pipeline.Params, error) {
				resolved, err := pipeline.ExtractData("discover", "list_projects", agg, "OWNER", "LOGIN")
				if err != nil {
					return nil, err
				}

				ownerType, _ := agg.Data("OWNER_TYPE")

				return pipeline.Params{"owner": resolved, "owner_type": ownerType}, nil
			},
		},
		{
			Name:    "persist",
			Service: svcSnapshot,
			BuildParams: func(agg *report.Report) (pipeline.Params, error) {
				return snapshotParams("discover", agg), nil
			},
		},
	}

	return pipeline.NewCoordinator("discover", d.services(), phases, d.Logger)
}

// ActivityPipeline analyzes local commit activity for the repository at
// path and persists the result.
func ActivityPipeline(d Deps, path, remote string) *pipeline.Coordinator {
	phases := []pipeline.Phase{
		{
			Name:    "git_remote",
			Service: svcGitRemote,
			BuildParams: func(*report.Report) (pipeline.Params, error) {
				return pipeline.Params{"path": path, "remote": remote}, nil
			},
		},
		{
			Name:    "commit_stats",
			Service: svcCommitStats,
			BuildParams: func(agg *report.Report) (pipeline.Params, error) {
				repoPath, err := pipeline.ExtractData("activity", "commit_stats", agg, "REPO_PATH", "PATH")
				if err != nil {
					return nil, err
				}

				return pipeline.Params{"path": repoPath}, nil
			},
		},
		{
			Name:    "persist",
			Service: svcSnapshot,
			BuildParams: func(agg *report.Report) (pipeline.Params, error) {
				return snapshotParams("activity", agg), nil
			},
		},
	}

	return pipeline.NewCoordinator("activity", d.services(), phases, d.Logger)
}
