package core

import (
	"context"
	"time"

	"github.com/inovacc/collectr/internal/fault"
	gh "github.com/inovacc/collectr/internal/github"
	"github.com/inovacc/collectr/internal/pipeline"
	"github.com/inovacc/collectr/internal/report"
)

// RepoLookupService resolves repository metadata from the GitHub API.
type RepoLookupService struct {
	Token string
}

// Execute implements pipeline.Service.
// Parameters: "owner" and "repo" (both required, derived from detection).
func (s *RepoLookupService) Execute(ctx context.Context, params pipeline.Params) *report.Report {
	rep := report.New()

	owner := params.String("owner")
	name := params.String("repo")

	client := gh.NewClient(ctx, s.Token)

	start := time.Now()

	repo, _, err := client.Repositories.Get(ctx, owner, name)
	if err != nil {
		rep.AddTimedAction("github_repo_lookup", report.OutcomeFailed, owner+"/"+name, time.Since(start))
		rep.SetError(fault.FromFault(err, fault.Context{
			"command": "collectr detect",
			"owner":   owner,
			"repo":    name,
		}))

		return rep
	}

	rep.AddTimedAction("github_repo_lookup", report.OutcomeSuccess, owner+"/"+name, time.Since(start))

	_ = rep.AddData("DEFAULT_BRANCH", repo.GetDefaultBranch())
	_ = rep.AddData("STARS", repo.GetStargazersCount())
	_ = rep.AddData("FORKS", repo.GetForksCount())
	_ = rep.AddData("OPEN_ISSUES", repo.GetOpenIssuesCount())
	_ = rep.AddData("ARCHIVED", repo.GetArchived())

	visibility := "public"
	if repo.GetPrivate() {
		visibility = "private"
	}

	_ = rep.AddData("VISIBILITY", visibility)

	if lang := repo.GetLanguage(); lang != "" {
		_ = rep.AddData("LANGUAGE", lang)
	}

	return rep
}
