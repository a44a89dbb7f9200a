package core

import (
	"context"
	"time"

	"github.com/inovacc/collectr/internal/fault"
	"github.com/inovacc/collectr/internal/git"
	"github.com/inovacc/collectr/internal/pipeline"
	"github.com/inovacc/collectr/internal/report"
)

// CommitStatsService gathers local commit activity for a repository: commit
// and contributor counts plus the most recent commit date, all read from the
// local history without touching the network.
type CommitStatsService struct{}

// Execute implements pipeline.Service.
// Parameters: "path" (repository directory, required, derived from
// detection).
func (s *CommitStatsService) Execute(ctx context.Context, params pipeline.Params) *report.Report {
	rep := report.New()

	path := params.String("path")
	if path == "" {
		path = "."
	}

	client := git.NewClient(path)

	start := time.Now()

	commits, err := client.CommitCount(ctx)
	if err != nil {
		if git.IsEmptyRepository(err) {
			rep.AddAction("count_commits", report.OutcomeSkipped, "repository has no commits")
			_ = rep.AddData("COMMITS", 0)
			_ = rep.AddData("CONTRIBUTORS", 0)

			return rep
		}

		rep.AddTimedAction("count_commits", report.OutcomeFailed, path, time.Since(start))
		rep.SetError(fault.FromFault(err, fault.Context{
			"command": "collectr activity",
			"path":    path,
		}))

		return rep
	}

	_ = rep.AddData("COMMITS", commits)
	rep.AddTimedAction("count_commits", report.OutcomeSuccess, "", time.Since(start))

	contributors, err := client.Contributors(ctx)
	if err != nil {
		rep.AddAction("count_contributors", report.OutcomeFailed, path)
		rep.SetError(fault.FromFault(err, fault.Context{
			"command": "collectr activity",
			"path":    path,
		}))

		return rep
	}

	_ = rep.AddData("CONTRIBUTORS", contributors)
	rep.AddAction("count_contributors", report.OutcomeSuccess, "")

	if last, err := client.LastCommitDate(ctx); err == nil && last != "" {
		_ = rep.AddData("LAST_COMMIT", last)
	}

	return rep
}
