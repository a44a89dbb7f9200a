package core

import (
	"context"
	"errors"
	"time"

	"github.com/inovacc/collectr/internal/fault"
	gh "github.com/inovacc/collectr/internal/github"
	"github.com/inovacc/collectr/internal/pipeline"
	"github.com/inovacc/collectr/internal/report"
)

// ErrNoAuthenticatedUser is returned when owner resolution has neither an
// explicit owner argument nor a token to look up the authenticated user.
var ErrNoAuthenticatedUser = errors.New("no owner given and no GitHub token available to resolve the authenticated user")

// OwnerResolveService resolves the account whose projects are discovered:
// either the explicitly requested owner or the authenticated user.
type OwnerResolveService struct {
	Token string
}

// Execute implements pipeline.Service.
// Parameters: "owner" (optional; empty means the authenticated user).
func (s *OwnerResolveService) Execute(ctx context.Context, params pipeline.Params) *report.Report {
	rep := report.New()

	owner := params.String("owner")

	client := gh.NewClient(ctx, s.Token)

	if owner == "" && s.Token == "" {
		rep.AddAction("resolve_owner", report.OutcomeFailed, "no owner and no token")

		rec, err := fault.NewRecord(ErrNoAuthenticatedUser, []string{
			"Pass an explicit owner: collectr discover <owner>",
			"Or set GITHUB_TOKEN (or GH_TOKEN) so the authenticated user can be resolved",
			"Or authenticate the gh CLI: gh auth login",
		})
		if err == nil {
			rep.SetError(rec)
		}

		return rep
	}

	start := time.Now()

	user, _, err := client.Users.Get(ctx, owner)
	if err != nil {
		rep.AddTimedAction("resolve_owner", report.OutcomeFailed, owner, time.Since(start))
		rep.SetError(fault.FromFault(err, fault.Context{
			"command": "collectr discover",
			"owner":   owner,
		}))

		return rep
	}

	rep.AddTimedAction("resolve_owner", report.OutcomeSuccess, user.GetLogin(), time.Since(start))

	_ = rep.AddData("OWNER", user.GetLogin())
	_ = rep.AddData("OWNER_TYPE", user.GetType())

	return rep
}
