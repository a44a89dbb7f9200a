package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/go-github/v82/github"
	"github.com/inovacc/collectr/internal/cache"
	"github.com/inovacc/collectr/internal/fault"
	gh "github.com/inovacc/collectr/internal/github"
	"github.com/inovacc/collectr/internal/pipeline"
	"github.com/inovacc/collectr/internal/report"
)

// maxListedRepos caps how many repository names land in the data section;
// the full count is always reported under REPO_COUNT.
const maxListedRepos = 50

// ProjectListService lists the repositories belonging to an owner, using a
// bbolt-backed cache to avoid repeated API calls within the TTL.
type ProjectListService struct {
	Token string
	Cache *cache.Cache // optional
	TTL   time.Duration
}

// Execute implements pipeline.Service.
// Parameters: "owner" (required), "owner_type" ("User" or "Organization").
func (s *ProjectListService) Execute(ctx context.Context, params pipeline.Params) *report.Report {
	rep := report.New()

	owner := params.String("owner")
	ownerType := params.String("owner_type")

	names, fromCache := s.cachedList(owner)
	if fromCache {
		rep.AddAction("github_list_repos", report.OutcomeSkipped, "served from cache")
	} else {
		listed, err := s.listFromAPI(ctx, owner, ownerType, rep)
		if err != nil {
			rep.SetError(fault.FromFault(err, fault.Context{
				"command":    "collectr discover",
				"owner":      owner,
				"owner_type": ownerType,
			}))

			return rep
		}

		names = listed
		s.storeList(owner, names)
	}

	_ = rep.AddData("REPO_COUNT", len(names))

	for i, name := range names {
		if i == maxListedRepos {
			_ = rep.AddData("REPO_LIST_TRUNCATED", "true")
			break
		}

		_ = rep.AddData(fmt.Sprintf("REPO_%d", i+1), name)
	}

	return rep
}

func (s *ProjectListService) listFromAPI(ctx context.Context, owner, ownerType string, rep *report.Report) ([]string, error) {
	client := gh.NewClient(ctx, s.Token)

	var names []string

	start := time.Now()

	if ownerType == "Organization" {
		opts := &github.RepositoryListByOrgOptions{
			ListOptions: github.ListOptions{PerPage: 100},
		}

		for {
			repos, resp, err := client.Repositories.ListByOrg(ctx, owner, opts)
			if err != nil {
				rep.AddTimedAction("github_list_repos", report.OutcomeFailed, owner, time.Since(start))
				return nil, err
			}

			for _, r := range repos {
				names = append(names, r.GetFullName())
			}

			if resp.NextPage == 0 {
				break
			}

			opts.Page = resp.NextPage
		}
	} else {
		opts := &github.RepositoryListByUserOptions{
			ListOptions: github.ListOptions{PerPage: 100},
		}

		for {
			repos, resp, err := client.Repositories.ListByUser(ctx, owner, opts)
			if err != nil {
				rep.AddTimedAction("github_list_repos", report.OutcomeFailed, owner, time.Since(start))
				return nil, err
			}

			for _, r := range repos {
				names = append(names, r.GetFullName())
			}

			if resp.NextPage == 0 {
				break
			}

			opts.Page = resp.NextPage
		}
	}

	rep.AddTimedAction("github_list_repos", report.OutcomeSuccess,
		fmt.Sprintf("%d repositories", len(names)), time.Since(start))

	return names, nil
}

func (s *ProjectListService) cachedList(owner string) ([]string, bool) {
	if s.Cache == nil {
		return nil, false
	}

	payload, ok, err := s.Cache.Get("repos:"+owner, s.TTL)
	if err != nil || !ok {
		return nil, false
	}

	var names []string
	if err := json.Unmarshal(payload, &names); err != nil {
		return nil, false
	}

	return names, true
}

func (s *ProjectListService) storeList(owner string, names []string) {
	if s.Cache == nil {
		return
	}

	if err := s.Cache.Put("repos:"+owner, names); err != nil {
		// Cache writes are best effort; the listing already succeeded.
		slog.Warn("cache write failed", "owner", owner, "error", err)
	}
}
