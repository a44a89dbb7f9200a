package core

import (
	"context"
	"strings"
	"testing"

	"github.com/inovacc/collectr/internal/fault"
	"github.com/inovacc/collectr/internal/pipeline"
	"github.com/inovacc/collectr/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stub builds a pipeline.Service from a fixed report factory.
type stub struct {
	build  func(params pipeline.Params) *report.Report
	called bool
}

func (s *stub) Execute(_ context.Context, params pipeline.Params) *report.Report {
	s.called = true

	return s.build(params)
}

func stubData(entries map[string]any) *stub {
	return &stub{build: func(pipeline.Params) *report.Report {
		rep := report.New()
		for k, v := range entries {
			if err := rep.AddData(k, v); err != nil {
				panic(err)
			}
		}

		return rep
	}}
}

func TestDetectPipelineEndToEnd(t *testing.T) {
	lookup := stubData(map[string]any{"COMMITS": "42"})

	deps := Deps{Services: map[string]pipeline.Service{
		svcGitRemote:  stubData(map[string]any{"OWNER": "acme", "REPO": "widget"}),
		svcRepoLookup: lookup,
	}}

	agg := DetectPipeline(deps, ".", "origin").Run(context.Background())

	require.False(t, agg.HasError())
	assert.Equal(t, 0, agg.ExitCode())
	assert.True(t, lookup.called)

	data := agg.DataMap()
	assert.Equal(t, "acme", data["OWNER"])
	assert.Equal(t, "widget", data["REPO"])
	assert.Equal(t, "42", data["COMMITS"])

	out := agg.Serialize()
	assert.True(t, strings.HasPrefix(out, "EXECUTION_STATUS=SUCCESS\n"))
	assert.Contains(t, out, "OWNER=acme\nREPO=widget\nCOMMITS=42")
}

func TestDetectPipelineDerivedParams(t *testing.T) {
	var got pipeline.Params

	lookup := &stub{build: func(params pipeline.Params) *report.Report {
		got = params
		return report.New()
	}}

	deps := Deps{Services: map[string]pipeline.Service{
		svcGitRemote:  stubData(map[string]any{"OWNER": "acme", "REPO": "widget"}),
		svcRepoLookup: lookup,
	}}

	agg := DetectPipeline(deps, ".", "origin").Run(context.Background())

	require.False(t, agg.HasError())
	assert.Equal(t, "acme", got.String("owner"))
	assert.Equal(t, "widget", got.String("repo"))
}

func TestDiscoverPipelineFailureEndToEnd(t *testing.T) {
	rec, err := fault.NewRecord(assertableErr("bad credentials"), []string{"Check token", "Retry login"})
	require.NoError(t, err)

	failing := &stub{build: func(pipeline.Params) *report.Report {
		rep := report.New()
		rep.SetError(rec)

		return rep
	}}
	list := stubData(nil)
	persist := stubData(nil)

	deps := Deps{Services: map[string]pipeline.Service{
		svcOwner:       failing,
		svcProjectList: list,
		svcSnapshot:    persist,
	}}

	agg := DiscoverPipeline(deps, "acme").Run(context.Background())

	require.True(t, agg.HasError())
	assert.Equal(t, 1, agg.ExitCode())
	assert.False(t, list.called)
	assert.False(t, persist.called)

	out := agg.Serialize()
	assert.Contains(t, out, "AGENT_DIRECTIVE=STOP_PROCESSING")
	assert.Contains(t, out, "- Check token\n- Retry login\n")
}

func TestActivityPipelineDerivesPathAndPersists(t *testing.T) {
	dir := fakeRepo(t, "https://github.com/acme/widget.git")

	var persisted pipeline.Params

	persist := &stub{build: func(params pipeline.Params) *report.Report {
		persisted = params

		rep := report.New()
		_ = rep.AddData("SNAPSHOT_PATH", "/tmp/fake.json.gz")

		return rep
	}}

	stats := &stub{build: func(params pipeline.Params) *report.Report {
		rep := report.New()
		_ = rep.AddData("COMMITS", 7)

		return rep
	}}

	deps := Deps{Services: map[string]pipeline.Service{
		svcGitRemote:   &GitRemoteService{},
		svcCommitStats: stats,
		svcSnapshot:    persist,
	}}

	agg := ActivityPipeline(deps, dir, "origin").Run(context.Background())

	require.False(t, agg.HasError())

	// The persisted snapshot carries the aggregate data, label excluded.
	assert.Equal(t, "activity", persisted.String("label"))
	assert.Equal(t, "acme", persisted.String("OWNER"))
	assert.Equal(t, "7", persisted.String("COMMITS"))

	data := agg.DataMap()
	assert.Equal(t, "/tmp/fake.json.gz", data["SNAPSHOT_PATH"])
}

func TestMissingCollaboratorIsStructural(t *testing.T) {
	c := pipeline.NewCoordinator("discover",
		map[string]pipeline.Service{svcOwner: stubData(map[string]any{"OWNER": "acme"})},
		[]pipeline.Phase{
			{Name: "resolve_owner", Service: svcOwner},
			{Name: "persist", Service: svcSnapshot},
		}, nil)

	agg := c.Run(context.Background())

	require.True(t, agg.HasError())
	assert.Equal(t, "StructuralError", agg.Err().Type())
}

// assertableErr is a tiny named error type for tests.
type assertableErr string

func (e assertableErr) Error() string { return string(e) }
