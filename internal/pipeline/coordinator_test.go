package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/inovacc/collectr/internal/fault"
	"github.com/inovacc/collectr/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService returns a fixed report and records whether it ran.
type stubService struct {
	build  func(params Params) *report.Report
	called bool
	params Params
}

func (s *stubService) Execute(_ context.Context, params Params) *report.Report {
	s.called = true
	s.params = params

	return s.build(params)
}

func successWith(data map[string]any) *stubService {
	return &stubService{build: func(Params) *report.Report {
		rep := report.New()
		for k, v := range data {
			if err := rep.AddData(k, v); err != nil {
				panic(err)
			}
		}

		return rep
	}}
}

func failedWith(t *testing.T, msg string, steps ...string) (*stubService, *fault.Record) {
	t.Helper()

	rec, err := fault.NewRecord(errors.New(msg), steps)
	require.NoError(t, err)

	return &stubService{build: func(Params) *report.Report {
		rep := report.New()
		rep.SetError(rec)

		return rep
	}}, rec
}

func TestRunHappyPath(t *testing.T) {
	first := successWith(map[string]any{"OWNER": "acme", "REPO": "widget"})
	second := successWith(map[string]any{"COMMITS": "42"})

	c := NewCoordinator("detect",
		map[string]Service{"one": first, "two": second},
		[]Phase{
			{Name: "git_remote", Service: "one"},
			{
				Name:    "commit_stats",
				Service: "two",
				BuildParams: func(agg *report.Report) (Params, error) {
					owner, err := ExtractData("detect", "commit_stats", agg, "OWNER")
					if err != nil {
						return nil, err
					}

					return Params{"owner": owner}, nil
				},
			},
		}, nil)

	agg := c.Run(context.Background())

	require.False(t, agg.HasError())
	assert.Equal(t, 0, agg.ExitCode())

	assert.True(t, first.called)
	assert.True(t, second.called)
	assert.Equal(t, "acme", second.params.String("owner"))

	data := agg.DataMap()
	assert.Equal(t, "acme", data["OWNER"])
	assert.Equal(t, "widget", data["REPO"])
	assert.Equal(t, "42", data["COMMITS"])
	assert.Equal(t, "detect", data["PIPELINE"])
	assert.NotEmpty(t, data["RUN_ID"])

	// One success action per phase, in order.
	actions := agg.Actions()
	require.Len(t, actions, 2)
	assert.Equal(t, "git_remote", actions[0].Event)
	assert.Equal(t, report.OutcomeSuccess, actions[0].Outcome)
	assert.Equal(t, "commit_stats", actions[1].Event)

	// Closing instructions include the completion marker.
	instructions := agg.Instructions()
	require.NotEmpty(t, instructions)
	assert.Contains(t, instructions[0], "COLLECTION_COMPLETE")
}

func TestRunShortCircuitsOnFailure(t *testing.T) {
	first := successWith(map[string]any{"OWNER": "acme"})
	second, rec := failedWith(t, "bad credentials", "Check token", "Retry login")
	third := successWith(nil)

	c := NewCoordinator("discover",
		map[string]Service{"p1": first, "p2": second, "p3": third},
		[]Phase{
			{Name: "phase_one", Service: "p1"},
			{Name: "phase_two", Service: "p2"},
			{Name: "phase_three", Service: "p3"},
		}, nil)

	agg := c.Run(context.Background())

	require.True(t, agg.HasError())
	assert.Equal(t, 1, agg.ExitCode())
	assert.Same(t, rec, agg.Err())

	assert.True(t, second.called)
	assert.False(t, third.called, "phase three must never be invoked after a failure")

	// No closing instructions on a failed run.
	assert.Empty(t, agg.Instructions())
}

func TestRunMissingCollaborator(t *testing.T) {
	present := successWith(nil)

	c := NewCoordinator("detect",
		map[string]Service{"p1": present},
		[]Phase{
			{Name: "phase_one", Service: "p1"},
			{Name: "phase_two", Service: "absent"},
		}, nil)

	agg := c.Run(context.Background())

	require.True(t, agg.HasError())
	assert.Equal(t, "StructuralError", agg.Err().Type())
	assert.Contains(t, agg.Err().Message(), `"absent"`)

	// Validation happens before any phase executes.
	assert.False(t, present.called)
}

func TestRunDerivationFailure(t *testing.T) {
	first := successWith(map[string]any{"UNRELATED": "x"})
	second := successWith(nil)

	c := NewCoordinator("activity",
		map[string]Service{"p1": first, "p2": second},
		[]Phase{
			{Name: "phase_one", Service: "p1"},
			{
				Name:    "phase_two",
				Service: "p2",
				BuildParams: func(agg *report.Report) (Params, error) {
					path, err := ExtractData("activity", "phase_two", agg, "REPO_PATH", "PATH")
					if err != nil {
						return nil, err
					}

					return Params{"path": path}, nil
				},
			},
		}, nil)

	agg := c.Run(context.Background())

	require.True(t, agg.HasError())
	assert.False(t, second.called)

	rec := agg.Err()
	assert.Equal(t, "StructuralError", rec.Type())
	assert.Contains(t, rec.Message(), "REPO_PATH")
	assert.Contains(t, rec.Message(), "PATH")
	assert.Contains(t, rec.Message(), "UNRELATED")
}

func TestRunRecoversFromPanic(t *testing.T) {
	boom := &stubService{build: func(Params) *report.Report {
		panic("collaborator exploded")
	}}

	c := NewCoordinator("detect",
		map[string]Service{"p1": boom},
		[]Phase{{Name: "phase_one", Service: "p1"}}, nil)

	agg := c.Run(context.Background())

	require.True(t, agg.HasError())
	assert.Contains(t, agg.Err().Message(), "collaborator exploded")
}

func TestExtractDataPriority(t *testing.T) {
	agg := report.New()
	require.NoError(t, agg.AddData("K1", "x"))
	require.NoError(t, agg.AddData("K2", "y"))

	got, err := ExtractData("p", "s", agg, "K1", "K2")
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	// First candidate absent, second used.
	got, err = ExtractData("p", "s", agg, "K0", "K2")
	require.NoError(t, err)
	assert.Equal(t, "y", got)

	// Empty values are skipped.
	require.NoError(t, agg.AddData("K3", ""))

	_, err = ExtractData("p", "s", agg, "K3")

	var sErr *StructuralError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, []string{"K3"}, sErr.Candidates)
	assert.Contains(t, sErr.Received, "K1")
}

func TestParamsAccessors(t *testing.T) {
	p := Params{
		"s":   "text",
		"n":   7,
		"n64": int64(8),
		"f":   9.0,
		"b":   true,
		"bs":  "true",
	}

	assert.Equal(t, "text", p.String("s"))
	assert.Equal(t, "7", p.String("n"))
	assert.Equal(t, "true", p.String("b"))
	assert.Equal(t, "", p.String("absent"))

	assert.Equal(t, 7, p.Int("n"))
	assert.Equal(t, 8, p.Int("n64"))
	assert.Equal(t, 9, p.Int("f"))
	assert.Equal(t, 0, p.Int("absent"))

	assert.True(t, p.Bool("b"))
	assert.True(t, p.Bool("bs"))
	assert.False(t, p.Bool("absent"))
}
