package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inovacc/collectr/internal/fault"
	"github.com/inovacc/collectr/internal/report"
)

// Phase is one discrete pipeline step delegating to exactly one collaborator.
// BuildParams derives the phase's parameters from the running aggregate; a
// nil BuildParams means the phase takes no parameters.
type Phase struct {
	Name        string
	Service     string
	BuildParams func(agg *report.Report) (Params, error)
}

// Coordinator runs a fixed sequence of phases against a set of named
// collaborators, merging each result into one aggregate report. Phases are
// strictly sequential: each phase's parameters depend on data contributed by
// its predecessors, so nothing runs concurrently within one invocation. The
// aggregate is the only mutable shared state and is owned exclusively by the
// coordinator for the duration of one run.
type Coordinator struct {
	name     string
	services map[string]Service
	phases   []Phase
	log      *slog.Logger
}

// NewCoordinator builds a coordinator. Collaborators are passed in
// explicitly; callers supply test doubles the same way they supply the real
// services.
func NewCoordinator(name string, services map[string]Service, phases []Phase, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}

	return &Coordinator{
		name:     name,
		services: services,
		phases:   phases,
		log:      log,
	}
}

// Run executes all phases in order and returns the aggregate report. It
// never lets a fault escape: structural violations, derivation failures and
// panics are all normalized into an error record on the returned aggregate.
func (c *Coordinator) Run(ctx context.Context) (agg *report.Report) {
	agg = report.New()

	defer func() {
		if r := recover(); r != nil {
			c.log.Error("pipeline panicked", "pipeline", c.name, "panic", r)
			c.fail(agg, fmt.Errorf("pipeline panicked: %v", r), "panic")
		}
	}()

	_ = agg.AddData("PIPELINE", c.name)
	_ = agg.AddData("RUN_ID", uuid.New().String())

	// Every named collaborator must be present before any phase executes.
	for _, phase := range c.phases {
		if _, ok := c.services[phase.Service]; !ok {
			c.fail(agg, &StructuralError{
				Pipeline: c.name,
				Stage:    phase.Name,
				Reason:   fmt.Sprintf("required collaborator %q is not configured", phase.Service),
			}, phase.Name)

			return agg
		}
	}

	for _, phase := range c.phases {
		params := Params{}

		if phase.BuildParams != nil {
			derived, err := phase.BuildParams(agg)
			if err != nil {
				agg.AddAction(phase.Name, report.OutcomeFailed, "parameter derivation failed")
				c.fail(agg, err, phase.Name)

				return agg
			}

			params = derived
		}

		c.log.Info("running phase", "pipeline", c.name, "phase", phase.Name)

		start := time.Now()
		result := c.services[phase.Service].Execute(ctx, params)
		agg.Merge(result)

		if agg.HasError() {
			agg.AddTimedAction(phase.Name, report.OutcomeFailed, "", time.Since(start))
			c.log.Error("phase failed", "pipeline", c.name, "phase", phase.Name,
				"error", agg.Err().Message())

			return agg
		}

		agg.AddTimedAction(phase.Name, report.OutcomeSuccess, "", time.Since(start))
	}

	agg.AddInstruction(fmt.Sprintf("COLLECTION_COMPLETE: all %d phases of the %s pipeline finished", len(c.phases), c.name))
	agg.AddInstruction("Use the values in the DATA section for any follow-up commands")
	agg.AddInstruction("Do not re-run this command unless the collected data is stale")

	return agg
}

// fail normalizes a fault into an error record, enriches it with the
// pipeline stage, and attaches it to the aggregate.
func (c *Coordinator) fail(agg *report.Report, cause error, stage string) {
	rec := fault.FromFault(cause, fault.Context{
		"pipeline": c.name,
		"stage":    stage,
		"inputs":   agg.DataMap(),
	})

	agg.SetError(rec)
}

// ExtractData returns the first present, non-empty value among the candidate
// data keys, in priority order. When none are present this is a structural
// error: an earlier phase claimed success without providing what downstream
// phases require.
func ExtractData(pipelineName, stage string, agg *report.Report, candidates ...string) (string, error) {
	for _, key := range candidates {
		if v, ok := agg.Data(key); ok && v != "" {
			return v, nil
		}
	}

	return "", &StructuralError{
		Pipeline:   pipelineName,
		Stage:      stage,
		Reason:     "no candidate key holds a value required by this phase",
		Candidates: candidates,
		Received:   agg.DataMap(),
	}
}
