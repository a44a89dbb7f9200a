// Package pipeline sequences multi-phase collection workflows. A coordinator
// invokes one collaborator per phase through the uniform Service contract,
// folds each result into a single aggregate report, and short-circuits on
// the first failure. It always returns a report; no fault escapes it.
package pipeline

import (
	"context"
	"strconv"

	"github.com/inovacc/collectr/internal/report"
)

// Service is the uniform contract every collaborator fulfills. The core has
// no knowledge of what a collaborator does internally (HTTP calls, shelling
// out to git, reading files); it only awaits this single call. Retry,
// throttling and timeout enforcement are the collaborator's responsibility.
type Service interface {
	Execute(ctx context.Context, params Params) *report.Report
}

// ServiceFunc adapts a function to the Service interface.
type ServiceFunc func(ctx context.Context, params Params) *report.Report

func (f ServiceFunc) Execute(ctx context.Context, params Params) *report.Report {
	return f(ctx, params)
}

// Params carries the named parameters for one collaborator call. Values are
// strings, numbers or booleans; absent keys read as zero values.
type Params map[string]any

// String returns the parameter's string form, or "" when absent.
func (p Params) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}

	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// Int returns the parameter as an int, or 0 when absent or not numeric.
func (p Params) Int(key string) int {
	switch t := p[key].(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0
		}

		return n
	default:
		return 0
	}
}

// Bool returns the parameter as a bool, or false when absent.
func (p Params) Bool(key string) bool {
	switch t := p[key].(type) {
	case bool:
		return t
	case string:
		return t == "true"
	default:
		return false
	}
}
