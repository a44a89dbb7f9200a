package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/inovacc/collectr/internal/archive"
	"github.com/inovacc/collectr/internal/fault"
	"github.com/inovacc/collectr/internal/pipeline"
	"github.com/inovacc/collectr/internal/report"
)

// SnapshotService persists the values collected so far as a compressed
// snapshot. Persistence faults are environment problems; they carry the
// fixed per-platform guidance and are never retryable here.
type SnapshotService struct {
	Dir string
}

// Execute implements pipeline.Service.
// Parameters: "label" names the snapshot; every other parameter is treated
// as collected data and becomes part of the snapshot content.
func (s *SnapshotService) Execute(ctx context.Context, params pipeline.Params) *report.Report {
	rep := report.New()

	label := params.String("label")
	if label == "" {
		label = "snapshot"
	}

	content := make(map[string]any, len(params))
	for k, v := range params {
		if k == "label" {
			continue
		}

		content[k] = v
	}

	path := filepath.Join(s.Dir, fmt.Sprintf("%s-%s.json.gz", label, time.Now().UTC().Format("20060102T150405Z")))

	size, err := archive.WriteSnapshot(path, content)
	if err != nil {
		rep.AddAction("write_snapshot", report.OutcomeFailed, path)

		rec, recErr := fault.NewRecord(err, archive.Guidance())
		if recErr != nil {
			rec = fault.FromFault(err, nil)
		}

		rec.AddContext("snapshot_path", path)
		rep.SetError(rec)

		return rep
	}

	rep.AddAction("write_snapshot", report.OutcomeSuccess, path)
	rep.AddFile(path, report.FileCreated, size)
	_ = rep.AddData("SNAPSHOT_PATH", path)

	return rep
}
