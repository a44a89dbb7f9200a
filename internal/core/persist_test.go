package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/inovacc/collectr/internal/archive"
	"github.com/inovacc/collectr/internal/pipeline"
	"github.com/inovacc/collectr/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotServicePersists(t *testing.T) {
	dir := t.TempDir()

	svc := &SnapshotService{Dir: dir}
	rep := svc.Execute(context.Background(), pipeline.Params{
		"label": "discover",
		"OWNER": "acme",
		"REPO":  "widget",
	})

	require.False(t, rep.HasError())

	path, ok := rep.Data("SNAPSHOT_PATH")
	require.True(t, ok)

	var content map[string]any
	require.NoError(t, archive.ReadSnapshot(path, &content))
	assert.Equal(t, "acme", content["OWNER"])
	assert.Equal(t, "widget", content["REPO"])
	assert.NotContains(t, content, "label")

	files := rep.Files()
	require.Len(t, files, 1)
	assert.Equal(t, report.FileCreated, files[0].Operation)
	assert.Equal(t, path, files[0].Path)
	assert.Greater(t, files[0].SizeBytes, int64(0))
}

func TestSnapshotServiceEnvironmentFault(t *testing.T) {
	// A directory path that collides with an existing regular file.
	dir := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0600))

	svc := &SnapshotService{Dir: dir + "/nested"}
	rep := svc.Execute(context.Background(), pipeline.Params{"label": "activity", "A": "b"})

	require.True(t, rep.HasError())
	assert.Equal(t, "EnvironmentError", rep.Err().Type())

	// The fixed per-platform guidance travels with the fault.
	steps := rep.Err().Recovery()
	require.NotEmpty(t, steps)
	assert.Contains(t, steps[0], "Verify the output directory")
}
