// Package archive persists collected data as gzip-compressed JSON snapshots.
// A successful write guarantees the output path exists and decompresses back
// to the original content; failures are environment faults with installation
// or filesystem guidance, never retryable by the caller.
package archive

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/inovacc/collectr/internal/encoding"
)

// EnvironmentError reports a fatal environment problem while persisting a
// snapshot, such as an unwritable output directory or a corrupt write.
type EnvironmentError struct {
	Op   string
	Path string
	err  error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("snapshot %s failed for %s: %v", e.Op, e.Path, e.err)
}

func (e *EnvironmentError) Unwrap() error { return e.err }

// FaultType implements the type-tag hook used by fault.Record.
func (e *EnvironmentError) FaultType() string { return "EnvironmentError" }

// Guidance returns fixed per-platform remediation for environment faults.
func Guidance() []string {
	common := []string{
		"Verify the output directory exists and is writable",
		"Check that the disk holding the output path has free space",
	}

	switch runtime.GOOS {
	case "darwin":
		return append(common, "On macOS, grant the terminal Full Disk Access in System Settings if the path is protected")
	case "windows":
		return append(common, "On Windows, check that no other process holds a lock on the output file")
	default:
		return append(common, "On Linux, check mount options and directory ownership for the output path")
	}
}

// WriteSnapshot marshals v to JSON, gzip-compresses it to path, and verifies
// the written file round-trips back to valid JSON. Returns the compressed
// size in bytes.
func WriteSnapshot(path string, v any) (int64, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, &EnvironmentError{Op: "encode", Path: path, err: err}
	}

	if err := encoding.EnsureDir(filepath.Dir(path)); err != nil {
		return 0, &EnvironmentError{Op: "prepare", Path: path, err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, &EnvironmentError{Op: "create", Path: path, err: err}
	}

	zw := gzip.NewWriter(f)

	if _, err := zw.Write(data); err != nil {
		_ = f.Close()

		return 0, &EnvironmentError{Op: "compress", Path: path, err: err}
	}

	if err := zw.Close(); err != nil {
		_ = f.Close()

		return 0, &EnvironmentError{Op: "compress", Path: path, err: err}
	}

	if err := f.Close(); err != nil {
		return 0, &EnvironmentError{Op: "write", Path: path, err: err}
	}

	if err := verify(path); err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, &EnvironmentError{Op: "stat", Path: path, err: err}
	}

	return info.Size(), nil
}

// ReadSnapshot decompresses and decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return &EnvironmentError{Op: "open", Path: path, err: err}
	}
	defer func() { _ = f.Close() }()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return &EnvironmentError{Op: "decompress", Path: path, err: err}
	}
	defer func() { _ = zr.Close() }()

	if err := json.NewDecoder(zr).Decode(v); err != nil {
		return &EnvironmentError{Op: "decode", Path: path, err: err}
	}

	return nil
}

// verify confirms the written snapshot decompresses to valid JSON.
func verify(path string) error {
	var decoded any

	return ReadSnapshot(path, &decoded)
}
