// Package utils has the file and TOML helpers behind pkg/config.
package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// FileExists reports whether anything exists at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// WriteTOML encodes v into path through a temp file in the same directory.
// Readers see either the old file or the complete new one.
func WriteTOML(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// WritableDir creates dir if needed and reports whether files can be
// created in it.
func WritableDir(dir string) bool {
	if err := EnsureDir(dir); err != nil {
		log.Debugf("Cannot create %s: %v", dir, err)
		return false
	}
	f, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		log.Debugf("Cannot write to %s: %v", dir, err)
		return false
	}
	f.Close()
	os.Remove(f.Name())
	return true
}

// ExecutableDir is the directory holding the running binary.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// ResolveNear resolves path against the directory containing ref. Empty and
// absolute paths are returned unchanged.
func ResolveNear(ref, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	base := filepath.Dir(ref)
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	return filepath.Join(base, path)
}
