// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// Tree describes a directory fixture: slash-separated relative paths mapped
// to file contents. A path ending in "/" is an empty directory.
type Tree map[string]string

// MemFs returns an in-memory filesystem holding tree under root.
func MemFs(t testing.TB, root string, tree Tree) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	WriteTree(t, fs, root, tree)
	return fs
}

// WriteTree writes tree under root on fs, creating parent directories.
// Entries are written in sorted order so fixtures are deterministic.
func WriteTree(t testing.TB, fs afero.Fs, root string, tree Tree) {
	t.Helper()

	if err := fs.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", root, err)
	}

	paths := make([]string, 0, len(tree))
	for p := range tree {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if strings.HasSuffix(p, "/") {
			if err := fs.MkdirAll(full, 0o755); err != nil {
				t.Fatalf("failed to create directory %s: %v", full, err)
			}
			continue
		}
		if err := fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("failed to create directory %s: %v", filepath.Dir(full), err)
		}
		if err := afero.WriteFile(fs, full, []byte(tree[p]), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", full, err)
		}
	}
}

// MustSetenv sets the environment variable key to value.
// It returns a cleanup function that restores the original value (or unsets it).
// The test fails immediately if the operation fails.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	originalValue, hadValue := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	return restoreEnv(t, key, originalValue, hadValue)
}

// MustUnsetenv unsets the environment variable key.
// It returns a cleanup function that restores the original value (if any).
func MustUnsetenv(t testing.TB, key string) func() {
	t.Helper()
	originalValue, hadValue := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	return restoreEnv(t, key, originalValue, hadValue)
}

func restoreEnv(t testing.TB, key, value string, had bool) func() {
	return func() {
		if had {
			if err := os.Setenv(key, value); err != nil {
				t.Errorf("failed to restore env %s: %v", key, err)
			}
			return
		}
		if err := os.Unsetenv(key); err != nil {
			t.Errorf("failed to unset env %s: %v", key, err)
		}
	}
}
