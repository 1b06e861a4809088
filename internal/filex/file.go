// Package filex holds small filesystem helpers for the CLI.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir and its parents (owner-only) and returns it.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// EnsureHomeSubdir makes sure ~/name exists and returns its path.
func EnsureHomeSubdir(name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return EnsureDir(filepath.Join(home, name))
}

// StatePath returns path unchanged when set, otherwise file inside ~/dir.
func StatePath(path, dir, file string) (string, error) {
	if path != "" {
		if _, err := EnsureDir(filepath.Dir(path)); err != nil {
			return "", err
		}
		return path, nil
	}
	d, err := EnsureHomeSubdir(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(d, file), nil
}
