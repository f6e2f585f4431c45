// Package security guards the file paths the gaze tools write to.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathEscapes is returned when a path resolves outside its directory.
var ErrPathEscapes = errors.New("path escapes output directory")

// JoinWithin joins name onto dir and rejects the result if it resolves
// outside dir. Symlinks in existing parents are resolved first, so a link
// inside dir cannot redirect a write elsewhere. name may come from
// untrusted input such as an image file name.
func JoinWithin(dir, name string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}
	canonicalDir, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory symlinks: %w", err)
	}

	target := filepath.Join(absDir, name)
	canonical := resolveExistingParent(target)

	rel, err := filepath.Rel(canonicalDir, canonical)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrPathEscapes)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", name, ErrPathEscapes)
	}
	return target, nil
}

// resolveExistingParent resolves symlinks in the longest existing prefix
// of path and re-appends the rest.
func resolveExistingParent(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	for check := path; ; {
		parent := filepath.Dir(check)
		if parent == check {
			return path
		}
		if resolved, err := filepath.EvalSymlinks(parent); err == nil {
			rest, _ := filepath.Rel(parent, path)
			return filepath.Join(resolved, rest)
		}
		check = parent
	}
}
