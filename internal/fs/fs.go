package fs

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/cases"

	"github.com/sokinpui/gitmeup/model"
)

// PathSource lists the paths the repository knows about.
type PathSource interface {
	// TrackedPaths returns every path tracked by the index.
	TrackedPaths(ctx context.Context) ([]string, error)
	// StatusPaths returns every path named in the working-tree status,
	// including both sides of renames and copies.
	StatusPaths(ctx context.Context) ([]string, error)
}

// Fold returns the case-folded form of s used for case-insensitive matching.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// PathIndex maps case-folded paths to their canonical spellings.
type PathIndex struct {
	byFold map[string][]string
}

// NewPathIndex indexes the union of the given path lists. Each fold keeps a
// sorted list of distinct canonical paths.
func NewPathIndex(sources ...[]string) *PathIndex {
	seen := make(map[string]struct{})
	byFold := make(map[string][]string)

	for _, paths := range sources {
		for _, p := range paths {
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			key := Fold(p)
			byFold[key] = append(byFold[key], p)
		}
	}
	for _, candidates := range byFold {
		sort.Strings(candidates)
	}
	return &PathIndex{byFold: byFold}
}

// BuildPathIndex queries src for tracked and status paths and indexes them.
func BuildPathIndex(ctx context.Context, src PathSource) (*PathIndex, error) {
	tracked, err := src.TrackedPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked paths: %w", err)
	}
	status, err := src.StatusPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read status paths: %w", err)
	}
	return NewPathIndex(tracked, status), nil
}

// Len returns the number of distinct folded keys.
func (x *PathIndex) Len() int {
	return len(x.byFold)
}

// Candidates returns the canonical paths sharing path's fold.
func (x *PathIndex) Candidates(path string) []string {
	return x.byFold[Fold(path)]
}

// Resolve returns the canonical casing of path. Unknown paths and exact
// matches come back unchanged. When several canonical paths share the fold
// and none matches exactly, Resolve refuses to guess.
func (x *PathIndex) Resolve(path string) (string, error) {
	candidates := x.Candidates(path)
	if len(candidates) == 0 {
		return path, nil
	}
	for _, c := range candidates {
		if c == path {
			return path, nil
		}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return "", &model.Error{
		Kind:       model.AmbiguousPath,
		Text:       path,
		Candidates: append([]string(nil), candidates...),
	}
}
