package fs

import (
	"context"
	"errors"
	"strings"

	"github.com/sokinpui/gitmeup/model"
)

var pathCommands = map[string]struct{}{
	"add": {},
	"rm":  {},
	"mv":  {},
}

// PathArgs returns the positions of path arguments in a git add/rm/mv
// command, or nil for any other command. Everything after "--" is a path;
// without "--", every token after the subcommand that does not look like a
// flag is taken as a path.
func PathArgs(cmd model.Command) []int {
	if len(cmd) < 3 {
		return nil
	}
	if _, ok := pathCommands[cmd.Subcommand()]; !ok {
		return nil
	}

	var idx []int
	for i, arg := range cmd {
		if arg == "--" {
			for j := i + 1; j < len(cmd); j++ {
				idx = append(idx, j)
			}
			return idx
		}
	}

	// No separator: a flag value given as its own token (e.g. the file
	// after --pathspec-from-file) is misread as a path.
	for i := 2; i < len(cmd); i++ {
		if cmd[i] != "" && !strings.HasPrefix(cmd[i], "-") {
			idx = append(idx, i)
		}
	}
	return idx
}

// Paths returns the path arguments of cmd.
func Paths(cmd model.Command) []string {
	idx := PathArgs(cmd)
	paths := make([]string, 0, len(idx))
	for _, i := range idx {
		paths = append(paths, cmd[i])
	}
	return paths
}

// Normalize rewrites path arguments of add/rm/mv commands in plan to the
// canonical casing known to src. The index is only built when the plan has
// path arguments at all.
func Normalize(ctx context.Context, plan model.Plan, src PathSource) ([]model.Correction, error) {
	hasPaths := false
	for _, cmd := range plan {
		if len(PathArgs(cmd)) > 0 {
			hasPaths = true
			break
		}
	}
	if !hasPaths {
		return nil, nil
	}

	index, err := BuildPathIndex(ctx, src)
	if err != nil {
		return nil, err
	}
	return NormalizeWith(plan, index)
}

// NormalizeWith is Normalize against a prebuilt index.
func NormalizeWith(plan model.Plan, index *PathIndex) ([]model.Correction, error) {
	var corrections []model.Correction
	for n, cmd := range plan {
		for _, i := range PathArgs(cmd) {
			original := cmd[i]
			resolved, err := index.Resolve(original)
			if err != nil {
				var verr *model.Error
				if errors.As(err, &verr) {
					verr.Command = n + 1
				}
				return nil, err
			}
			if resolved != original {
				cmd[i] = resolved
				corrections = append(corrections, model.Correction{
					Command: n + 1,
					From:    original,
					To:      resolved,
				})
			}
		}
	}
	return corrections, nil
}
