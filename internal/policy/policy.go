package policy

import (
	"sort"
	"strings"

	"github.com/sokinpui/gitmeup/internal/fs"
	"github.com/sokinpui/gitmeup/model"
)

// ProjectScope is always treated as a generic scope: it names this tool.
const ProjectScope = "gitmeup"

// boolShortFlags are git commit's value-less short options that may be
// clustered in front of -m, as in -am.
const boolShortFlags = "aenqsv"

// Batch is the set of paths staged by add/rm/mv commands since the previous
// commit, together with the commit that closes it.
type Batch struct {
	Command int // 1-based position of the commit in the plan
	Commit  model.Command
	Paths   []string
}

// IsCommit reports whether cmd is a git commit invocation.
func IsCommit(cmd model.Command) bool {
	return cmd.Subcommand() == "commit"
}

// Batches splits plan into commit batches. Path commands after the last
// commit belong to no batch.
func Batches(plan model.Plan) []Batch {
	var (
		batches []Batch
		paths   []string
	)
	for n, cmd := range plan {
		paths = append(paths, fs.Paths(cmd)...)
		if IsCommit(cmd) {
			batches = append(batches, Batch{Command: n + 1, Commit: cmd, Paths: paths})
			paths = nil
		}
	}
	return batches
}

// CommitMessages returns the values of every message flag of a git commit
// command, in order.
func CommitMessages(cmd model.Command) ([]string, error) {
	var messages []string
	missingValue := &model.Error{
		Kind:   model.MissingCommitMessage,
		Detail: "git commit command uses -m/--message without a value",
	}

	for i := 2; i < len(cmd); i++ {
		arg := cmd[i]
		switch {
		case arg == "--":
			i = len(cmd)
		case arg == "--message":
			if i+1 >= len(cmd) {
				return nil, missingValue
			}
			messages = append(messages, cmd[i+1])
			i++
		case strings.HasPrefix(arg, "--message="):
			messages = append(messages, strings.TrimPrefix(arg, "--message="))
		case strings.HasPrefix(arg, "--"):
			// other long option
		case strings.HasPrefix(arg, "-"):
			m := strings.IndexByte(arg, 'm')
			if m < 1 || strings.Trim(arg[1:m], boolShortFlags) != "" {
				continue
			}
			if value := arg[m+1:]; value != "" {
				messages = append(messages, value)
				continue
			}
			if i+1 >= len(cmd) {
				return nil, missingValue
			}
			messages = append(messages, cmd[i+1])
			i++
		}
	}

	if len(messages) == 0 {
		return nil, &model.Error{Kind: model.MissingCommitMessage}
	}
	return messages, nil
}

// HeaderLine returns the trimmed first line of a commit message.
func HeaderLine(message string) string {
	first, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(first)
}

// TopLevelAreas returns the sorted, distinct, case-folded first path
// components of paths.
func TopLevelAreas(paths []string) []string {
	seen := make(map[string]struct{})
	for _, p := range paths {
		p = strings.TrimPrefix(p, "./")
		if p == "" || p == "." {
			continue
		}
		area, _, _ := strings.Cut(p, "/")
		seen[fs.Fold(area)] = struct{}{}
	}

	areas := make([]string, 0, len(seen))
	for a := range seen {
		areas = append(areas, a)
	}
	sort.Strings(areas)
	return areas
}

// Validator checks commit commands against the Conventional Commit grammar
// and the scoping rules.
type Validator struct {
	generic map[string]struct{}
}

// NewValidator returns a Validator rejecting the given scopes (compared
// case-insensitively) in addition to ProjectScope.
func NewValidator(genericScopes ...string) *Validator {
	v := &Validator{generic: map[string]struct{}{ProjectScope: {}}}
	for _, s := range genericScopes {
		if s = strings.TrimSpace(s); s != "" {
			v.generic[fs.Fold(s)] = struct{}{}
		}
	}
	return v
}

// GenericScopes returns the rejected scopes, sorted.
func (v *Validator) GenericScopes() []string {
	scopes := make([]string, 0, len(v.generic))
	for s := range v.generic {
		scopes = append(scopes, s)
	}
	sort.Strings(scopes)
	return scopes
}

// Validate checks every commit in plan order and returns the first
// violation.
func (v *Validator) Validate(plan model.Plan) error {
	for _, batch := range Batches(plan) {
		if err := v.validateBatch(batch); err != nil {
			if verr, ok := err.(*model.Error); ok {
				verr.Command = batch.Command
			}
			return err
		}
	}
	return nil
}

func (v *Validator) validateBatch(batch Batch) error {
	messages, err := CommitMessages(batch.Commit)
	if err != nil {
		return err
	}

	line := HeaderLine(messages[0])
	if line == "" {
		return &model.Error{Kind: model.EmptyCommitHeader}
	}

	header, err := ParseHeader(line)
	if err != nil {
		return &model.Error{Kind: model.InvalidCommitHeader, Text: line, Detail: err.Error()}
	}
	if !header.HasScope {
		return nil
	}

	if _, ok := v.generic[fs.Fold(strings.TrimSpace(header.Scope))]; ok {
		return &model.Error{Kind: model.GenericScope, Text: header.Scope}
	}

	if areas := TopLevelAreas(batch.Paths); len(areas) > 1 {
		return &model.Error{Kind: model.ScopeSpansMultipleAreas, Text: header.Scope, Areas: areas}
	}
	return nil
}
