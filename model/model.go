package model

// Command is one argument vector, e.g. ["git", "add", "--", "foo.py"].
// The first element is the program name exactly as written.
type Command []string

// Program returns the program name, or "" for an empty command.
func (c Command) Program() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Subcommand returns the git subcommand ("add", "commit", ...) or "" when
// the command is not a git invocation.
func (c Command) Subcommand() string {
	if len(c) < 2 || c[0] != "git" {
		return ""
	}
	return c[1]
}

// Plan is the ordered list of commands proposed for one execution.
// Order encodes add/rm/mv-then-commit batching and is never changed.
type Plan []Command

// Correction records a path argument rewritten to its canonical casing.
type Correction struct {
	Command int // 1-based position in the plan
	From    string
	To      string
}

// Summary holds the results of a run for display.
type Summary struct {
	Corrections []Correction
	Plan        Plan
	Executed    int
	Applied     bool
	Message     string
}
