package model

import (
	"regexp"
	"strings"
)

// unsafeChars matches anything that needs quoting for a POSIX shell.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_@%+=:,./-]`)

// Quote returns s quoted for a POSIX shell, or unchanged when it is safe.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if !unsafeChars.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// String renders c as a single shell command line.
func (c Command) String() string {
	quoted := make([]string, len(c))
	for i, a := range c {
		quoted[i] = Quote(a)
	}
	return strings.Join(quoted, " ")
}
