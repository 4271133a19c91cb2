package policy

import (
	"errors"
	"strings"
)

// Types is the closed set of Conventional Commit types accepted in a header.
var Types = []string{
	"feat",
	"fix",
	"chore",
	"docs",
	"style",
	"refactor",
	"perf",
	"test",
	"ci",
	"revert",
}

// Header is the first line of a commit message, decomposed.
type Header struct {
	Type        string
	Scope       string
	HasScope    bool
	Breaking    bool
	Description string
}

var (
	errUnknownType   = errors.New("unknown or missing type")
	errUnclosedScope = errors.New("scope is not closed")
	errEmptyScope    = errors.New("scope is empty")
	errMissingSep    = errors.New(`missing ": " after type`)
	errEmptySubject  = errors.New("description is empty")
)

// ParseHeader parses "<type>[(<scope>)][!]: <description>".
func ParseHeader(s string) (Header, error) {
	var h Header

	end := strings.IndexAny(s, "(!:")
	if end < 0 || !isType(s[:end]) {
		return Header{}, errUnknownType
	}
	h.Type = s[:end]
	rest := s[end:]

	if strings.HasPrefix(rest, "(") {
		closing := strings.IndexByte(rest, ')')
		if closing < 0 {
			return Header{}, errUnclosedScope
		}
		if closing == 1 {
			return Header{}, errEmptyScope
		}
		h.Scope = rest[1:closing]
		h.HasScope = true
		rest = rest[closing+1:]
	}

	if strings.HasPrefix(rest, "!") {
		h.Breaking = true
		rest = rest[1:]
	}

	if !strings.HasPrefix(rest, ": ") {
		return Header{}, errMissingSep
	}
	h.Description = rest[2:]
	if h.Description == "" {
		return Header{}, errEmptySubject
	}
	return h, nil
}

func (h Header) String() string {
	var b strings.Builder
	b.WriteString(h.Type)
	if h.HasScope {
		b.WriteString("(" + h.Scope + ")")
	}
	if h.Breaking {
		b.WriteString("!")
	}
	b.WriteString(": ")
	b.WriteString(h.Description)
	return b.String()
}

func isType(s string) bool {
	for _, t := range Types {
		if s == t {
			return true
		}
	}
	return false
}
