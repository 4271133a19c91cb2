package model

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a validation failure. The set is closed.
type ErrorKind int

const (
	NoCommandBlock ErrorKind = iota + 1
	InvalidShellSyntax
	UnterminatedQuote
	EmptyCommandPlan
	AmbiguousPath
	EmptyCommitHeader
	InvalidCommitHeader
	MissingCommitMessage
	GenericScope
	ScopeSpansMultipleAreas
)

var kindNames = map[ErrorKind]string{
	NoCommandBlock:          "NoCommandBlock",
	InvalidShellSyntax:      "InvalidShellSyntax",
	UnterminatedQuote:       "UnterminatedQuote",
	EmptyCommandPlan:        "EmptyCommandPlan",
	AmbiguousPath:           "AmbiguousPath",
	EmptyCommitHeader:       "EmptyCommitHeader",
	InvalidCommitHeader:     "InvalidCommitHeader",
	MissingCommitMessage:    "MissingCommitMessage",
	GenericScope:            "GenericScope",
	ScopeSpansMultipleAreas: "ScopeSpansMultipleAreas",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a validation failure from any stage of the pipeline. Only the
// fields relevant to Kind are set.
type Error struct {
	Kind ErrorKind
	// Line is the 1-based line in the command block (lexer errors).
	Line int
	// Command is the 1-based position in the plan (normalizer and policy errors).
	Command int
	// Text is the offending input: buffered source, path, header or scope.
	Text       string
	Candidates []string
	Areas      []string
	// Languages lists the fence tags seen when no command block matched.
	Languages []string
	Detail    string
}

// Sentinels for errors.Is. Matching compares Kind only.
var (
	ErrNoCommandBlock          = &Error{Kind: NoCommandBlock}
	ErrInvalidShellSyntax      = &Error{Kind: InvalidShellSyntax}
	ErrUnterminatedQuote       = &Error{Kind: UnterminatedQuote}
	ErrEmptyCommandPlan        = &Error{Kind: EmptyCommandPlan}
	ErrAmbiguousPath           = &Error{Kind: AmbiguousPath}
	ErrEmptyCommitHeader       = &Error{Kind: EmptyCommitHeader}
	ErrInvalidCommitHeader     = &Error{Kind: InvalidCommitHeader}
	ErrMissingCommitMessage    = &Error{Kind: MissingCommitMessage}
	ErrGenericScope            = &Error{Kind: GenericScope}
	ErrScopeSpansMultipleAreas = &Error{Kind: ScopeSpansMultipleAreas}
)

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case NoCommandBlock:
		msg = "failed to extract bash command block from model output"
		if len(e.Languages) > 0 {
			msg += fmt.Sprintf(" (found blocks tagged: %s)", strings.Join(e.Languages, ", "))
		}
		return msg
	case InvalidShellSyntax:
		return fmt.Sprintf("invalid shell syntax near line %d: %s", e.Line, e.Detail)
	case UnterminatedQuote:
		return fmt.Sprintf("unterminated quoted string starting near line %d: %s", e.Line, e.Text)
	case EmptyCommandPlan:
		return "no executable commands found in bash block"
	case AmbiguousPath:
		candidates := make([]string, len(e.Candidates))
		for i, c := range e.Candidates {
			candidates[i] = Quote(c)
		}
		msg = fmt.Sprintf("ambiguous case-insensitive match for path %s. Candidates: %s",
			Quote(e.Text), strings.Join(candidates, ", "))
	case EmptyCommitHeader:
		msg = "commit header is empty"
	case InvalidCommitHeader:
		msg = fmt.Sprintf("invalid Conventional Commit header '%s'", e.Text)
		if e.Detail != "" {
			msg += " (" + e.Detail + ")"
		}
		msg += ". Expected: <type>(scope): <description> (scope optional)"
	case MissingCommitMessage:
		msg = "git commit command must include -m/--message"
		if e.Detail != "" {
			msg = e.Detail
		}
	case GenericScope:
		msg = fmt.Sprintf("scope '%s' is too generic. Use a path-derived area scope or omit scope", e.Text)
	case ScopeSpansMultipleAreas:
		msg = fmt.Sprintf("scoped commit spans multiple top-level areas (%s). Split the batch or omit scope",
			strings.Join(e.Areas, ", "))
	default:
		msg = e.Kind.String()
	}
	if e.Command > 0 {
		return fmt.Sprintf("command %d: %s", e.Command, msg)
	}
	return msg
}
