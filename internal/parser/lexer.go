package parser

import (
	"errors"
	"strings"

	"github.com/sokinpui/gitmeup/model"
)

// ParseCommands lexes a command block into a plan. A line that leaves a quote
// open is joined with the following lines until the quote closes, so quoted
// arguments may span several lines.
func ParseCommands(block string) (model.Plan, error) {
	var (
		plan      model.Plan
		buffered  []string
		startLine int
	)

	block = strings.ReplaceAll(block, "\r\n", "\n")
	for i, raw := range strings.Split(block, "\n") {
		lineNumber := i + 1

		line := raw
		if len(buffered) == 0 {
			line = strings.TrimSpace(raw)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if strings.HasPrefix(line, "$ ") {
				line = strings.TrimLeft(line[2:], " \t")
			}
			startLine = lineNumber
		}
		buffered = append(buffered, line)

		args, err := Split(strings.Join(buffered, "\n"))
		if errors.Is(err, ErrUnclosedQuote) {
			continue
		}
		if err != nil {
			return nil, &model.Error{
				Kind:   model.InvalidShellSyntax,
				Line:   startLine,
				Text:   strings.Join(buffered, "\n"),
				Detail: err.Error(),
			}
		}

		if len(args) > 0 {
			plan = append(plan, model.Command(args))
		}
		buffered = nil
	}

	if len(buffered) > 0 {
		return nil, &model.Error{
			Kind: model.UnterminatedQuote,
			Line: startLine,
			Text: snippet(buffered),
		}
	}
	if len(plan) == 0 {
		return nil, &model.Error{Kind: model.EmptyCommandPlan}
	}
	return plan, nil
}

func snippet(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}
