package parser

import (
	"errors"
	"strings"
)

var (
	// ErrUnclosedQuote is returned by Split when input ends inside a quote.
	// The lexer treats it as a request for more input.
	ErrUnclosedQuote = errors.New("no closing quotation")
	// ErrTrailingEscape is returned by Split when input ends with an
	// unquoted backslash.
	ErrTrailingEscape = errors.New("no escaped character")
)

// Split breaks s into words using POSIX shell quoting. Nothing is
// expanded: $, globs, braces and operators stay literal.
func Split(s string) ([]string, error) {
	var (
		words  []string
		word   strings.Builder
		inWord bool
	)

	flush := func() {
		if inWord {
			words = append(words, word.String())
			word.Reset()
			inWord = false
		}
	}

	for i := 0; i < len(s); {
		c := s[i]
		switch c {
		case ' ', '\t', '\n', '\r':
			flush()
			i++

		case '\'':
			inWord = true
			end := strings.IndexByte(s[i+1:], '\'')
			if end < 0 {
				return nil, ErrUnclosedQuote
			}
			word.WriteString(s[i+1 : i+1+end])
			i += end + 2

		case '"':
			inWord = true
			i++
			closed := false
			for i < len(s) {
				d := s[i]
				if d == '"' {
					closed = true
					i++
					break
				}
				if d == '\\' && i+1 < len(s) {
					switch n := s[i+1]; n {
					case '$', '`', '"', '\\':
						word.WriteByte(n)
						i += 2
						continue
					case '\n':
						i += 2
						continue
					}
				}
				word.WriteByte(d)
				i++
			}
			if !closed {
				return nil, ErrUnclosedQuote
			}

		case '\\':
			if i+1 >= len(s) {
				return nil, ErrTrailingEscape
			}
			if s[i+1] == '\n' {
				i += 2
				continue
			}
			inWord = true
			word.WriteByte(s[i+1])
			i += 2

		default:
			inWord = true
			word.WriteByte(c)
			i++
		}
	}
	flush()

	return words, nil
}
