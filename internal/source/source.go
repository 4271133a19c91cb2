package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
)

// Kind names where the model response comes from.
type Kind string

const (
	Model     Kind = "model"
	Stdin     Kind = "stdin"
	Clipboard Kind = "clipboard"
)

// Kinds lists the accepted values of --source.
var Kinds = []Kind{Model, Stdin, Clipboard}

// ParseKind validates a --source value.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown source %q (want model, stdin or clipboard)", s)
}

// Provider supplies a response produced outside this process, ignoring the
// prompt.
type Provider struct {
	kind  Kind
	stdin io.Reader
	// readClipboard is swapped in tests.
	readClipboard func() (string, error)
}

// New creates a provider for stdin or clipboard.
func New(kind Kind, stdin io.Reader) *Provider {
	return &Provider{
		kind:          kind,
		stdin:         stdin,
		readClipboard: clipboard.ReadAll,
	}
}

// Respond returns the content of the configured source.
func (p *Provider) Respond(_ context.Context, _ string) (string, error) {
	switch p.kind {
	case Stdin:
		content, err := io.ReadAll(p.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	case Clipboard:
		content, err := p.readClipboard()
		if err != nil {
			return "", fmt.Errorf("failed to read from clipboard: %w", err)
		}
		return content, nil
	default:
		return "", fmt.Errorf("source %q is not a local source", p.kind)
	}
}
