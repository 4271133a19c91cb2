package source

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"model": Model, "STDIN": Stdin, "Clipboard": Clipboard} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseKind("file"); err == nil {
		t.Error("ParseKind(file) error = nil")
	}
}

func TestRespondStdin(t *testing.T) {
	p := New(Stdin, strings.NewReader("```bash\ngit status\n```\n"))
	got, err := p.Respond(context.Background(), "ignored")
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if got != "```bash\ngit status\n```\n" {
		t.Errorf("Respond() = %q", got)
	}
}

func TestRespondClipboard(t *testing.T) {
	p := New(Clipboard, nil)
	p.readClipboard = func() (string, error) { return "```\ngit status\n```", nil }

	got, err := p.Respond(context.Background(), "")
	if err != nil || got != "```\ngit status\n```" {
		t.Errorf("Respond() = %q, %v", got, err)
	}

	boom := errors.New("no clipboard utility")
	p.readClipboard = func() (string, error) { return "", boom }
	if _, err := p.Respond(context.Background(), ""); !errors.Is(err, boom) {
		t.Errorf("Respond() error = %v, want %v", err, boom)
	}
}

func TestRespondModelKindRejected(t *testing.T) {
	if _, err := New(Model, nil).Respond(context.Background(), ""); err == nil {
		t.Error("Respond() error = nil for model kind")
	}
}
