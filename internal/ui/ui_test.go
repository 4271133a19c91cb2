package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	color.NoColor = true
	var buf bytes.Buffer
	prev := Stderr
	Stderr = &buf
	t.Cleanup(func() { Stderr = prev })
	return &buf
}

func TestStatusLines(t *testing.T) {
	buf := capture(t)

	Warning("skipping %s", "Cargo.toml")
	Error("boom: %d", 3)

	want := "skipping Cargo.toml\ngitmeup: boom: 3\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestBlock(t *testing.T) {
	buf := capture(t)

	Block("Raw output:", "no fences here\n\n")

	if got, want := buf.String(), "Raw output:\n\nno fences here\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
