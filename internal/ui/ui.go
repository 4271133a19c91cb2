package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	FaintColor   = color.New(color.Faint)
)

// Stderr is where status lines go. Tests may swap it.
var Stderr io.Writer = os.Stderr

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(Stderr, format+"\n", a...)
}

// Warning prints a non-fatal notice.
func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(Stderr, format+"\n", a...)
}

// Error prints a "gitmeup: " prefixed error line.
func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(Stderr, "gitmeup: "+format+"\n", a...)
}

// Block prints a titled chunk of raw text, e.g. model output that failed to
// parse.
func Block(title, body string) {
	Header("%s", title)
	fmt.Fprintln(Stderr)
	fmt.Fprintln(Stderr, FaintColor.Sprint(strings.TrimRight(body, "\n")))
}
