package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// --- Styles ---
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))  // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197")) // Red
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Task is the work shown behind the spinner.
type Task func(ctx context.Context) (string, error)

// --- Messages ---
type resultMsg struct {
	text string
	err  error
}

// --- Model ---
type Model struct {
	label   string
	run     func() (string, error)
	spinner spinner.Model
	state   state
	result  string
	err     error
}

type state int

const (
	stateProcessing state = iota
	stateDone
	stateError
	stateCanceled
)

func New(label string, run func() (string, error)) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		label:   label,
		run:     run,
		spinner: s,
		state:   stateProcessing,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runTask)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.state = stateCanceled
			return m, tea.Quit
		}

	case resultMsg:
		m.result = msg.text
		m.err = msg.err
		m.state = stateDone
		if msg.err != nil {
			m.state = stateError
		}
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		return fmt.Sprintf("%s %s\n", m.spinner.View(), m.label)
	case stateDone:
		return successStyle.Render("✓ "+m.label) + faintStyle.Render(fmt.Sprintf(" (%d chars)", len(m.result))) + "\n"
	case stateError:
		return errorStyle.Render("✗ "+m.label) + "\n"
	case stateCanceled:
		return faintStyle.Render("canceled") + "\n"
	default:
		return ""
	}
}

func (m Model) runTask() tea.Msg {
	text, err := m.run()
	return resultMsg{text: text, err: err}
}

// Enabled reports whether the spinner should be drawn on f.
func Enabled(noAnimation bool, f *os.File) bool {
	if noAnimation || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Wait runs task behind a spinner drawn on out and returns its result.
// Pressing q or ctrl+c abandons the task with context.Canceled.
func Wait(ctx context.Context, out io.Writer, label string, task Task) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(label, func() (string, error) { return task(ctx) })
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("spinner failed: %w", err)
	}

	fm, ok := final.(Model)
	if !ok || fm.state == stateCanceled {
		return "", context.Canceled
	}
	return fm.result, fm.err
}
