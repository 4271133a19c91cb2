package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/sokinpui/gitmeup/internal/ui"
	"github.com/sokinpui/gitmeup/model"
)

// Executor runs one argument vector and reports its exit code.
type Executor interface {
	Exec(ctx context.Context, argv []string) (int, error)
}

// ExitError reports a command that exited non-zero during apply.
type ExitError struct {
	Command int // 1-based position in the plan
	Argv    []string
	Code    int
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %d (%s) could not run: %v", e.Command, model.Command(e.Argv).String(), e.Err)
	}
	return fmt.Sprintf("command %d (%s) failed with exit code %d", e.Command, model.Command(e.Argv).String(), e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Runner presents a validated plan and, when applying, executes it.
type Runner struct {
	Out  io.Writer
	Err  io.Writer
	Exec Executor
}

// Present prints the path corrections and the proposed commands.
func (r *Runner) Present(plan model.Plan, corrections []model.Correction) {
	if len(corrections) > 0 {
		ui.HeaderColor.Fprintln(r.Out, "Adjusted path casing to match repository paths:")
		fmt.Fprintln(r.Out)
		for _, c := range corrections {
			fmt.Fprintf(r.Out, "- command %d: %s -> %s\n", c.Command,
				ui.PathColor.Sprint(model.Quote(c.From)), ui.PathColor.Sprint(model.Quote(c.To)))
		}
		fmt.Fprintln(r.Out)
	}

	ui.HeaderColor.Fprintln(r.Out, "Proposed commands:")
	fmt.Fprintln(r.Out)
	for _, cmd := range plan {
		fmt.Fprintln(r.Out, cmd.String())
	}
}

// Run presents the plan and executes it when apply is set. Commands run
// one at a time; the first non-zero exit stops the plan.
func (r *Runner) Run(ctx context.Context, plan model.Plan, corrections []model.Correction, apply bool) (model.Summary, error) {
	summary := model.Summary{Plan: plan, Corrections: corrections, Applied: apply}
	r.Present(plan, corrections)

	if !apply {
		ui.InfoColor.Fprintln(r.Out, "\nDry run: not executing commands. Re-run with --apply to execute.")
		summary.Message = "dry run"
		return summary, nil
	}

	ui.HeaderColor.Fprintln(r.Out, "\nExecuting commands...")
	fmt.Fprintln(r.Out)
	for n, cmd := range plan {
		fmt.Fprintln(r.Out, "+", cmd.String())
		code, err := r.Exec.Exec(ctx, cmd)
		if err != nil || code != 0 {
			if code < 0 {
				code = 1
			}
			ui.ErrorColor.Fprintf(r.Err, "Command failed with exit code %d. Aborting.\n", code)
			return summary, &ExitError{Command: n + 1, Argv: cmd, Code: code, Err: err}
		}
		summary.Executed++
	}

	ui.SuccessColor.Fprintln(r.Out, "\nCommands executed.")
	summary.Message = "applied"
	return summary, nil
}
