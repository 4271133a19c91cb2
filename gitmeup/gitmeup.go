package gitmeup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"

	"github.com/sokinpui/gitmeup/cli"
	"github.com/sokinpui/gitmeup/internal/fs"
	"github.com/sokinpui/gitmeup/internal/git"
	"github.com/sokinpui/gitmeup/internal/llm"
	"github.com/sokinpui/gitmeup/internal/parser"
	"github.com/sokinpui/gitmeup/internal/policy"
	"github.com/sokinpui/gitmeup/internal/project"
	"github.com/sokinpui/gitmeup/internal/runner"
	"github.com/sokinpui/gitmeup/internal/source"
	"github.com/sokinpui/gitmeup/internal/tui"
	"github.com/sokinpui/gitmeup/internal/ui"
	"github.com/sokinpui/gitmeup/model"
)

// ErrMissingAPIKey is returned when the model source has no key.
var ErrMissingAPIKey = errors.New("missing Gemini API key: set GEMINI_API_KEY or use --api-key")

// Repository is everything the app needs from git.
type Repository interface {
	fs.PathSource
	runner.Executor
	EnsureWorkTree(ctx context.Context) error
	Porcelain(ctx context.Context) (string, error)
	Snapshot(ctx context.Context) git.Snapshot
	ShortStatus(ctx context.Context) string
}

// Responder produces the model's text for a prompt.
type Responder interface {
	Respond(ctx context.Context, prompt string) (string, error)
}

// App orchestrates the entire application logic.
type App struct {
	cfg       *cli.Config
	repo      Repository
	responder Responder
	validator *policy.Validator
	logger    *zap.Logger

	// Out receives the plan; Err receives diagnostics.
	Out io.Writer
	Err io.Writer
	// Spinner enables the progress spinner around the model call.
	Spinner bool
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error { return e.Err }

// New creates an App from explicit collaborators.
func New(cfg *cli.Config, repo Repository, responder Responder, validator *policy.Validator, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:       cfg,
		repo:      repo,
		responder: responder,
		validator: validator,
		logger:    logger,
		Out:       os.Stdout,
		Err:       os.Stderr,
	}
}

// NewFromConfig wires the real git repository in dir, the configured
// response source and the project's generic scopes.
func NewFromConfig(ctx context.Context, cfg *cli.Config, dir string, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var responder Responder
	switch cfg.Source {
	case source.Model:
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		client, err := llm.NewClient(ctx, cfg.APIKey, cfg.Model, cfg.Timeout, logger)
		if err != nil {
			return nil, err
		}
		responder = client
	default:
		responder = source.New(cfg.Source, os.Stdin)
	}

	validator := policy.NewValidator(GenericScopes(dir, cfg.GenericScopes, logger)...)
	logger.Debug("generic scopes", zap.Strings("scopes", validator.GenericScopes()))

	app := New(cfg, git.New(dir, logger), responder, validator, logger)
	app.Spinner = cfg.Source == source.Model && tui.Enabled(cfg.NoAnimation, os.Stderr)
	return app, nil
}

// GenericScopes returns the directory name, the project names declared in
// dir's manifests and extra. Manifest errors are logged and skipped.
func GenericScopes(dir string, extra []string, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	scopes := []string{filepath.Base(abs)}
	names, err := project.Names(abs)
	if err != nil {
		logger.Warn("project manifest unreadable", zap.Error(err))
		ui.Warning("ignoring unreadable project manifest: %v", err)
	}
	scopes = append(scopes, names...)
	return append(scopes, extra...)
}

// Prepared is a plan that passed every check and is ready to run.
type Prepared struct {
	Block       string
	Plan        model.Plan
	Corrections []model.Correction
}

// Prepare runs the validation pipeline over a model response: extract the
// command block, lex it, normalize path casing against paths and check
// commit policy. Nothing is executed. On failure the returned Prepared holds
// whatever stage output exists.
func Prepare(ctx context.Context, response string, paths fs.PathSource, validator *policy.Validator) (*Prepared, error) {
	prepared := &Prepared{}

	block, err := parser.ExtractCommandBlock(response)
	if err != nil {
		return prepared, err
	}
	prepared.Block = block

	plan, err := parser.ParseCommands(block)
	if err != nil {
		return prepared, fmt.Errorf("failed to parse bash commands: %w", err)
	}
	prepared.Plan = plan

	corrections, err := fs.Normalize(ctx, plan, paths)
	if err != nil {
		return prepared, err
	}
	prepared.Corrections = corrections

	if err := validator.Validate(plan); err != nil {
		return prepared, err
	}
	return prepared, nil
}

// Run executes the main application logic based on the configuration.
func (a *App) Run(ctx context.Context) (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	if err := a.repo.EnsureWorkTree(ctx); err != nil {
		return summary, err
	}

	porcelain, err := a.repo.Porcelain(ctx)
	if err != nil {
		return summary, err
	}
	if strings.TrimSpace(porcelain) == "" {
		fmt.Fprintln(a.Out, "Working tree clean. Nothing to commit.")
		return model.Summary{Message: "clean"}, nil
	}

	response, err := a.respond(ctx)
	if err != nil {
		return summary, err
	}

	prepared, err := Prepare(ctx, response, a.repo, a.validator)
	if err != nil {
		a.explain(err, response, prepared)
		return summary, err
	}
	a.logger.Debug("plan validated",
		zap.Int("commands", len(prepared.Plan)),
		zap.Int("corrections", len(prepared.Corrections)))

	r := &runner.Runner{Out: a.Out, Err: a.Err, Exec: a.repo}
	summary, err = r.Run(ctx, prepared.Plan, prepared.Corrections, a.cfg.Apply)
	if err != nil {
		return summary, err
	}

	fmt.Fprintln(a.Out, "\nFinal git status:")
	fmt.Fprintln(a.Out)
	fmt.Fprintln(a.Out, a.repo.ShortStatus(ctx))
	fmt.Fprintln(a.Out, "Review your history with:")
	fmt.Fprintln(a.Out, "  git log --oneline --graph --decorate -n 10")
	return summary, nil
}

func (a *App) respond(ctx context.Context) (string, error) {
	if a.cfg.Source != source.Model {
		return a.responder.Respond(ctx, "")
	}

	prompt := llm.BuildPrompt(a.repo.Snapshot(ctx))
	a.logger.Debug("prompt built", zap.Int("chars", len(prompt)), zap.String("model", a.cfg.Model))

	if !a.Spinner {
		return a.responder.Respond(ctx, prompt)
	}
	return tui.Wait(ctx, a.Err, "Asking "+a.cfg.Model+" for commits...", func(ctx context.Context) (string, error) {
		return a.responder.Respond(ctx, prompt)
	})
}

// explain prints the model output relevant to a pipeline failure.
func (a *App) explain(err error, response string, prepared *Prepared) {
	prev := ui.Stderr
	ui.Stderr = a.Err
	defer func() { ui.Stderr = prev }()

	switch {
	case errors.Is(err, model.ErrNoCommandBlock):
		ui.Block("Raw output:", response)
	case errors.Is(err, model.ErrInvalidShellSyntax),
		errors.Is(err, model.ErrUnterminatedQuote),
		errors.Is(err, model.ErrEmptyCommandPlan):
		ui.Block("Model output block:", prepared.Block)
	}
}
