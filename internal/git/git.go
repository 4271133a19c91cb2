package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNotRepository is returned when the working directory is not inside a
// git work tree.
var ErrNotRepository = errors.New("not inside a git repository")

// diffExcludes keep binaries, lockfiles and generated output out of the
// diff sent to the model.
var diffExcludes = []string{
	// Images / binaries
	":(exclude)*.png",
	":(exclude)*.jpg",
	":(exclude)*.jpeg",
	":(exclude)*.gif",
	":(exclude)*.svg",
	":(exclude)*.webp",
	":(exclude)*.ico",
	// Lockfiles
	":(exclude)package-lock.json",
	":(exclude)yarn.lock",
	":(exclude)pnpm-lock.yaml",
	":(exclude)bun.lockb",
	":(exclude)poetry.lock",
	":(exclude)Gemfile.lock",
	":(exclude)go.sum",
	":(exclude)Cargo.lock",
	":(exclude)*.lock",
	// Minified / generated
	":(exclude)*.min.js",
	":(exclude)*.min.css",
	":(exclude)*.map",
	":(exclude)dist/*",
	":(exclude)build/*",
	":(exclude).next/*",
}

// Snapshot is the repository context handed to the model.
type Snapshot struct {
	DiffStat string
	Status   string
	Diff     string
}

// Repo runs git in a working directory.
type Repo struct {
	dir    string
	logger *zap.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Repo rooted at dir. An empty dir means the process working
// directory.
func New(dir string, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{
		dir:    dir,
		logger: logger,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// output runs git with args and returns its stdout.
func (r *Repo) output(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	r.logger.Debug("git",
		zap.Strings("args", args),
		zap.Int("stdout_bytes", stdout.Len()),
		zap.Error(err))
	if err != nil {
		return stdout.String(), fmt.Errorf("git %s failed: %w: %s",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// EnsureWorkTree returns ErrNotRepository unless dir is inside a work tree.
func (r *Repo) EnsureWorkTree(ctx context.Context) error {
	out, err := r.output(ctx, "rev-parse", "--is-inside-work-tree")
	if err != nil || strings.TrimSpace(out) != "true" {
		return ErrNotRepository
	}
	return nil
}

// Porcelain returns `git status --porcelain`; empty means a clean tree.
func (r *Repo) Porcelain(ctx context.Context) (string, error) {
	return r.output(ctx, "status", "--porcelain")
}

// TrackedPaths returns every path in the index.
func (r *Repo) TrackedPaths(ctx context.Context) ([]string, error) {
	out, err := r.output(ctx, "ls-files", "-z")
	if err != nil {
		return nil, err
	}
	return SplitZ(out), nil
}

// StatusPaths returns every path named by `git status --porcelain -z`.
// Untracked directories are expanded to the files inside them.
func (r *Repo) StatusPaths(ctx context.Context) ([]string, error) {
	out, err := r.output(ctx, "status", "--porcelain", "-z", "--untracked-files=all")
	if err != nil {
		return nil, err
	}
	return ParseStatusZ(out), nil
}

// Snapshot collects the diff stat, short status and filtered diff. A failing
// query leaves its field empty: `git diff HEAD` fails in a repository with no
// commits yet, and the prompt still works from the status alone.
func (r *Repo) Snapshot(ctx context.Context) Snapshot {
	var (
		s Snapshot
		g errgroup.Group
	)

	query := func(dst *string, args ...string) {
		g.Go(func() error {
			out, err := r.output(ctx, args...)
			if err != nil {
				r.logger.Warn("context query failed", zap.Strings("args", args), zap.Error(err))
			}
			*dst = out
			return nil
		})
	}

	query(&s.DiffStat, "diff", "--stat", "HEAD")
	query(&s.Status, "status", "--short")
	query(&s.Diff, append([]string{"diff", "HEAD", "--", "."}, diffExcludes...)...)

	_ = g.Wait() // failures are logged per query
	return s
}

// ShortStatus returns `git status -sb`, or "" on failure.
func (r *Repo) ShortStatus(ctx context.Context) string {
	out, _ := r.output(ctx, "status", "-sb")
	return out
}

// Exec runs argv with the repo's stdio and returns its exit code. The error
// is non-nil only when the command could not be run at all.
func (r *Repo) Exec(ctx context.Context, argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	r.logger.Debug("exec", zap.Strings("argv", argv), zap.Error(err))

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitCode(exitErr), nil
	}
	if err != nil {
		return 127, err
	}
	return 0, nil
}

// exitCode follows the shell convention of 128+signal for a command killed
// by a signal.
func exitCode(err *exec.ExitError) int {
	if code := err.ExitCode(); code >= 0 {
		return code
	}
	if status, ok := err.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return 1
}

// SplitZ splits NUL-delimited git output, dropping empty fields.
func SplitZ(out string) []string {
	var fields []string
	for _, f := range strings.Split(out, "\x00") {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// ParseStatusZ returns every path in `git status --porcelain -z` output.
// Rename and copy records carry a second NUL-terminated path, which is
// included too.
func ParseStatusZ(out string) []string {
	var paths []string
	entries := strings.Split(out, "\x00")

	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		if len(entry) < 4 {
			continue
		}
		xy := entry[:2]
		paths = append(paths, entry[3:])

		if strings.ContainsAny(xy, "RC") {
			i++
			if i < len(entries) && entries[i] != "" {
				paths = append(paths, entries[i])
			}
		}
	}
	return paths
}
