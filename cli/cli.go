package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/sokinpui/gitmeup/internal/config"
	"github.com/sokinpui/gitmeup/internal/llm"
	"github.com/sokinpui/gitmeup/internal/source"
)

// Version is the released version, printed by -v.
var Version = "0.4.0"

// DefaultTimeout bounds the model call when nothing else is configured.
const DefaultTimeout = 2 * time.Minute

// ErrVersion is returned after the version has been printed.
var ErrVersion = errors.New("version requested")

// Config holds all the command-line flag values, resolved against the
// environment and project file. It is built once in main.
type Config struct {
	Model       string
	APIKey      string
	Apply       bool
	Source      source.Kind
	Timeout     time.Duration
	// ConfigPath is the --config value as given.
	ConfigPath  string
	NoAnimation bool
	Debug       bool

	// GenericScopes are extra scopes from the project file.
	GenericScopes []string
}

// PreScanConfigPath finds --config in args before full parsing, so the
// project file can supply flag defaults. explicit reports whether the flag
// was given.
func PreScanConfigPath(args []string) (path string, explicit bool) {
	path = config.ProjectFile
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--":
			return path, explicit
		case arg == "--config" && i+1 < len(args):
			path, explicit = args[i+1], true
			i++
		case strings.HasPrefix(arg, "--config="):
			path, explicit = strings.TrimPrefix(arg, "--config="), true
		}
	}
	return path, explicit
}

// ResolveConfigPath makes a relative --config value relative to cwd.
func ResolveConfigPath(cwd, path string) string {
	if filepath.IsAbs(path) || cwd == "" {
		return path
	}
	return filepath.Join(cwd, path)
}

// LoadProjectFile reads the project file named by --config in args. The
// default file may be absent; a file named explicitly must exist.
func LoadProjectFile(cwd string, args []string) (config.File, string, error) {
	name, explicit := PreScanConfigPath(args)
	path := ResolveConfigPath(cwd, name)
	if explicit {
		if _, err := os.Stat(path); err != nil {
			return config.File{}, path, fmt.Errorf("config file %s: %w", name, err)
		}
	}
	file, err := config.LoadFile(path)
	return file, path, err
}

// ParseFlags defines and parses command-line flags using pflag. Defaults come
// from env (GITMEUP_MODEL, GEMINI_API_KEY) and then the project file.
func ParseFlags(args []string, env config.Env, file config.File, stdout io.Writer) (*Config, error) {
	cfg := &Config{}

	defaultModel := llm.DefaultModel
	if file.Model != "" {
		defaultModel = file.Model
	}
	if v := env.Get(config.EnvModel); v != "" {
		defaultModel = v
	}

	defaultTimeout := DefaultTimeout
	fileTimeout, err := file.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if fileTimeout > 0 {
		defaultTimeout = fileTimeout
	}

	var (
		sourceName  string
		showVersion bool
	)

	fs := pflag.NewFlagSet("gitmeup", pflag.ContinueOnError)
	fs.SetOutput(stdout)

	fs.StringVar(&cfg.Model, "model", defaultModel, fmt.Sprintf("Gemini model name (default: %s or $%s).", llm.DefaultModel, config.EnvModel))
	fs.StringVar(&cfg.APIKey, "api-key", env.Get(config.EnvAPIKey), fmt.Sprintf("Gemini API key (default: $%s).", config.EnvAPIKey))
	fs.BoolVar(&cfg.Apply, "apply", false, "Execute generated git commands. Without this flag, just print them.")
	fs.StringVar(&sourceName, "source", string(source.Model), "Where the command block comes from: model, stdin or clipboard.")
	fs.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "Timeout for the model call.")
	fs.StringVar(&cfg.ConfigPath, "config", config.ProjectFile, "Project configuration file (YAML).")
	fs.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the loading spinner.")
	fs.BoolVar(&cfg.Debug, "debug", false, "Write debug logs to stderr.")
	fs.BoolVarP(&showVersion, "version", "v", false, "Show gitmeup version and exit.")

	fs.Usage = func() {
		fmt.Fprintln(stdout, "Usage: gitmeup [flags]")
		fmt.Fprintln(stdout, "\nGenerate Conventional Commits from current git changes using Gemini.")
		fmt.Fprintln(stdout, "\nExample: gitmeup --apply")
		fmt.Fprintln(stdout, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if showVersion {
		fmt.Fprintf(stdout, "gitmeup %s\n", Version)
		return nil, ErrVersion
	}

	kind, err := source.ParseKind(sourceName)
	if err != nil {
		return nil, err
	}
	cfg.Source = kind
	cfg.GenericScopes = file.GenericScopes

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return cfg, nil
}
