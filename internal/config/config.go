package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// GlobalEnvFile lives in the home directory and usually holds secrets.
	GlobalEnvFile = ".gitmeup.env"
	// LocalEnvFile lives in the working directory for per-project overrides.
	LocalEnvFile = ".env"
	// ProjectFile is the optional YAML project configuration.
	ProjectFile = ".gitmeup.yaml"

	EnvModel  = "GITMEUP_MODEL"
	EnvAPIKey = "GEMINI_API_KEY"
)

// Env is a read-only view of layered environment values. Later layers win:
// ~/.gitmeup.env, then ./.env, then the process environment.
type Env struct {
	values map[string]string
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadEnv reads the env files from home and cwd and overlays the process
// environment through lookup. Missing files are skipped; an unset home or
// cwd skips that layer.
func LoadEnv(home, cwd string, lookup LookupFunc) (Env, error) {
	merged := make(map[string]string)

	for _, dir := range []struct{ dir, file string }{
		{home, GlobalEnvFile},
		{cwd, LocalEnvFile},
	} {
		if dir.dir == "" {
			continue
		}
		values, err := readEnvFile(filepath.Join(dir.dir, dir.file))
		if err != nil {
			return Env{}, err
		}
		for k, v := range values {
			merged[k] = v
		}
	}

	if lookup != nil {
		for k := range merged {
			if v, ok := lookup(k); ok {
				merged[k] = v
			}
		}
		for _, k := range []string{EnvModel, EnvAPIKey} {
			if v, ok := lookup(k); ok {
				merged[k] = v
			}
		}
	}
	return Env{values: merged}, nil
}

func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

// Get returns the value for key, or "".
func (e Env) Get(key string) string {
	return e.values[key]
}

// Lookup reports whether key is set in any layer.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

// File is the YAML project configuration.
type File struct {
	Model string `yaml:"model"`
	// Timeout bounds the model call, e.g. "90s".
	Timeout string `yaml:"timeout"`
	// GenericScopes are extra commit scopes rejected as too generic.
	GenericScopes []string `yaml:"generic_scopes"`
}

// TimeoutDuration parses Timeout; an empty value yields zero.
func (f File) TimeoutDuration() (time.Duration, error) {
	if f.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(f.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", f.Timeout, err)
	}
	return d, nil
}

// LoadFile reads a YAML project file. A missing file yields a zero File.
func LoadFile(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return f, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f, nil
}
