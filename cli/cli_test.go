package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sokinpui/gitmeup/internal/config"
	"github.com/sokinpui/gitmeup/internal/llm"
	"github.com/sokinpui/gitmeup/internal/source"
)

func envOf(t *testing.T, values map[string]string) config.Env {
	t.Helper()
	env, err := config.LoadEnv("", "", func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	})
	if err != nil {
		t.Fatal(err)
	}
	return env
}

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := ParseFlags(nil, envOf(t, nil), config.File{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	want := &Config{
		Model:      llm.DefaultModel,
		Source:     source.Model,
		Timeout:    DefaultTimeout,
		ConfigPath: config.ProjectFile,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("ParseFlags() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFlagsPrecedence(t *testing.T) {
	file := config.File{Model: "file-model", Timeout: "45s", GenericScopes: []string{"web"}}
	env := envOf(t, map[string]string{config.EnvModel: "env-model", config.EnvAPIKey: "env-key"})

	cfg, err := ParseFlags(nil, env, file, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if cfg.Model != "env-model" || cfg.APIKey != "env-key" || cfg.Timeout != 45*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if diff := cmp.Diff([]string{"web"}, cfg.GenericScopes); diff != "" {
		t.Errorf("GenericScopes mismatch (-want +got):\n%s", diff)
	}

	cfg, err = ParseFlags(nil, envOf(t, nil), file, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if cfg.Model != "file-model" {
		t.Errorf("Model = %q, want file-model", cfg.Model)
	}

	args := []string{"--model", "flag-model", "--api-key", "flag-key", "--apply", "--source", "stdin", "--timeout", "5s", "--no-animation", "--debug"}
	cfg, err = ParseFlags(args, env, file, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	want := &Config{
		Model:         "flag-model",
		APIKey:        "flag-key",
		Apply:         true,
		Source:        source.Stdin,
		Timeout:       5 * time.Second,
		ConfigPath:    config.ProjectFile,
		NoAnimation:   true,
		Debug:         true,
		GenericScopes: []string{"web"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("ParseFlags() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFlagsVersion(t *testing.T) {
	var out bytes.Buffer
	_, err := ParseFlags([]string{"-v"}, envOf(t, nil), config.File{}, &out)
	if !errors.Is(err, ErrVersion) {
		t.Fatalf("ParseFlags(-v) error = %v, want ErrVersion", err)
	}
	if got := out.String(); got != "gitmeup "+Version+"\n" {
		t.Errorf("output = %q", got)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		file config.File
	}{
		{name: "bad source", args: []string{"--source", "file"}},
		{name: "unknown flag", args: []string{"--push"}},
		{name: "positional", args: []string{"now"}},
		{name: "bad file timeout", file: config.File{Timeout: "later"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFlags(tt.args, envOf(t, nil), tt.file, &bytes.Buffer{}); err == nil {
				t.Error("ParseFlags() error = nil")
			}
		})
	}
}

func TestParseFlagsUsage(t *testing.T) {
	var out bytes.Buffer
	_, err := ParseFlags([]string{"--help"}, envOf(t, nil), config.File{}, &out)
	if err == nil {
		t.Fatal("ParseFlags(--help) error = nil")
	}
	if !strings.Contains(out.String(), "Usage: gitmeup [flags]") {
		t.Errorf("usage not printed:\n%s", out.String())
	}
}

func TestPreScanConfigPath(t *testing.T) {
	tests := []struct {
		args         []string
		want         string
		wantExplicit bool
	}{
		{nil, config.ProjectFile, false},
		{[]string{"--apply", "--config", "ci.yaml"}, "ci.yaml", true},
		{[]string{"--config=ci.yaml"}, "ci.yaml", true},
		{[]string{"--", "--config", "x.yaml"}, config.ProjectFile, false},
		{[]string{"--config"}, config.ProjectFile, false},
	}
	for _, tt := range tests {
		got, explicit := PreScanConfigPath(tt.args)
		if got != tt.want || explicit != tt.wantExplicit {
			t.Errorf("PreScanConfigPath(%v) = %q, %v; want %q, %v", tt.args, got, explicit, tt.want, tt.wantExplicit)
		}
	}
}

func TestLoadProjectFile(t *testing.T) {
	cwd, other := t.TempDir(), t.TempDir()
	abs := filepath.Join(other, "abs.yaml")
	if err := os.WriteFile(abs, []byte("model: abs-model\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cwd, "rel.yaml"), []byte("model: rel-model\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		want     string
		wantPath string
	}{
		{"absolute", []string{"--config", abs}, "abs-model", abs},
		{"absolute equals form", []string{"--config=" + abs}, "abs-model", abs},
		{"relative to cwd", []string{"--config", "rel.yaml"}, "rel-model", filepath.Join(cwd, "rel.yaml")},
		{"default missing", nil, "", filepath.Join(cwd, config.ProjectFile)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, path, err := LoadProjectFile(cwd, tt.args)
			if err != nil {
				t.Fatalf("LoadProjectFile() error = %v", err)
			}
			if file.Model != tt.want || path != tt.wantPath {
				t.Errorf("LoadProjectFile() = %q from %q, want %q from %q", file.Model, path, tt.want, tt.wantPath)
			}
		})
	}
}

func TestLoadProjectFileErrors(t *testing.T) {
	cwd := t.TempDir()
	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("timeout: [not a duration\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := LoadProjectFile(cwd, []string{"--config", invalid}); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("LoadProjectFile(invalid absolute) error = %v, want parse error", err)
	}
	if _, _, err := LoadProjectFile(cwd, []string{"--config", "missing.yaml"}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadProjectFile(missing explicit) error = %v, want not-exist", err)
	}
}

func TestResolveConfigPath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x.yaml")
	if got := ResolveConfigPath("/work", abs); got != abs {
		t.Errorf("ResolveConfigPath(abs) = %q, want %q", got, abs)
	}
	if got := ResolveConfigPath("", "x.yaml"); got != "x.yaml" {
		t.Errorf("ResolveConfigPath(no cwd) = %q", got)
	}
}
