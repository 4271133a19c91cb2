package gitmeup

import (
	"context"

	"github.com/sokinpui/gitmeup/internal/git"
	"github.com/sokinpui/gitmeup/internal/policy"
)

// Config for using gitmeup as a library.
type Config struct {
	// Dir is the repository working directory (default: current directory).
	Dir string
	// GenericScopes are rejected as commit scopes in addition to the
	// directory name, manifest project names and "gitmeup".
	GenericScopes []string
}

// Check validates a model response against the repository in config.Dir
// without executing anything. The returned plan has path casing corrected.
func Check(ctx context.Context, response string, config Config) (*Prepared, error) {
	dir := config.Dir
	if dir == "" {
		dir = "."
	}
	validator := policy.NewValidator(GenericScopes(dir, config.GenericScopes, nil)...)
	return Prepare(ctx, response, git.New(dir, nil), validator)
}
