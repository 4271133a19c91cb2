package llm

import (
	"strings"
	"testing"

	"github.com/sokinpui/gitmeup/internal/git"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(git.Snapshot{
		DiffStat: " a.go | 2 +-\n",
		Status:   " M a.go\n",
		Diff:     "diff --git a/a.go b/a.go\n",
	})

	for _, want := range []string{
		"# git diff --stat\na.go | 2 +-",
		"# git status --short\nM a.go",
		"diff --git a/a.go b/a.go",
		"# TASK",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "TRUNCATED") {
		t.Error("small diff should not be truncated")
	}
}

func TestBuildPromptPlaceholders(t *testing.T) {
	prompt := BuildPrompt(git.Snapshot{Status: "?? new.txt"})
	for _, want := range []string{"(no diff stat)", "(no textual diff)", "?? new.txt"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptTruncatesDiff(t *testing.T) {
	diff := strings.Repeat("x", MaxDiffChars+500)
	prompt := BuildPrompt(git.Snapshot{Diff: diff})

	if !strings.Contains(prompt, diff[:MaxDiffChars]+truncationMarker) {
		t.Fatal("truncated diff or marker missing")
	}
	if strings.Contains(prompt, diff[:MaxDiffChars+1]) {
		t.Error("diff was not cut at MaxDiffChars")
	}
}

func TestSystemPromptAsksForBashBlock(t *testing.T) {
	if !strings.Contains(SystemPrompt, `language "bash"`) {
		t.Error("system prompt should request a bash block")
	}
}
