package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sokinpui/gitmeup/model"
)

func TestExtractCommandBlock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bash block with prose",
			content: "Here you go:\n\n```bash\ngit add -- a.go\ngit commit -m \"fix: a\"\n```\nThanks!",
			want:    "git add -- a.go\ngit commit -m \"fix: a\"",
		},
		{
			name:    "untagged block",
			content: "```\ngit status\n```",
			want:    "git status",
		},
		{
			name:    "sh tag",
			content: "```sh\ngit add -- x\n```",
			want:    "git add -- x",
		},
		{
			name:    "shell tag is case-insensitive",
			content: "```SHELL\ngit add -- x\n```",
			want:    "git add -- x",
		},
		{
			name:    "blank lines trimmed",
			content: "```bash\n\n\ngit add -- x\n\n```",
			want:    "git add -- x",
		},
		{
			name:    "other language block skipped",
			content: "```python\nprint('hi')\n```\n```bash\ngit add -- x\n```",
			want:    "git add -- x",
		},
		{
			name:    "only first matching block",
			content: "```bash\ngit add -- a\n```\n```bash\ngit add -- b\n```",
			want:    "git add -- a",
		},
		{
			name:    "crlf input",
			content: "```bash\r\ngit add -- a\r\n```\r\n",
			want:    "git add -- a",
		},
		{
			name:    "unclosed block runs to end",
			content: "```bash\ngit add -- a\ngit commit -m \"fix: a\"",
			want:    "git add -- a\ngit commit -m \"fix: a\"",
		},
		{
			name:    "indentation inside block kept",
			content: "```bash\ngit commit -m \"feat: x\n  body\"\n```",
			want:    "git commit -m \"feat: x\n  body\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractCommandBlock(tt.content)
			if err != nil {
				t.Fatalf("ExtractCommandBlock() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractCommandBlock() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractCommandBlockNoMatch(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantLangs []string
	}{
		{name: "no fences", content: "I could not find any changes."},
		{name: "only python", content: "```python\nprint(1)\n```", wantLangs: []string{"python"}},
		{name: "unclosed other language", content: "```json\n{}\n```bash\n", wantLangs: []string{"json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractCommandBlock(tt.content)
			if !errors.Is(err, model.ErrNoCommandBlock) {
				t.Fatalf("ExtractCommandBlock() error = %v, want NoCommandBlock", err)
			}
			var verr *model.Error
			if !errors.As(err, &verr) {
				t.Fatalf("error is %T, want *model.Error", err)
			}
			if diff := cmp.Diff(tt.wantLangs, verr.Languages); diff != "" {
				t.Errorf("Languages mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFencedLanguages(t *testing.T) {
	content := "```go\nx\n```\n\ntext\n\n```\ny\n```\n\n```go\nz\n```\n"
	got := FencedLanguages(content)
	want := []string{"go", "(none)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FencedLanguages() mismatch (-want +got):\n%s", diff)
	}
}
