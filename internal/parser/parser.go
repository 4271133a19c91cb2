package parser

import (
	"strings"

	"github.com/sokinpui/gitmeup/model"
)

const fence = "```"

// shellLangs are the fence tags accepted as a command block. An untagged
// fence is accepted too.
var shellLangs = map[string]struct{}{
	"bash":  {},
	"sh":    {},
	"shell": {},
}

// ExtractCommandBlock returns the inner text of the first fenced block tagged
// as a shell language (or untagged). Blocks with any other tag are skipped
// through their closing fence.
func ExtractCommandBlock(content string) (string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var (
		inBlock bool
		accept  bool
		found   bool
		lines   []string
	)

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, fence) {
			if !inBlock {
				inBlock = true
				accept = isShellLang(strings.TrimSpace(line)[len(fence):])
				found = found || accept
				continue
			}
			if accept {
				break
			}
			inBlock = false
			continue
		}
		if inBlock && accept {
			lines = append(lines, line)
		}
	}

	if !found {
		return "", &model.Error{
			Kind:      model.NoCommandBlock,
			Languages: FencedLanguages(content),
		}
	}
	return strings.Join(trimBlankLines(lines), "\n"), nil
}

func isShellLang(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return true
	}
	_, ok := shellLangs[tag]
	return ok
}

func trimBlankLines(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
