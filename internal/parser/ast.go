package parser

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CodeBlock represents a fenced code block found by the markdown parser.
type CodeBlock struct {
	// Lang is the first word of the fence info string (e.g., "bash", "python").
	Lang string
	// Content is the raw text inside the code block.
	Content string
}

// FencedCodeBlocks uses a markdown AST to find all fenced code blocks.
func FencedCodeBlocks(source []byte) ([]CodeBlock, error) {
	var blocks []CodeBlock
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		block := CodeBlock{Lang: string(fenced.Language(source))}

		var content strings.Builder
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		block.Content = content.String()

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}
	return blocks, nil
}

// FencedLanguages lists the distinct fence tags in source, in order of
// appearance. Untagged fences are reported as "(none)".
func FencedLanguages(source string) []string {
	blocks, err := FencedCodeBlocks([]byte(source))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var langs []string
	for _, b := range blocks {
		lang := b.Lang
		if lang == "" {
			lang = "(none)"
		}
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		langs = append(langs, lang)
	}
	return langs
}
