package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docsift/internal/fragment"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownSource handles Markdown files using goldmark. Heading levels map
// to synthetic font sizes so the classifier sees the same contract as for
// PDFs; explicit structure survives the round trip through the heuristics.
type MarkdownSource struct{}

func (p *MarkdownSource) Parse(r io.Reader, filename string) ([]fragment.TextFragment, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var frags []fragment.TextFragment
	emit := func(t string, size float64, bold bool) {
		t = strings.TrimSpace(t)
		if t == "" {
			return
		}
		frags = append(frags, fragment.TextFragment{
			Text:      t,
			FontSize:  size,
			IsBold:    bold,
			Page:      1,
			YPosition: float64(len(frags)),
		})
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			emit(string(node.Text(src)), sizeForLevel(node.Level), true)
		default:
			emit(extractText(n, src), sizeBody, false)
		}
	}
	return frags, nil
}

// extractText gets the text content of a goldmark AST node. Inline children
// carry the text after inline parsing; raw block lines are the fallback for
// childless nodes so code blocks still contribute.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		if s := extractText(c, src); s != "" {
			buf.WriteString(s)
			buf.WriteByte('\n')
		}
	}
	if buf.Len() == 0 && n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	return strings.TrimSpace(buf.String())
}
