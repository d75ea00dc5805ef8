package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/docsift/internal/fragment"
	"github.com/fumiama/go-docx"
)

// DOCXSource handles .docx files. Heading paragraph styles map to the
// synthetic heading sizes; everything else is body text.
type DOCXSource struct{}

func (p *DOCXSource) Parse(r io.Reader, filename string) ([]fragment.TextFragment, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "docsift-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}

	var frags []fragment.TextFragment
	emit := func(t string, fontSize float64, bold bool) {
		t = strings.TrimSpace(t)
		if t == "" {
			return
		}
		frags = append(frags, fragment.TextFragment{
			Text:      t,
			FontSize:  fontSize,
			IsBold:    bold,
			Page:      1,
			YPosition: float64(len(frags)),
		})
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		if level := docxHeadingLevel(para); level > 0 {
			emit(text, sizeForLevel(level), true)
		} else {
			emit(text, sizeBody, false)
		}
	}
	return frags, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	switch {
	case strings.EqualFold(style, "Heading1") || strings.EqualFold(style, "heading 1"):
		return 1
	case strings.EqualFold(style, "Heading2") || strings.EqualFold(style, "heading 2"):
		return 2
	case strings.EqualFold(style, "Heading3") || strings.EqualFold(style, "heading 3"):
		return 3
	case strings.EqualFold(style, "Heading4") || strings.EqualFold(style, "heading 4"),
		strings.EqualFold(style, "Heading5") || strings.EqualFold(style, "heading 5"),
		strings.EqualFold(style, "Heading6") || strings.EqualFold(style, "heading 6"):
		// Deep levels collapse into the lowest tracked tier.
		return 3
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
