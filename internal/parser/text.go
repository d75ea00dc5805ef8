package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docsift/internal/fragment"
)

// TextSource handles plain text files. Paragraphs become body fragments
// with a uniform font size; plain text carries no heading metadata.
type TextSource struct{}

func (p *TextSource) Parse(r io.Reader, filename string) ([]fragment.TextFragment, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var frags []fragment.TextFragment
	var current strings.Builder

	flush := func() {
		text := strings.TrimSpace(current.String())
		current.Reset()
		if text == "" {
			return
		}
		frags = append(frags, fragment.TextFragment{
			Text:      text,
			FontSize:  sizeBody,
			Page:      1,
			YPosition: float64(len(frags)),
		})
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	return frags, nil
}
