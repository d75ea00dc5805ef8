package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/docsift/internal/fragment"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFSource extracts text rows with font metadata from PDF files.
type PDFSource struct{}

func (p *PDFSource) Parse(r io.Reader, filename string) ([]fragment.TextFragment, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docsift-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	frags, err := extractPDFFragments(tmpPath)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	return frags, nil
}

func extractPDFFragments(path string) ([]fragment.TextFragment, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var frags []fragment.TextFragment
	numPages := reader.NumPage()
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			// A single unreadable page does not fail the document.
			continue
		}
		// Rows come back top of page first; the ordinal doubles as the
		// vertical position so reading order means ascending y.
		for rowIdx, row := range rows {
			if len(row.Content) == 0 {
				continue
			}
			var sb strings.Builder
			for _, t := range row.Content {
				sb.WriteString(t.S)
			}
			text := strings.TrimSpace(sb.String())
			if text == "" {
				continue
			}
			first := row.Content[0]
			frags = append(frags, fragment.TextFragment{
				Text:      text,
				FontSize:  first.FontSize,
				IsBold:    isBoldFont(first.Font),
				Page:      pageNum,
				YPosition: float64(rowIdx),
				XPosition: first.X,
			})
		}
	}
	return frags, nil
}

// isBoldFont detects bold faces by font name, the only signal the format
// reliably exposes.
func isBoldFont(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "bold") || strings.Contains(n, "heavy")
}
