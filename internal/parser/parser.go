package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsift/internal/fragment"
)

// Source converts raw document bytes into an ordered fragment sequence.
// Fragments are emitted in reading order: page ascending, then vertical
// position ascending within a page.
type Source interface {
	Parse(r io.Reader, filename string) ([]fragment.TextFragment, error)
}

// ParseError marks a corrupt or unreadable document. The pipeline treats
// it as an empty fragment sequence for that document and continues the
// collection.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Synthetic font sizes assigned by structured-format adapters (markdown,
// HTML, DOCX), chosen so every heading tier lands in its band under the
// default ratio thresholds whether or not a title fragment is present.
const (
	sizeTitle = 32.0
	sizeH1    = 29.0
	sizeH2    = 25.0
	sizeH3    = 20.0
	sizeBody  = 11.0
)

func sizeForLevel(level int) float64 {
	switch level {
	case 1:
		return sizeH1
	case 2:
		return sizeH2
	default:
		return sizeH3
	}
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
}

// ForFile returns the appropriate fragment source for a filename.
func ForFile(filename string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFSource{}, nil
	case ".txt":
		return &TextSource{}, nil
	case ".md", ".markdown":
		return &MarkdownSource{}, nil
	case ".html", ".htm":
		return &HTMLSource{}, nil
	case ".docx":
		return &DOCXSource{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
