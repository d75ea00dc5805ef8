package parser

import (
	"io"
	"strings"

	"github.com/dgallion1/docsift/internal/fragment"
	"golang.org/x/net/html"
)

// HTMLSource handles HTML files. The <title> tag becomes the largest
// page-1 fragment so the classifier selects it as the document title;
// h1-h6 tags map to synthetic heading sizes.
type HTMLSource struct{}

func (p *HTMLSource) Parse(r io.Reader, filename string) ([]fragment.TextFragment, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}

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

	if title := findTitle(doc); title != "" {
		emit(title, sizeTitle, true)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				emit(textContent(n), sizeForLevel(level), true)
				return // Heading text already extracted, don't recurse.
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote":
				emit(textContent(n), sizeBody, false)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return frags, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4", "h5", "h6":
		// Deep levels collapse into the lowest tracked tier.
		return 3
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
