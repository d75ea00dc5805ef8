package outline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/docsift/internal/fragment"
	"github.com/dgallion1/docsift/internal/textclean"
)

// Config holds the heading-detection policy. Thresholds are fractions of the
// largest font size found in the document, so classification is invariant
// under uniform scaling of all font sizes. These are tunable per corpus.
type Config struct {
	H1Ratio         float64 // Top tier band starts here.
	H2Ratio         float64
	H3Ratio         float64 // Smallest font still considered for a heading.
	MaxHeadingWords int     // Headings longer than this are body text.
}

// DefaultConfig returns the ratios tuned against sample documents.
func DefaultConfig() Config {
	return Config{
		H1Ratio:         0.90,
		H2Ratio:         0.75,
		H3Ratio:         0.60,
		MaxHeadingWords: 20,
	}
}

// Classifier detects titles and H1-H3 headings from text fragments.
// Stateless: every invocation takes all configuration explicitly.
type Classifier struct {
	cfg Config
}

func NewClassifier(cfg Config) *Classifier {
	if cfg.H1Ratio <= 0 {
		cfg.H1Ratio = 0.90
	}
	if cfg.H2Ratio <= 0 {
		cfg.H2Ratio = 0.75
	}
	if cfg.H3Ratio <= 0 {
		cfg.H3Ratio = 0.60
	}
	if cfg.MaxHeadingWords <= 0 {
		cfg.MaxHeadingWords = 20
	}
	return &Classifier{cfg: cfg}
}

// candidate is a fragment that passed the heading filters, with its tier.
type candidate struct {
	frag  fragment.TextFragment
	level fragment.HeadingLevel
	index int // Position in the input sequence (reading order).
}

// Classify computes a per-document font-size baseline, filters heading
// candidates, picks at most one page-1 title, and levels the rest into
// H1-H3 in reading order. A document with no candidates yields an empty
// outline and no title.
func (c *Classifier) Classify(frags []fragment.TextFragment) fragment.Outline {
	out, _ := c.classify(frags)
	return out
}

// ClassifyWithPositions additionally returns, for each outline entry in
// order, the index of its fragment in the input sequence. The assembler
// uses the positions to slice body content between headings.
func (c *Classifier) ClassifyWithPositions(frags []fragment.TextFragment) (fragment.Outline, []int) {
	return c.classify(frags)
}

func (c *Classifier) classify(frags []fragment.TextFragment) (fragment.Outline, []int) {
	var out fragment.Outline
	if len(frags) == 0 {
		return out, nil
	}

	maxSize := 0.0
	for _, f := range frags {
		if f.FontSize > maxSize {
			maxSize = f.FontSize
		}
	}
	if maxSize <= 0 {
		return out, nil
	}

	h1Thresh := maxSize * c.cfg.H1Ratio
	h2Thresh := maxSize * c.cfg.H2Ratio
	h3Thresh := maxSize * c.cfg.H3Ratio

	var cands []candidate
	for i, f := range frags {
		level, ok := c.candidateLevel(f, h1Thresh, h2Thresh, h3Thresh)
		if !ok {
			continue
		}
		cands = append(cands, candidate{frag: f, level: level, index: i})
	}
	if len(cands) == 0 {
		return out, nil
	}

	titleIdx := pickTitle(cands)
	var positions []int
	for _, cand := range cands {
		if cand.index == titleIdx {
			title := textclean.Clean(cand.frag.Text)
			out.Title = &title
			continue
		}
		out.Entries = append(out.Entries, fragment.OutlineEntry{
			Level: cand.level,
			Text:  textclean.Clean(cand.frag.Text),
			Page:  cand.frag.Page,
		})
		positions = append(positions, cand.index)
	}
	return out, positions
}

func (c *Classifier) candidateLevel(f fragment.TextFragment, h1, h2, h3 float64) (fragment.HeadingLevel, bool) {
	if f.FontSize < h3 {
		return "", false
	}
	var level fragment.HeadingLevel
	switch {
	case f.FontSize >= h1:
		level = fragment.LevelH1
	case f.FontSize >= h2:
		level = fragment.LevelH2
	default:
		level = fragment.LevelH3
	}
	// Below the top band, headings must be bold. This is the main defense
	// against documents where body text shares the maximum font size.
	if level != fragment.LevelH1 && !f.IsBold {
		return "", false
	}
	cleaned := textclean.Clean(f.Text)
	if cleaned == "" {
		return "", false
	}
	if len(strings.Fields(cleaned)) > c.cfg.MaxHeadingWords {
		return "", false
	}
	if endsWithTerminal(f.Text) {
		return "", false
	}
	// List items are not structure. Enumerated prefixes below the top band
	// mark list entries; in the top band they are numbered chapter headings.
	if textclean.HasListMarker(f.Text) && f.FontSize < h1 {
		return "", false
	}
	return level, true
}

// endsWithTerminal reports sentence-terminal punctuation that disqualifies
// a heading. Numeric-prefixed headings like "1.2 Overview" are exempt.
func endsWithTerminal(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	switch t[len(t)-1] {
	case '.', ';', ':':
	default:
		return false
	}
	return !numericHeadingRe.MatchString(t)
}

// numericHeadingRe matches enumerated headings ("1.2 Overview", "3. Results"),
// which legitimately carry dots.
var numericHeadingRe = regexp.MustCompile(`^\d+(\.\d+)*[.)]?\s+\S`)

// pickTitle selects the single page-1 candidate with the largest font size
// (ties broken by topmost vertical position) as the document title.
// Enumeration-prefixed candidates are numbered headings, never titles.
// Returns the candidate's fragment index, or -1 when no title qualifies.
func pickTitle(cands []candidate) int {
	var titleCands []candidate
	for _, cand := range cands {
		if cand.frag.Page != 1 {
			continue
		}
		if textclean.HasListMarker(cand.frag.Text) {
			continue
		}
		titleCands = append(titleCands, cand)
	}
	if len(titleCands) == 0 {
		return -1
	}
	sort.SliceStable(titleCands, func(i, j int) bool {
		if titleCands[i].frag.FontSize != titleCands[j].frag.FontSize {
			return titleCands[i].frag.FontSize > titleCands[j].frag.FontSize
		}
		return titleCands[i].frag.YPosition < titleCands[j].frag.YPosition
	})
	return titleCands[0].index
}
