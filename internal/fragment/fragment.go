package fragment

// TextFragment is a contiguous run of text with uniform font and position
// metadata, as extracted from a single page. Immutable once produced.
type TextFragment struct {
	Text      string  // Raw text of the run.
	FontSize  float64 // Reported font size, always positive.
	IsBold    bool    // Whether the font is a bold/heavy face.
	Page      int     // 1-based page number.
	YPosition float64 // Vertical position within the page, ascending in reading order.
	XPosition float64 // Horizontal position within the page.
}

// HeadingLevel classifies a fragment within the document structure.
type HeadingLevel string

const (
	LevelTitle HeadingLevel = "title"
	LevelH1    HeadingLevel = "H1"
	LevelH2    HeadingLevel = "H2"
	LevelH3    HeadingLevel = "H3"
	LevelBody  HeadingLevel = "body"
)

// OutlineEntry is a single heading in document reading order.
type OutlineEntry struct {
	Level HeadingLevel `json:"level"`
	Text  string       `json:"text"` // Cleaned heading text.
	Page  int          `json:"page"`
}

// Outline is the structural skeleton of one document. Title is optional:
// nil when no page-1 fragment qualified (never synthesized).
type Outline struct {
	Title   *string        `json:"title"`
	Entries []OutlineEntry `json:"outline"`
}

// Section is a heading plus the body content it governs.
type Section struct {
	DocumentID  string       // Originating document (filename).
	Heading     OutlineEntry // The heading this content belongs to.
	FullContent string       // Cleaned body text up to the next equal-or-higher heading.
	Page        int          // Page of the heading.
}

// ScoredSection is a Section with its collection-wide relevance ranking.
// Ranks are assigned across all sections of all documents in a collection.
type ScoredSection struct {
	Section
	RelevanceScore float64
	ImportanceRank int // 1-based position after the collection-wide sort.
}

// RefinedSnippet is the condensed supporting text for a top-ranked section.
type RefinedSnippet struct {
	DocumentID  string
	RefinedText string // Never empty for a section with content.
	Page        int
}
