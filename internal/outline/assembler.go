package outline

import (
	"strings"

	"github.com/dgallion1/docsift/internal/fragment"
	"github.com/dgallion1/docsift/internal/textclean"
)

// levelRank orders heading tiers for scope comparison. Lower is higher.
func levelRank(l fragment.HeadingLevel) int {
	switch l {
	case fragment.LevelH1:
		return 1
	case fragment.LevelH2:
		return 2
	case fragment.LevelH3:
		return 3
	}
	return 4
}

// Assemble groups body fragments under their nearest preceding heading.
// A heading's content runs from just after its fragment to the next heading
// of equal or higher level, so an H2 absorbs following H3 content up to the
// next H1/H2. The trailing heading's content runs to end of document.
// A document with zero headings produces zero sections.
func Assemble(docID string, frags []fragment.TextFragment, out fragment.Outline, positions []int) []fragment.Section {
	if len(out.Entries) == 0 || len(positions) != len(out.Entries) {
		return nil
	}

	headingAt := make(map[int]bool, len(positions))
	for _, p := range positions {
		headingAt[p] = true
	}

	sections := make([]fragment.Section, 0, len(out.Entries))
	for i, entry := range out.Entries {
		start := positions[i] + 1
		end := len(frags)
		for j := i + 1; j < len(out.Entries); j++ {
			if levelRank(out.Entries[j].Level) <= levelRank(entry.Level) {
				end = positions[j]
				break
			}
		}

		var sb strings.Builder
		for k := start; k < end && k < len(frags); k++ {
			if headingAt[k] {
				// Deeper headings inside this scope are structure, not body.
				continue
			}
			t := textclean.Clean(frags[k].Text)
			if t == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(t)
		}

		sections = append(sections, fragment.Section{
			DocumentID:  docID,
			Heading:     entry,
			FullContent: sb.String(),
			Page:        entry.Page,
		})
	}
	return sections
}
