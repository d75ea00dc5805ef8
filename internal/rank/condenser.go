package rank

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/dgallion1/docsift/internal/fragment"
	"github.com/dgallion1/docsift/internal/textclean"
)

// CondenserConfig holds the condensation policy.
type CondenserConfig struct {
	TopSections      int     // How many top-ranked sections get snippets.
	MaxSentences     int     // At most this many sentences per snippet.
	MinSentenceChars int     // Sentences shorter than this are skipped.
	VectorFloor      float64 // Minimum sentence score in vector mode.
	KeywordFloor     float64 // Minimum sentence score in keyword mode.
}

func DefaultCondenserConfig() CondenserConfig {
	return CondenserConfig{
		TopSections:      10,
		MaxSentences:     3,
		MinSentenceChars: 20,
		VectorFloor:      0.3,
		KeywordFloor:     0.1,
	}
}

// Condenser selects the most task-relevant sentences of top-ranked sections.
type Condenser struct {
	embed Embedder
	cfg   CondenserConfig
	log   *slog.Logger
}

func NewCondenser(embed Embedder, cfg CondenserConfig, log *slog.Logger) *Condenser {
	if cfg.TopSections <= 0 {
		cfg.TopSections = 10
	}
	if cfg.MaxSentences <= 0 {
		cfg.MaxSentences = 3
	}
	if cfg.MinSentenceChars <= 0 {
		cfg.MinSentenceChars = 20
	}
	if cfg.VectorFloor <= 0 {
		cfg.VectorFloor = 0.3
	}
	if cfg.KeywordFloor <= 0 {
		cfg.KeywordFloor = 0.1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Condenser{embed: embed, cfg: cfg, log: log}
}

// Condense produces a refined snippet for each of the first TopSections
// scored sections. Scoring uses the mode established by the ranker; an
// embedding failure here flips the remainder of the run to keyword mode
// as well (first failure is permanent for the run).
// A non-empty section always yields a non-empty snippet. The returned mode
// reflects any mid-run fallback so callers can report it accurately.
func (c *Condenser) Condense(ctx context.Context, scored []fragment.ScoredSection, task string, mode Mode) ([]fragment.RefinedSnippet, Mode) {
	limit := c.cfg.TopSections
	if limit > len(scored) {
		limit = len(scored)
	}

	var snippets []fragment.RefinedSnippet
	for _, s := range scored[:limit] {
		sentences := SplitSentences(s.FullContent)
		var kept []string
		for _, sent := range sentences {
			if len(sent) >= c.cfg.MinSentenceChars {
				kept = append(kept, sent)
			}
		}
		// Short content still gets condensed rather than dropped.
		if len(kept) == 0 {
			kept = sentences
		}
		if len(kept) == 0 {
			continue
		}

		scores, ok := c.scoreSentences(ctx, kept, task, mode)
		if !ok {
			mode = ModeKeyword
			scores, _ = c.scoreSentences(ctx, kept, task, mode)
		}

		refined := c.selectSentences(kept, scores, mode)
		if refined == "" {
			continue
		}
		snippets = append(snippets, fragment.RefinedSnippet{
			DocumentID:  s.DocumentID,
			RefinedText: refined,
			Page:        s.Page,
		})
	}
	return snippets, mode
}

// scoreSentences scores each sentence against the task. Returns ok=false
// on an embedding failure so the caller can rescore in keyword mode.
func (c *Condenser) scoreSentences(ctx context.Context, sentences []string, task string, mode Mode) ([]float64, bool) {
	scores := make([]float64, len(sentences))
	if mode == ModeVector && c.embed != nil {
		taskVec, err := c.embed.Embed(ctx, task)
		if err != nil {
			c.log.Warn("embedding failed during condensation, switching to keyword scoring", "error", err)
			return nil, false
		}
		for i, sent := range sentences {
			vec, err := c.embed.Embed(ctx, sent)
			if err != nil {
				c.log.Warn("embedding failed during condensation, switching to keyword scoring", "error", err)
				return nil, false
			}
			scores[i] = Cosine(vec, taskVec)
		}
		return scores, true
	}

	query := Tokenize(task)
	for i, sent := range sentences {
		scores[i] = KeywordScore(query, Tokenize(sent))
	}
	return scores, true
}

// selectSentences picks up to MaxSentences sentences whose score clears the
// mode's floor, preferring higher scores (ties: earlier sentences). If no
// sentence clears the floor, the single best sentence is used so a non-empty
// section never produces an empty snippet. Output preserves original order.
func (c *Condenser) selectSentences(sentences []string, scores []float64, mode Mode) string {
	floor := c.cfg.VectorFloor
	if mode == ModeKeyword {
		floor = c.cfg.KeywordFloor
	}

	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	selected := make(map[int]bool)
	for _, idx := range order {
		if len(selected) >= c.cfg.MaxSentences {
			break
		}
		if scores[idx] >= floor {
			selected[idx] = true
		}
	}
	if len(selected) == 0 && len(order) > 0 {
		selected[order[0]] = true
	}

	var parts []string
	for i, sent := range sentences {
		if !selected[i] {
			continue
		}
		if t := textclean.Clean(sent); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		// Cleaning can erase a marker-only sentence; fall back to the
		// best raw sentence rather than emit nothing.
		return strings.TrimSpace(sentences[order[0]])
	}
	return strings.Join(parts, " ")
}

// SplitSentences does basic sentence splitting on terminal punctuation
// followed by a space.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
