package rank

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/docsift/internal/fragment"
)

// Embedder maps text to a fixed-length vector. An error (or a zero-norm
// vector for non-empty text) means embeddings are unavailable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Mode is the scoring mode for a whole collection run. The first embedding
// failure switches the run to keyword mode permanently; mixed-mode scoring
// within one run would make ranks non-deterministic.
type Mode string

const (
	ModeVector  Mode = "vector"
	ModeKeyword Mode = "keyword"
)

// Config holds the relevance-scoring policy.
type Config struct {
	TaskWeight    float64 // Weight of the task similarity, default 0.7.
	PersonaWeight float64 // Weight of the persona similarity, default 0.3.
}

func DefaultConfig() Config {
	return Config{TaskWeight: 0.7, PersonaWeight: 0.3}
}

// Ranker scores sections against a persona+task query, collection-wide.
type Ranker struct {
	embed Embedder
	cfg   Config
	log   *slog.Logger
}

func NewRanker(embed Embedder, cfg Config, log *slog.Logger) *Ranker {
	if cfg.TaskWeight <= 0 && cfg.PersonaWeight <= 0 {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Ranker{embed: embed, cfg: cfg, log: log}
}

// Rank scores every section, stable-sorts the whole collection by score
// descending, and assigns 1-based importance ranks. Ties keep input order
// (document order, then page order). The returned mode tells the caller
// which scoring path was used, so downstream condensation matches.
func (r *Ranker) Rank(ctx context.Context, sections []fragment.Section, persona, task string) ([]fragment.ScoredSection, Mode) {
	mode := ModeVector
	var scores []float64
	if r.embed == nil {
		mode = ModeKeyword
	} else if s, ok := r.vectorScores(ctx, sections, persona, task); ok {
		scores = s
	} else {
		// A failure anywhere discards partial vector scores; the entire
		// collection is rescored with keywords for deterministic ranks.
		mode = ModeKeyword
	}
	if mode == ModeKeyword {
		scores = keywordScores(sections, persona, task)
	}
	if len(sections) == 0 {
		return nil, mode
	}

	scored := make([]fragment.ScoredSection, len(sections))
	for i, s := range sections {
		scored[i] = fragment.ScoredSection{Section: s, RelevanceScore: scores[i]}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	for i := range scored {
		scored[i].ImportanceRank = i + 1
	}
	return scored, mode
}

// vectorScores computes weighted cosine scores for all sections. Returns
// ok=false if any embedding call fails or degenerates, signalling that the
// whole run must fall back to keyword scoring.
func (r *Ranker) vectorScores(ctx context.Context, sections []fragment.Section, persona, task string) ([]float64, bool) {
	taskVec, err := r.embed.Embed(ctx, task)
	if err != nil {
		r.log.Warn("embeddings unavailable, using keyword scoring", "error", err)
		return nil, false
	}
	personaVec, err := r.embed.Embed(ctx, persona)
	if err != nil {
		r.log.Warn("embeddings unavailable, using keyword scoring", "error", err)
		return nil, false
	}
	if (strings.TrimSpace(task) != "" && norm(taskVec) == 0) ||
		(strings.TrimSpace(persona) != "" && norm(personaVec) == 0) {
		r.log.Warn("degenerate query embedding, using keyword scoring")
		return nil, false
	}

	scores := make([]float64, len(sections))
	for i, s := range sections {
		if strings.TrimSpace(s.FullContent) == "" {
			scores[i] = 0
			continue
		}
		vec, err := r.embed.Embed(ctx, s.FullContent)
		if err != nil {
			r.log.Warn("embedding failed mid-run, switching to keyword scoring", "document", s.DocumentID, "error", err)
			return nil, false
		}
		if norm(vec) == 0 {
			r.log.Warn("zero-norm embedding, switching to keyword scoring", "document", s.DocumentID)
			return nil, false
		}
		scores[i] = r.cfg.TaskWeight*Cosine(vec, taskVec) + r.cfg.PersonaWeight*Cosine(vec, personaVec)
	}
	return scores, true
}

// keywordScores is the fallback: lexical overlap between the query tokens
// (persona+task) and each section's tokens. Always in [0, 1].
func keywordScores(sections []fragment.Section, persona, task string) []float64 {
	query := Tokenize(persona + " " + task)
	scores := make([]float64, len(sections))
	for i, s := range sections {
		scores[i] = KeywordScore(query, Tokenize(s.FullContent))
	}
	return scores
}

// KeywordScore is |query ∩ tokens| / max(1, |tokens|).
func KeywordScore(query, tokens map[string]struct{}) float64 {
	matches := 0
	for t := range tokens {
		if _, ok := query[t]; ok {
			matches++
		}
	}
	denom := len(tokens)
	if denom < 1 {
		denom = 1
	}
	return float64(matches) / float64(denom)
}

// Tokenize lowercases and splits on whitespace, keeping words longer than
// two characters.
func Tokenize(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if len(w) > 2 {
			out[w] = struct{}{}
		}
	}
	return out
}

// Cosine computes cosine similarity in [-1, 1]. A zero vector on either
// side yields 0, not an error.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
