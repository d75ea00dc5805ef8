package rank

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/docsift/internal/fragment"
)

// fakeEmbedder returns canned vectors by exact text, a default vector
// otherwise, and an error for any text containing failText.
type fakeEmbedder struct {
	vecs     map[string][]float32
	failText string
	calls    int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failText != "" && strings.Contains(text, f.failText) {
		return nil, errors.New("embedding backend down")
	}
	if v, ok := f.vecs[text]; ok {
		return v, nil
	}
	return []float32{1, 1}, nil
}

func section(doc, content string, page int) fragment.Section {
	return fragment.Section{
		DocumentID:  doc,
		Heading:     fragment.OutlineEntry{Level: fragment.LevelH1, Text: "Heading", Page: page},
		FullContent: content,
		Page:        page,
	}
}

func assertRanks(t *testing.T, scored []fragment.ScoredSection) {
	t.Helper()
	seen := make(map[int]bool, len(scored))
	for i, s := range scored {
		if s.ImportanceRank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, s.ImportanceRank)
		}
		if seen[s.ImportanceRank] {
			t.Errorf("duplicate rank %d", s.ImportanceRank)
		}
		seen[s.ImportanceRank] = true
		if i > 0 && scored[i-1].RelevanceScore < s.RelevanceScore {
			t.Errorf("scores not descending at position %d", i)
		}
	}
}

func TestRank_KeywordModeWithoutEmbedder(t *testing.T) {
	sections := []fragment.Section{
		section("menu.pdf", "Dinner entrees with slow braised beef.", 3),
		section("menu.pdf", "Quick breakfast recipes for busy mornings.", 1),
	}
	r := NewRanker(nil, DefaultConfig(), nil)
	scored, mode := r.Rank(context.Background(), sections, "chef", "find quick breakfast recipes")

	if mode != ModeKeyword {
		t.Fatalf("expected keyword mode, got %s", mode)
	}
	if len(scored) != 2 {
		t.Fatalf("expected 2 scored sections, got %d", len(scored))
	}
	if scored[0].Page != 1 {
		t.Errorf("expected breakfast section first, got page %d", scored[0].Page)
	}
	if scored[0].RelevanceScore <= scored[1].RelevanceScore {
		t.Errorf("expected strict score ordering, got %f vs %f", scored[0].RelevanceScore, scored[1].RelevanceScore)
	}
	for _, s := range scored {
		if s.RelevanceScore < 0 || s.RelevanceScore > 1 {
			t.Errorf("keyword score %f outside [0, 1]", s.RelevanceScore)
		}
	}
	assertRanks(t, scored)
}

func TestRank_VectorMode(t *testing.T) {
	task := "quick breakfast ideas"
	persona := "chef"
	contentA := "Breakfast dishes ready in minutes."
	contentB := "Managing a professional kitchen brigade."

	emb := &fakeEmbedder{vecs: map[string][]float32{
		task:     {1, 0},
		persona:  {0, 1},
		contentA: {0.9, 0.1},
		contentB: {0.1, 0.9},
	}}
	sections := []fragment.Section{
		section("b.pdf", contentB, 2),
		section("a.pdf", contentA, 5),
	}
	r := NewRanker(emb, DefaultConfig(), nil)
	scored, mode := r.Rank(context.Background(), sections, persona, task)

	if mode != ModeVector {
		t.Fatalf("expected vector mode, got %s", mode)
	}
	// Task similarity carries 0.7 of the weight, so the breakfast-aligned
	// vector wins despite the persona-aligned competitor.
	if scored[0].DocumentID != "a.pdf" {
		t.Errorf("expected a.pdf ranked first, got %s", scored[0].DocumentID)
	}
	assertRanks(t, scored)
}

func TestRank_MidRunFailureRescoresWholeCollection(t *testing.T) {
	task := "quick breakfast recipes"
	contentA := "Slow dinner braising techniques explained."
	contentB := "Try these quick breakfast recipes at home XFAILX."

	// Vector scoring would favor contentA, but embedding contentB fails,
	// so the entire collection must be rescored with keywords.
	emb := &fakeEmbedder{
		vecs: map[string][]float32{
			task:     {1, 0},
			"chef":   {0, 1},
			contentA: {1, 0},
		},
		failText: "XFAILX",
	}
	sections := []fragment.Section{
		section("a.pdf", contentA, 1),
		section("b.pdf", contentB, 1),
	}
	r := NewRanker(emb, DefaultConfig(), nil)
	scored, mode := r.Rank(context.Background(), sections, "chef", task)

	if mode != ModeKeyword {
		t.Fatalf("expected keyword mode after mid-run failure, got %s", mode)
	}
	if scored[0].DocumentID != "b.pdf" {
		t.Errorf("expected keyword-rescored ranking to favor b.pdf, got %s", scored[0].DocumentID)
	}
	if scored[1].RelevanceScore != 0 {
		t.Errorf("expected keyword score 0 for non-matching section, got %f", scored[1].RelevanceScore)
	}
	assertRanks(t, scored)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	sections := []fragment.Section{
		section("first.pdf", "alpha beta gamma", 1),
		section("second.pdf", "delta epsilon zeta", 1),
		section("third.pdf", "eta theta iota", 1),
	}
	r := NewRanker(nil, DefaultConfig(), nil)
	scored, _ := r.Rank(context.Background(), sections, "analyst", "unrelated query")

	want := []string{"first.pdf", "second.pdf", "third.pdf"}
	for i, s := range scored {
		if s.DocumentID != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], s.DocumentID)
		}
	}
	assertRanks(t, scored)
}

func TestRank_EmptyCollection(t *testing.T) {
	r := NewRanker(nil, DefaultConfig(), nil)
	scored, mode := r.Rank(context.Background(), nil, "p", "t")
	if scored != nil {
		t.Errorf("expected nil scored sections, got %v", scored)
	}
	if mode != ModeKeyword {
		t.Errorf("expected keyword mode with nil embedder, got %s", mode)
	}
}

func TestRank_EmptyContentScoresZero(t *testing.T) {
	emb := &fakeEmbedder{vecs: map[string][]float32{
		"task":    {1, 0},
		"persona": {0, 1},
	}}
	sections := []fragment.Section{
		section("a.pdf", "", 1),
	}
	r := NewRanker(emb, DefaultConfig(), nil)
	scored, mode := r.Rank(context.Background(), sections, "persona", "task")
	if mode != ModeVector {
		t.Fatalf("expected vector mode, got %s", mode)
	}
	if scored[0].RelevanceScore != 0 {
		t.Errorf("expected score 0 for empty content, got %f", scored[0].RelevanceScore)
	}
}

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
	}
	for _, c := range cases {
		got := Cosine(c.a, c.b)
		if got < c.want-1e-9 || got > c.want+1e-9 {
			t.Errorf("%s: expected %f, got %f", c.name, c.want, got)
		}
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("The Quick AND the dead ox")
	if _, ok := tokens["quick"]; !ok {
		t.Error("expected lowercase token quick")
	}
	if _, ok := tokens["the"]; !ok {
		t.Error("expected token the (3 chars)")
	}
	if _, ok := tokens["ox"]; ok {
		t.Error("did not expect 2-char token ox")
	}
}

func TestKeywordScore_Bounds(t *testing.T) {
	query := Tokenize("alpha beta gamma")
	if got := KeywordScore(query, Tokenize("")); got != 0 {
		t.Errorf("empty tokens: expected 0, got %f", got)
	}
	if got := KeywordScore(query, Tokenize("alpha beta gamma")); got != 1 {
		t.Errorf("full overlap: expected 1, got %f", got)
	}
}
