package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/docsift/internal/outline"
)

func TestMarkdownSource_HeadingTiers(t *testing.T) {
	input := `# City Guide

An introduction paragraph about the city.

## Restaurants

Where to eat downtown.

### Budget Options

Cheap eats near the station.

#### Deep Heading

This level collapses into the lowest tier.
`
	src := &MarkdownSource{}
	frags, err := src.Parse(strings.NewReader(input), "guide.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sizeOf := make(map[string]float64, len(frags))
	boldOf := make(map[string]bool, len(frags))
	for _, f := range frags {
		sizeOf[f.Text] = f.FontSize
		boldOf[f.Text] = f.IsBold
	}

	if !boldOf["City Guide"] || !boldOf["Restaurants"] || !boldOf["Budget Options"] {
		t.Error("expected markdown headings to be bold")
	}
	if !(sizeOf["City Guide"] > sizeOf["Restaurants"]) {
		t.Error("expected h1 larger than h2")
	}
	if !(sizeOf["Restaurants"] > sizeOf["Budget Options"]) {
		t.Error("expected h2 larger than h3")
	}
	if sizeOf["Deep Heading"] != sizeOf["Budget Options"] {
		t.Error("expected h4 to collapse into the h3 tier")
	}
	if !(sizeOf["Budget Options"] > sizeOf["Where to eat downtown."]) {
		t.Error("expected body text smaller than any heading")
	}
	if boldOf["Where to eat downtown."] {
		t.Error("expected body text not bold")
	}
}

func TestMarkdownSource_ClassifiesEndToEnd(t *testing.T) {
	input := `# Travel Notes

General travel advice.

## Packing

What to pack for the trip.

## Lodging

Where to stay on a budget.
`
	src := &MarkdownSource{}
	frags, err := src.Parse(strings.NewReader(input), "notes.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := outline.NewClassifier(outline.DefaultConfig())
	out := c.Classify(frags)

	if out.Title == nil || *out.Title != "Travel Notes" {
		t.Fatalf("expected title %q, got %v", "Travel Notes", out.Title)
	}
	var texts []string
	for _, e := range out.Entries {
		texts = append(texts, e.Text)
	}
	want := []string{"Packing", "Lodging"}
	if len(texts) != len(want) {
		t.Fatalf("expected entries %v, got %v", want, texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], texts[i])
		}
	}
}

func TestMarkdownSource_Empty(t *testing.T) {
	src := &MarkdownSource{}
	frags, err := src.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frags) != 0 {
		t.Errorf("expected no fragments, got %d", len(frags))
	}
}
