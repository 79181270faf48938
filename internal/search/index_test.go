package search

import (
	"strings"
	"testing"
)

func TestOptionsAndDefaults(t *testing.T) {
	def := defaultConfig()
	if def.minScore != 0 || def.stopwords != nil || def.maxDocs != 0 || def.snippet != 160 {
		t.Fatalf("defaultConfig unexpected: %#v", def)
	}

	cfg := def
	WithMinScore(0.2)(&cfg)
	if cfg.minScore != 0.2 {
		t.Fatalf("WithMinScore failed: %v", cfg.minScore)
	}
	WithMinScore(1.5)(&cfg) // no-op
	if cfg.minScore != 0.2 {
		t.Fatalf("out-of-range minScore should be ignored")
	}

	WithStopwords([]string{"  The ", "", "An"})(&cfg)
	if _, ok := cfg.stopwords["the"]; !ok {
		t.Fatalf("WithStopwords failed (missing 'the'): %#v", cfg.stopwords)
	}

	cfg2 := def
	WithStopwords(nil)(&cfg2)
	if cfg2.stopwords != nil {
		t.Fatalf("empty stopwords should remain nil")
	}

	WithMaxDocs(2)(&cfg)
	WithMaxDocs(0)(&cfg) // no-op
	if cfg.maxDocs != 2 {
		t.Fatalf("WithMaxDocs failed: %d", cfg.maxDocs)
	}
	WithSnippetRunes(-1)(&cfg)
	if cfg.snippet != 160 {
		t.Fatalf("negative snippet should be ignored")
	}
}

func TestNewIndex_FiltersAndMaxDocs(t *testing.T) {
	docs := []Document{
		{ID: "1", Text: ""},
		{ID: "2", Text: " \t \r  "},
		{ID: "3", Text: "The and a"},
		{ID: "4", Text: "Keep this one"},
		{ID: "5", Text: "Another document here"},
	}
	idx := NewIndex(docs, WithStopwords([]string{"the", "and", "a"}))
	if idx.Len() != 2 {
		t.Fatalf("expected 2 docs, got %d", idx.Len())
	}
	if NewIndex(docs, WithMaxDocs(1)).Len() != 1 {
		t.Fatalf("maxDocs cap failed")
	}
}

func TestTopK_RanksByJaccard(t *testing.T) {
	idx := NewIndex([]Document{
		{ID: "ocean", Text: "Flying over the ocean at night"},
		{ID: "forest", Text: "Lost in a forest"},
		{ID: "both", Text: "ocean night"},
	})

	res := idx.TopK("ocean night", 5)
	if len(res) != 2 {
		t.Fatalf("expected 2 results, got %+v", res)
	}
	if res[0].ID != "both" || res[0].Score != 1 {
		t.Fatalf("exact token match should rank first: %+v", res)
	}
	if res[1].ID != "ocean" {
		t.Fatalf("unexpected second result: %+v", res)
	}

	if got := idx.TopK("desert", 5); got != nil {
		t.Fatalf("no overlap should return nil, got %+v", got)
	}
	if got := idx.TopK("   ", 5); got != nil {
		t.Fatalf("blank query should return nil")
	}
	if got := NewIndex(nil).TopK("ocean", 1); got != nil {
		t.Fatalf("empty index should return nil")
	}
}

func TestTopK_ThresholdAndTies(t *testing.T) {
	idx := NewIndex([]Document{
		{ID: "newer", Text: "star moon"},
		{ID: "older", Text: "star sun"},
		{ID: "weak", Text: "star a b c d e f g h"},
	}, WithMinScore(0.2))

	res := idx.TopK("star", 0)
	if len(res) != 2 {
		t.Fatalf("threshold should drop the weak match: %+v", res)
	}
	if res[0].ID != "newer" || res[1].ID != "older" {
		t.Fatalf("ties must keep insertion order: %+v", res)
	}
}

func TestTokenize_FoldsCaseAndNormalizes(t *testing.T) {
	a := tokenize("Café DREAM 꿈", nil)
	b := tokenize("café dream 꿈", nil)
	if len(a) != 3 || overlap(a, b) != 3 {
		t.Fatalf("tokens differ: %v vs %v", a, b)
	}
}

func TestTopK_SnippetTruncated(t *testing.T) {
	long := "ocean " + strings.Repeat("wave ", 100)
	res := NewIndex([]Document{{ID: "x", Text: long}}, WithSnippetRunes(20)).TopK("ocean", 1)
	if len(res) != 1 || !strings.HasSuffix(res[0].Snippet, "…") {
		t.Fatalf("snippet not truncated: %+v", res)
	}
}
