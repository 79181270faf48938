package services

import (
	"testing"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

func TestParseReading_TypesAndMissing(t *testing.T) {
	obj := map[string]any{
		"title":   "  **Sky**  ",
		"verdict": 42, // mistyped
		"keywords": []any{
			"plain",
			map[string]any{"word": "ocean", "meaning": "depth"},
			map[string]any{"meaning": "no word"},
			"a", "b", "c", "d",
		},
		"storyline":            "story",
		"characterDescription": "a girl in a red coat",
		"heroImagePrompt":      "hero scene",
		"dreamImagePrompt":     "   ",
	}
	p := parseReading(domain.KindDream, obj)

	if p.Title != "Sky" {
		t.Fatalf("Title = %q", p.Title)
	}
	if len(p.Keywords) != 5 || p.Keywords[0].Word != "plain" || p.Keywords[1].Meaning != "depth" {
		t.Fatalf("Keywords = %+v", p.Keywords)
	}
	if p.Sections["storyline"] != "story" || p.Character == "" {
		t.Fatalf("parsed = %+v", p)
	}
	if p.Scenes[domain.SlotHero] != "hero scene" {
		t.Fatalf("hero scene = %q", p.Scenes[domain.SlotHero])
	}
	if _, ok := p.Scenes[domain.SlotDream]; ok {
		t.Fatalf("blank scene should be missing")
	}

	missing := map[string]bool{}
	for _, m := range p.Missing {
		missing[m] = true
	}
	for _, k := range []string{"verdict", "summary", "psychology", "dreamImagePrompt", "tarotImagePrompt", "meaningImagePrompt"} {
		if !missing[k] {
			t.Fatalf("%s not reported missing: %v", k, p.Missing)
		}
	}
	if missing["title"] || missing["keywords"] {
		t.Fatalf("present keys reported missing: %v", p.Missing)
	}
}

func TestParseReading_EmptyObject(t *testing.T) {
	p := parseReading(domain.KindFortune, map[string]any{})
	if len(p.Scenes) != 0 || len(p.Keywords) != 0 {
		t.Fatalf("unexpected values: %+v", p)
	}
	// every schema key is missing
	if len(p.Missing) != 4+5+1+4 {
		t.Fatalf("Missing = %d keys: %v", len(p.Missing), p.Missing)
	}
}
