package imagegen

import (
	"strings"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

// Style selects one of the fixed visual presets.
type Style string

const (
	StyleDream   Style = "dream"
	StyleTarot   Style = "tarot"
	StyleFortune Style = "fortune"
)

var presets = map[Style]string{
	StyleDream: "Dreamy storybook illustration, soft watercolor textures, " +
		"pastel lavender, midnight blue and pearl white palette, gentle glow, " +
		"floating surreal details, calm and mysterious mood.",
	StyleTarot: "Ornate tarot card illustration, art nouveau linework, " +
		"deep burgundy, antique gold and ivory palette, symbolic framing, " +
		"candle-lit mystical mood.",
	StyleFortune: "Oriental ink wash painting, flowing brush strokes, " +
		"jade green, vermilion and warm ochre palette, auspicious symbols, " +
		"serene and hopeful mood.",
}

// StyleFor maps a reading kind to its preset.
func StyleFor(k domain.Kind) Style {
	switch k {
	case domain.KindTarot:
		return StyleTarot
	case domain.KindFortune:
		return StyleFortune
	}
	return StyleDream
}

// Base returns the preset text, falling back to the dream preset.
func (s Style) Base() string {
	if p, ok := presets[s]; ok {
		return p
	}
	return presets[StyleDream]
}

// Compose combines the preset, the scene and an optional character clause.
func Compose(style Style, scene, character string) string {
	var b strings.Builder
	b.WriteString(style.Base())
	b.WriteString("\n\nScene: ")
	b.WriteString(strings.TrimSpace(scene))
	if c := strings.TrimSpace(character); c != "" {
		b.WriteString("\n\nMain character, identical in every image of this set: ")
		b.WriteString(c)
	}
	b.WriteString("\n\nNo text, letters or watermarks in the image.")
	return b.String()
}
