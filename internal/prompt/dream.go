package prompt

import (
	"fmt"
	"strings"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

func (b *Builder) dream(req domain.ReadingRequest) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a warm, insightful dream interpreter who blends Jungian psychology with traditional dream symbolism.\n\n")
	writeAddressing(&sb, req.Profile)
	writeProfile(&sb, req.Profile)
	fmt.Fprintf(&sb, "\nThe dream, in the reader's own words:\n%q\n\n", Clean(req.FreeText))
	sb.WriteString("Interpret this dream. Pick the most meaningful symbols as keywords. ")
	sb.WriteString("Image descriptions must be written in English and must all depict the same character described in characterDescription.\n\n")
	writeSchema(&sb, domain.KindDream)

	return Prompt{
		Kind:      domain.KindDream,
		Text:      sb.String(),
		MaxTokens: MaxTokensDream,
		Slots:     domain.KindDream.Slots(),
	}
}

// AnalysisKey is the key the detailed analysis is returned under.
const AnalysisKey = "detailedAnalysis"

// BuildAnalysis builds the secondary dream prompt that deepens an already
// generated interpretation.
func (b *Builder) BuildAnalysis(req domain.ReadingRequest, title string, keywords []domain.Keyword) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a dream analyst writing an in-depth follow-up to an existing interpretation.\n\n")
	writeAddressing(&sb, req.Profile)
	fmt.Fprintf(&sb, "\nThe dream:\n%q\n", Clean(req.FreeText))
	if title != "" {
		fmt.Fprintf(&sb, "Interpretation title: %q\n", title)
	}
	if len(keywords) > 0 {
		words := make([]string, 0, len(keywords))
		for _, k := range keywords {
			words = append(words, k.Word)
		}
		fmt.Fprintf(&sb, "Key symbols: %s\n", strings.Join(words, ", "))
	}
	sb.WriteString("\nWrite a detailed analysis covering the emotional core, recurring patterns in the reader's life the dream may point to, and one reflective question to carry forward.\n\n")
	fmt.Fprintf(&sb, "Respond with exactly one JSON object {%q: string of at least 600 characters} and nothing else.\n", AnalysisKey)
	sb.WriteString("Do not use markdown emphasis or lists inside the string. Do not wrap the object in code fences.\n")

	return Prompt{
		Kind:      domain.KindDream,
		Text:      sb.String(),
		MaxTokens: MaxTokensAnalysis,
	}
}
