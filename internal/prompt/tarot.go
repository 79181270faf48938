package prompt

import (
	"fmt"
	"strings"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

var spreadPositions = [3]string{"past", "present", "future"}

func (b *Builder) tarot(req domain.ReadingRequest) (Prompt, error) {
	selected := make([]domain.CardRef, len(req.Cards))
	exclude := make([]string, len(req.Cards))
	for i, c := range req.Cards {
		selected[i] = b.Deck.Resolve(c)
		exclude[i] = c.ID
	}
	conclusion, err := b.Deck.DrawExcluding(b.RNG, exclude...)
	if err != nil {
		return Prompt{}, fmt.Errorf("draw conclusion card: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You are an experienced tarot reader giving a three-card past, present, future reading followed by a conclusion card.\n\n")
	writeAddressing(&sb, req.Profile)
	writeProfile(&sb, req.Profile)
	fmt.Fprintf(&sb, "\nThe reader's question:\n%q\n\nCards drawn:\n", Clean(req.FreeText))
	for i, c := range selected {
		fmt.Fprintf(&sb, "%d. %s (%s): %s\n", i+1, c.Name, spreadPositions[i], c.Meaning)
	}
	fmt.Fprintf(&sb, "Conclusion card: %s: %s\n\n", conclusion.Name, conclusion.Meaning)
	sb.WriteString("Read every card in its position and answer the question directly. ")
	sb.WriteString("Image descriptions must be written in English, in tarot illustration style, and must all depict the same character described in characterDescription.\n\n")
	writeSchema(&sb, domain.KindTarot)

	return Prompt{
		Kind:           domain.KindTarot,
		Text:           sb.String(),
		MaxTokens:      MaxTokensTarot,
		Slots:          domain.KindTarot.Slots(),
		ConclusionCard: &conclusion,
	}, nil
}
