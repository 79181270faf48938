package search

import (
	"strings"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

// FromReading flattens the searchable text of a saved reading into one
// Document: title, verdict, summary, keyword words and meanings, and for
// tarot the drawn card names. Narrative sections are left out so long
// readings do not dilute the score.
func FromReading(r *domain.Reading) Document {
	var b strings.Builder
	write := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s)
	}

	write(r.Title)
	write(r.Verdict)
	write(r.Summary)
	for _, kw := range r.Keywords {
		write(kw.Word)
		write(kw.Meaning)
	}
	for _, c := range r.Cards {
		write(c.Name)
	}
	if cc := r.ConclusionCard.Data(); cc != nil {
		write(cc.Name)
	}
	return Document{ID: r.ID, Text: b.String()}
}

// FromReadings maps rows to documents, preserving order.
func FromReadings(rows []domain.Reading) []Document {
	out := make([]Document, 0, len(rows))
	for n := range rows {
		out = append(out, FromReading(&rows[n]))
	}
	return out
}
