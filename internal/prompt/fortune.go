package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

var categoryFocus = map[domain.FortuneCategory]string{
	domain.FortuneOverall: "overall fortune across every area of life",
	domain.FortuneLove:    "love, romance and close relationships",
	domain.FortuneWealth:  "money, savings and financial luck",
	domain.FortuneCareer:  "career, study and professional growth",
	domain.FortuneHealth:  "health, energy and wellbeing",
}

// ageIn returns the age reached during year for a YYYY-MM-DD birth date.
func ageIn(birthDate string, year int) (int, bool) {
	t, err := time.Parse("2006-01-02", birthDate)
	if err != nil || t.Year() > year {
		return 0, false
	}
	return year - t.Year(), true
}

func (b *Builder) fortune(req domain.ReadingRequest) Prompt {
	year := b.Now().Year()
	cat, _ := domain.ParseFortuneCategory(string(req.Category))

	var sb strings.Builder
	sb.WriteString("You are a fortune teller versed in the Four Pillars of Destiny (saju) and the five elements.\n\n")
	writeAddressing(&sb, req.Profile)
	writeProfile(&sb, req.Profile)
	fmt.Fprintf(&sb, "\nThe current year is %d. Every year you mention must be computed from %d; never write any other year as the current one.\n", year, year)

	birth := ""
	if req.Profile != nil {
		birth = Clean(req.Profile.BirthDate)
	}
	if age, ok := ageIn(birth, year); ok {
		fmt.Fprintf(&sb, "The reader turns %d in %d. Derive their pillars from the birth date and read the year %d against them.\n", age, year, year)
	} else {
		fmt.Fprintf(&sb, "No birth date is known. Give a general fortune for the year %d based on its ruling element.\n", year)
	}
	fmt.Fprintf(&sb, "Focus: %s.\n", categoryFocus[cat])
	if extra := Clean(req.FreeText); extra != "" {
		fmt.Fprintf(&sb, "The reader adds: %q\n", extra)
	}
	fmt.Fprintf(&sb, "In yearFlow walk through %d from spring to winter, and close with a short look toward %d.\n", year, year+1)
	sb.WriteString("Image descriptions must be written in English, in a soft oriental ink style, and must all depict the same character described in characterDescription.\n\n")
	writeSchema(&sb, domain.KindFortune)

	return Prompt{
		Kind:      domain.KindFortune,
		Text:      sb.String(),
		MaxTokens: MaxTokensFortune,
		Slots:     domain.KindFortune.Slots(),
	}
}
