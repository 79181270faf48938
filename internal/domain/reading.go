package domain

import (
	"strings"
	"time"
)

// UserProfile is the subset of an account profile the prompt builder
// consumes. Every field is optional.
type UserProfile struct {
	Name      string `json:"name,omitempty"       example:"Mina"`
	BirthDate string `json:"birth_date,omitempty" example:"1994-03-21"`
	BirthTime string `json:"birth_time,omitempty" example:"07:30"`
	Gender    string `json:"gender,omitempty"     example:"female"`
	MBTI      string `json:"mbti,omitempty"       example:"INFP"`
}

// DisplayName returns the trimmed profile name, or "" for a nil profile.
func (p *UserProfile) DisplayName() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Name)
}

// CardRef identifies a tarot card together with its canonical meaning.
type CardRef struct {
	ID      string `json:"id"      example:"major_17"`
	Name    string `json:"name"    example:"The Star"`
	Meaning string `json:"meaning" example:"Hope, renewal and quiet faith in what comes next."`
}

// FortuneCategory selects the focus of a fortune reading.
type FortuneCategory string

const (
	FortuneOverall FortuneCategory = "overall"
	FortuneLove    FortuneCategory = "love"
	FortuneWealth  FortuneCategory = "wealth"
	FortuneCareer  FortuneCategory = "career"
	FortuneHealth  FortuneCategory = "health"
)

// ParseFortuneCategory normalizes s and returns the matching category.
func ParseFortuneCategory(s string) (FortuneCategory, error) {
	switch c := FortuneCategory(strings.ToLower(strings.TrimSpace(s))); c {
	case FortuneOverall, FortuneLove, FortuneWealth, FortuneCareer, FortuneHealth:
		return c, nil
	}
	return "", ErrInvalidCategory
}

// ReadingRequest is built from client input at submission time and consumed
// once by the generation pipeline. It is never persisted itself.
type ReadingRequest struct {
	Kind     Kind
	FreeText string
	Cards    []CardRef
	Category FortuneCategory
	Profile  *UserProfile
}

// Validate checks the kind-specific required fields.
func (r ReadingRequest) Validate() error {
	switch r.Kind {
	case KindDream:
		if strings.TrimSpace(r.FreeText) == "" {
			return ErrEmptyInput
		}
	case KindTarot:
		if strings.TrimSpace(r.FreeText) == "" {
			return ErrEmptyInput
		}
		if len(r.Cards) != 3 {
			return ErrInvalidCards
		}
		seen := make(map[string]struct{}, 3)
		for _, c := range r.Cards {
			if c.ID == "" {
				return ErrInvalidCards
			}
			if _, dup := seen[c.ID]; dup {
				return ErrInvalidCards
			}
			seen[c.ID] = struct{}{}
		}
	case KindFortune:
		if _, err := ParseFortuneCategory(string(r.Category)); err != nil {
			return err
		}
	default:
		return ErrUnknownKind
	}
	return nil
}

// Keyword is one symbol extracted by the model together with its meaning.
type Keyword struct {
	Word    string `json:"word"    example:"ocean"`
	Meaning string `json:"meaning" example:"The depth of feelings you have not named yet."`
}

// ImageSet maps every slot of a kind to an image reference. A nil value
// means that slot has no image. References are either ephemeral media
// handles ("blob:<id>"), data URLs, or durable URLs after persistence.
type ImageSet map[Slot]*string

// Count returns the number of non-nil images.
func (s ImageSet) Count() int {
	n := 0
	for _, v := range s {
		if v != nil {
			n++
		}
	}
	return n
}

// GenerationResult is the composite produced by the orchestrator. Its text
// fields depend on Kind; Sections carries the kind-specific narrative blocks.
type GenerationResult struct {
	Kind                 Kind              `json:"kind"`
	Title                string            `json:"title"`
	Verdict              string            `json:"verdict"`
	Summary              string            `json:"summary"`
	Keywords             []Keyword         `json:"keywords"`
	Sections             map[string]string `json:"sections"`
	DetailedAnalysis     string            `json:"detailed_analysis,omitempty"`
	CharacterDescription string            `json:"character_description,omitempty"`

	Input          string          `json:"input,omitempty"`
	Cards          []CardRef       `json:"cards,omitempty"`
	ConclusionCard *CardRef        `json:"conclusion_card,omitempty"`
	Category       FortuneCategory `json:"category,omitempty"`

	Images ImageSet `json:"images"`

	// Missing lists schema fields the model omitted or mistyped.
	Missing []string `json:"missing,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
