// Package prompt turns a reading request into the instruction sent to the
// text model. Building is pure apart from one explicit RNG draw (the tarot
// conclusion card) and the injected clock (the fortune year).
package prompt

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

type globalRNG struct{}

func (globalRNG) Intn(n int) int { return rand.IntN(n) }

// DefaultRNG is backed by the concurrency-safe math/rand/v2 source.
func DefaultRNG() RNG { return globalRNG{} }

// Token budgets per prompt.
const (
	MaxTokensDream    = 4000
	MaxTokensTarot    = 4500
	MaxTokensFortune  = 4500
	MaxTokensAnalysis = 3000
)

// Prompt is a built instruction together with its token budget and the
// image slots the response is expected to describe.
type Prompt struct {
	Kind           domain.Kind
	Text           string
	MaxTokens      int
	Slots          []domain.Slot
	ConclusionCard *domain.CardRef
}

// Builder builds prompts. The zero value is not usable; use NewBuilder.
type Builder struct {
	RNG  RNG
	Deck *Deck
	Now  func() time.Time
}

// NewBuilder returns a Builder over the standard deck and wall clock.
func NewBuilder(rng RNG) *Builder {
	if rng == nil {
		rng = DefaultRNG()
	}
	return &Builder{RNG: rng, Deck: StandardDeck(), Now: time.Now}
}

// Build produces the instruction for req. The request is validated first.
func (b *Builder) Build(req domain.ReadingRequest) (Prompt, error) {
	if err := req.Validate(); err != nil {
		return Prompt{}, err
	}
	switch req.Kind {
	case domain.KindDream:
		return b.dream(req), nil
	case domain.KindTarot:
		return b.tarot(req)
	case domain.KindFortune:
		return b.fortune(req), nil
	}
	return Prompt{}, domain.ErrUnknownKind
}

// Clean normalizes user text to NFC and drops control characters other
// than newlines and tabs.
func Clean(s string) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// AddressName returns the name the reader should be addressed by, or "".
func AddressName(p *domain.UserProfile) string {
	name := Clean(p.DisplayName())
	if name == "" {
		return ""
	}
	// Casers are stateful, so one per call.
	return cases.Title(language.Und, cases.NoLower).String(name)
}

func writeAddressing(b *strings.Builder, p *domain.UserProfile) {
	if name := AddressName(p); name != "" {
		fmt.Fprintf(b, "Address the reader by name as %q throughout every narrative field, for example \"%s, this means...\". Never call them anything else.\n", name, name)
		return
	}
	b.WriteString("Address the reader generically in the second person (\"you\") throughout. Do not invent or guess a name.\n")
}

func writeProfile(b *strings.Builder, p *domain.UserProfile) {
	if p == nil {
		return
	}
	var lines []string
	if v := Clean(p.BirthDate); v != "" {
		lines = append(lines, "birth date: "+v)
	}
	if v := Clean(p.BirthTime); v != "" {
		lines = append(lines, "birth time: "+v)
	}
	if v := Clean(p.Gender); v != "" {
		lines = append(lines, "gender: "+v)
	}
	if v := strings.ToUpper(Clean(p.MBTI)); v != "" {
		lines = append(lines, "MBTI: "+v)
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString("Reader profile (use it to personalize, never recite it back verbatim):\n")
	for _, l := range lines {
		b.WriteString("- " + l + "\n")
	}
}
