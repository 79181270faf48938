package prompt

import (
	"errors"
	"fmt"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

// ErrDeckExhausted is returned when every card in the deck is excluded.
var ErrDeckExhausted = errors.New("no cards left to draw")

// Deck is an ordered tarot deck.
type Deck struct {
	cards []domain.CardRef
	byID  map[string]int
}

// NewDeck builds a deck from cards. Card ids must be unique.
func NewDeck(cards []domain.CardRef) *Deck {
	d := &Deck{cards: cards, byID: make(map[string]int, len(cards))}
	for i, c := range cards {
		d.byID[c.ID] = i
	}
	return d
}

// Len returns the number of cards in the deck.
func (d *Deck) Len() int { return len(d.cards) }

// Cards returns a copy of the deck in order.
func (d *Deck) Cards() []domain.CardRef {
	out := make([]domain.CardRef, len(d.cards))
	copy(out, d.cards)
	return out
}

// Lookup returns the canonical card for id.
func (d *Deck) Lookup(id string) (domain.CardRef, bool) {
	i, ok := d.byID[id]
	if !ok {
		return domain.CardRef{}, false
	}
	return d.cards[i], true
}

// Resolve fills missing names and meanings from the deck. Unknown ids are
// returned unchanged so callers can bring their own localized deck.
func (d *Deck) Resolve(c domain.CardRef) domain.CardRef {
	canon, ok := d.Lookup(c.ID)
	if !ok {
		return c
	}
	if c.Name == "" {
		c.Name = canon.Name
	}
	if c.Meaning == "" {
		c.Meaning = canon.Meaning
	}
	return c
}

// DrawExcluding picks one card uniformly from the deck minus the excluded ids.
func (d *Deck) DrawExcluding(rng RNG, exclude ...string) (domain.CardRef, error) {
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	pool := make([]int, 0, len(d.cards))
	for i, c := range d.cards {
		if _, ok := skip[c.ID]; !ok {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 {
		return domain.CardRef{}, ErrDeckExhausted
	}
	return d.cards[pool[rng.Intn(len(pool))]], nil
}

var majorArcana = []struct{ name, meaning string }{
	{"The Fool", "A leap into the unknown, innocence and a fresh beginning."},
	{"The Magician", "Willpower and skill, turning intention into reality."},
	{"The High Priestess", "Intuition, hidden knowledge and the quiet inner voice."},
	{"The Empress", "Abundance, nurture and creative fertility."},
	{"The Emperor", "Structure, authority and steady protection."},
	{"The Hierophant", "Tradition, guidance and shared belief."},
	{"The Lovers", "Union, choice and alignment of values."},
	{"The Chariot", "Determination and victory through focused control."},
	{"Strength", "Gentle courage and patience that tames fear."},
	{"The Hermit", "Solitude, reflection and the search for inner truth."},
	{"Wheel of Fortune", "Cycles, turning points and fate in motion."},
	{"Justice", "Fairness, truth and the weight of consequences."},
	{"The Hanged Man", "Surrender, pause and a new perspective."},
	{"Death", "An ending that clears the way for transformation."},
	{"Temperance", "Balance, moderation and healing through patience."},
	{"The Devil", "Attachment, temptation and the chains we choose."},
	{"The Tower", "Sudden upheaval that breaks false structures."},
	{"The Star", "Hope, renewal and quiet faith in what comes next."},
	{"The Moon", "Illusion, dreams and the uncertain path through the night."},
	{"The Sun", "Joy, clarity and warm success."},
	{"Judgement", "Awakening, reckoning and answering a higher call."},
	{"The World", "Completion, wholeness and a journey fulfilled."},
}

var minorSuits = []struct{ id, name, domain string }{
	{"wands", "Wands", "passion, ambition and creative fire"},
	{"cups", "Cups", "emotion, love and relationships"},
	{"swords", "Swords", "thought, conflict and hard truths"},
	{"pentacles", "Pentacles", "work, money and the material world"},
}

var minorRanks = []struct{ name, theme string }{
	{"Ace", "A new seed of"},
	{"Two", "A choice or partnership in"},
	{"Three", "Early growth and collaboration in"},
	{"Four", "Stability, or stagnation, in"},
	{"Five", "Loss and struggle in"},
	{"Six", "Recovery and generosity in"},
	{"Seven", "Testing and perseverance in"},
	{"Eight", "Swift movement and change in"},
	{"Nine", "Near fulfilment and resilience in"},
	{"Ten", "A cycle reaching its peak in"},
	{"Page", "Curiosity and a message about"},
	{"Knight", "Bold pursuit of"},
	{"Queen", "Mature, receptive mastery of"},
	{"King", "Authority and command over"},
}

// StandardDeck returns the 78-card Rider-Waite ordering: 22 major arcana
// followed by the four minor suits, Ace through King.
func StandardDeck() *Deck {
	cards := make([]domain.CardRef, 0, 78)
	for i, m := range majorArcana {
		cards = append(cards, domain.CardRef{
			ID:      fmt.Sprintf("major_%d", i),
			Name:    m.name,
			Meaning: m.meaning,
		})
	}
	for _, s := range minorSuits {
		for r, rank := range minorRanks {
			cards = append(cards, domain.CardRef{
				ID:      fmt.Sprintf("%s_%02d", s.id, r+1),
				Name:    rank.name + " of " + s.name,
				Meaning: rank.theme + " " + s.domain + ".",
			})
		}
	}
	return NewDeck(cards)
}
