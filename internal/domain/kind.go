// Package domain defines the reading kinds, the transient request/result
// shapes exchanged with the generation pipeline, and the GORM persistence
// models shared by the repository and service layers.
package domain

import "strings"

// Kind is the closed category of a reading.
type Kind string

const (
	KindDream   Kind = "dream"
	KindTarot   Kind = "tarot"
	KindFortune Kind = "fortune"
)

// Slot names one position in the fixed image set a kind requires.
type Slot string

const (
	SlotHero       Slot = "hero"
	SlotDream      Slot = "dream"
	SlotTarot      Slot = "tarot"
	SlotMeaning    Slot = "meaning"
	SlotCard1      Slot = "card1"
	SlotCard2      Slot = "card2"
	SlotCard3      Slot = "card3"
	SlotConclusion Slot = "conclusion"
	SlotElement    Slot = "element"
	SlotFlow       Slot = "flow"
	SlotGuidance   Slot = "guidance"
)

// PromptKey is the JSON key under which the text model returns the scene
// description for this slot (e.g. "heroImagePrompt").
func (s Slot) PromptKey() string { return string(s) + "ImagePrompt" }

var kindSlots = map[Kind][]Slot{
	KindDream:   {SlotHero, SlotDream, SlotTarot, SlotMeaning},
	KindTarot:   {SlotHero, SlotCard1, SlotCard2, SlotCard3, SlotConclusion},
	KindFortune: {SlotHero, SlotElement, SlotFlow, SlotGuidance},
}

var anonymousNames = map[Kind]string{
	KindDream:   "Anonymous Dreamer",
	KindTarot:   "Anonymous Seeker",
	KindFortune: "Anonymous Traveler",
}

// Kinds lists every supported kind in a stable order.
func Kinds() []Kind { return []Kind{KindDream, KindTarot, KindFortune} }

// ParseKind normalizes s and returns the matching Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", ErrUnknownKind
	}
	return k, nil
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	_, ok := kindSlots[k]
	return ok
}

// Slots returns the ordered image slots for k. The returned slice is a copy.
func (k Kind) Slots() []Slot {
	src := kindSlots[k]
	out := make([]Slot, len(src))
	copy(out, src)
	return out
}

// Collection is the logical document collection for k.
func (k Kind) Collection() string { return string(k) + "_readings" }

// BlobPrefix is the top-level blob storage folder for k ("dreams", "tarots", ...).
func (k Kind) BlobPrefix() string { return string(k) + "s" }

// AnonymousName is the fixed display label used when an owner shares anonymously.
func (k Kind) AnonymousName() string { return anonymousNames[k] }
