package services

import "github.com/dossbaby/dream-storybook-sub001/internal/domain"

// Stage is one state of a generation run.
type Stage string

const (
	StageIdle             Stage = "idle"
	StageAnimating        Stage = "animating"
	StageGeneratingText   Stage = "generating_text"
	StageRevealingText    Stage = "revealing_text"
	StageGeneratingImages Stage = "generating_images"
	StageAssembling       Stage = "assembling"
	StageComplete         Stage = "complete"
	StageFailed           Stage = "failed"
)

// Event is a coarse progress report. Step and Total are set for the
// animating and generating_images stages.
type Event struct {
	Stage   Stage       `json:"stage"`
	Message string      `json:"message"`
	Step    int         `json:"step,omitempty"`
	Total   int         `json:"total,omitempty"`
	Slot    domain.Slot `json:"slot,omitempty"`
}

// ProgressFunc receives events in order on the generating goroutine.
type ProgressFunc func(Event)

// User-visible messages for fatal failures.
const (
	MsgConfigurationRequired = "configuration required"
	MsgGenerationFailed      = "reading generation failed"
)

var flavorMessages = map[domain.Kind][5]string{
	domain.KindDream: {
		"Drifting into the dream...",
		"Gathering the scattered images...",
		"Listening to what the symbols whisper...",
		"Tracing the threads back to waking life...",
		"Writing down your dream story...",
	},
	domain.KindTarot: {
		"Shuffling the deck...",
		"Laying out your three cards...",
		"Drawing the card that closes the spread...",
		"Reading the cards side by side...",
		"Putting the message into words...",
	},
	domain.KindFortune: {
		"Reading the flow of the year...",
		"Weighing the five elements...",
		"Looking at the season ahead...",
		"Finding your lucky signs...",
		"Writing your fortune...",
	},
}

// FlavorMessages returns the fixed animation messages for k.
func FlavorMessages(k domain.Kind) []string {
	m := flavorMessages[k]
	return m[:]
}

var slotMessages = map[domain.Slot]string{
	domain.SlotHero:       "Painting the cover",
	domain.SlotDream:      "Painting the dream scene",
	domain.SlotTarot:      "Painting the dream card",
	domain.SlotMeaning:    "Painting the meaning",
	domain.SlotCard1:      "Painting the first card",
	domain.SlotCard2:      "Painting the second card",
	domain.SlotCard3:      "Painting the third card",
	domain.SlotConclusion: "Painting the conclusion card",
	domain.SlotElement:    "Painting your element",
	domain.SlotFlow:       "Painting the year's journey",
	domain.SlotGuidance:   "Painting the guidance",
}
