package prompt

import (
	"fmt"
	"strings"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

// FieldType is the JSON value type the model must produce for a key.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeKeywords FieldType = "keywords"
)

// Field describes one top-level key of the JSON object a kind expects.
// Section fields end up in GenerationResult.Sections under their key.
type Field struct {
	Key     string
	Type    FieldType
	MinLen  int
	Section bool
	Image   bool
	Desc    string
}

// Keyword list bounds shared by every kind.
const (
	MinKeywords = 3
	MaxKeywords = 5
)

var commonHead = []Field{
	{Key: "title", Type: TypeString, MinLen: 4, Desc: "a short evocative title"},
	{Key: "verdict", Type: TypeString, MinLen: 20, Desc: "one-sentence overall verdict"},
	{Key: "summary", Type: TypeString, MinLen: 80, Desc: "a compact summary of the whole reading"},
	{Key: "keywords", Type: TypeKeywords, MinLen: MinKeywords, Desc: "symbols with their meaning"},
}

var kindSections = map[domain.Kind][]Field{
	domain.KindDream: {
		{Key: "storyline", Type: TypeString, MinLen: 200, Section: true, Desc: "retell the dream as a short story"},
		{Key: "psychology", Type: TypeString, MinLen: 200, Section: true, Desc: "what the dream says about the dreamer's inner state"},
		{Key: "symbolism", Type: TypeString, MinLen: 150, Section: true, Desc: "how the key symbols connect"},
		{Key: "advice", Type: TypeString, MinLen: 100, Section: true, Desc: "gentle, practical guidance for the coming days"},
	},
	domain.KindTarot: {
		{Key: "card1Reading", Type: TypeString, MinLen: 150, Section: true, Desc: "the first card read as the past"},
		{Key: "card2Reading", Type: TypeString, MinLen: 150, Section: true, Desc: "the second card read as the present"},
		{Key: "card3Reading", Type: TypeString, MinLen: 150, Section: true, Desc: "the third card read as the future"},
		{Key: "conclusionReading", Type: TypeString, MinLen: 150, Section: true, Desc: "the conclusion card tying the spread together"},
		{Key: "advice", Type: TypeString, MinLen: 100, Section: true, Desc: "an answer to the question with concrete next steps"},
	},
	domain.KindFortune: {
		{Key: "yearFlow", Type: TypeString, MinLen: 200, Section: true, Desc: "how the year unfolds season by season"},
		{Key: "categoryFocus", Type: TypeString, MinLen: 200, Section: true, Desc: "the selected focus area in depth"},
		{Key: "element", Type: TypeString, MinLen: 100, Section: true, Desc: "the dominant element and what it brings"},
		{Key: "luckyTips", Type: TypeString, MinLen: 80, Section: true, Desc: "lucky colors, directions and habits"},
		{Key: "guidance", Type: TypeString, MinLen: 100, Section: true, Desc: "a closing message of guidance"},
	},
}

var slotDesc = map[domain.Slot]string{
	domain.SlotHero:       "the cover illustration of the whole reading",
	domain.SlotDream:      "the most vivid scene of the dream",
	domain.SlotTarot:      "a tarot-card style depiction of the dream's message",
	domain.SlotMeaning:    "a symbolic scene showing the dream's meaning",
	domain.SlotCard1:      "the first card as a scene",
	domain.SlotCard2:      "the second card as a scene",
	domain.SlotCard3:      "the third card as a scene",
	domain.SlotConclusion: "the conclusion card as a scene",
	domain.SlotElement:    "the dominant element as a landscape",
	domain.SlotFlow:       "the flow of the year as a journey",
	domain.SlotGuidance:   "the guiding message as a hopeful scene",
}

// CharacterKey is the key carrying the shared character description that
// keeps every image of a reading consistent.
const CharacterKey = "characterDescription"

// Schema returns the ordered top-level fields required for kind k.
func Schema(k domain.Kind) []Field {
	fields := make([]Field, 0, 16)
	fields = append(fields, commonHead...)
	fields = append(fields, kindSections[k]...)
	fields = append(fields, Field{Key: CharacterKey, Type: TypeString, MinLen: 20, Desc: "the main character's look, in English, reused for every image"})
	for _, s := range k.Slots() {
		fields = append(fields, Field{Key: s.PromptKey(), Type: TypeString, MinLen: 20, Image: true, Desc: "English scene description for " + slotDesc[s]})
	}
	return fields
}

func writeSchema(b *strings.Builder, k domain.Kind) {
	b.WriteString("Respond with exactly one JSON object and nothing else. It must contain these keys:\n")
	for _, f := range Schema(k) {
		switch f.Type {
		case TypeKeywords:
			fmt.Fprintf(b, "- %q: array of %d to %d objects {\"word\": string, \"meaning\": string}; %s\n", f.Key, MinKeywords, MaxKeywords, f.Desc)
		default:
			fmt.Fprintf(b, "- %q: string, at least %d characters; %s\n", f.Key, f.MinLen, f.Desc)
		}
	}
	b.WriteString("\nFormatting rules:\n")
	b.WriteString("- Do not use markdown emphasis (*, _, #) or bullet or numbered lists inside any string value.\n")
	b.WriteString("- Write narrative fields as flowing paragraphs separated by blank lines.\n")
	b.WriteString("- Do not add keys that are not listed. Do not wrap the object in code fences.\n")
}
