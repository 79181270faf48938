package services

import (
	"strings"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
	"github.com/dossbaby/dream-storybook-sub001/internal/prompt"
)

// parsedReading is the typed view of a model response for one kind.
type parsedReading struct {
	Title     string
	Verdict   string
	Summary   string
	Keywords  []domain.Keyword
	Sections  map[string]string
	Character string
	Scenes    map[domain.Slot]string
	Missing   []string
}

// parseReading checks obj against the schema of kind. Absent or mistyped
// keys are listed in Missing and left empty; the parse never fails.
func parseReading(kind domain.Kind, obj map[string]any) parsedReading {
	out := parsedReading{
		Sections: make(map[string]string),
		Scenes:   make(map[domain.Slot]string),
	}
	slotByKey := make(map[string]domain.Slot)
	for _, s := range kind.Slots() {
		slotByKey[s.PromptKey()] = s
	}

	for _, f := range prompt.Schema(kind) {
		if f.Type == prompt.TypeKeywords {
			kws := parseKeywords(obj[f.Key])
			if len(kws) == 0 {
				out.Missing = append(out.Missing, f.Key)
			}
			out.Keywords = kws
			continue
		}

		v, ok := stringField(obj, f.Key)
		if !ok {
			out.Missing = append(out.Missing, f.Key)
			continue
		}
		switch {
		case f.Image:
			out.Scenes[slotByKey[f.Key]] = v
		case f.Section:
			out.Sections[f.Key] = stripEmphasis(v)
		case f.Key == "title":
			out.Title = stripEmphasis(v)
		case f.Key == "verdict":
			out.Verdict = stripEmphasis(v)
		case f.Key == "summary":
			out.Summary = stripEmphasis(v)
		case f.Key == prompt.CharacterKey:
			out.Character = v
		}
	}
	return out
}

func stringField(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// parseKeywords accepts objects {word, meaning} and bare strings, capped at
// prompt.MaxKeywords.
func parseKeywords(v any) []domain.Keyword {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]domain.Keyword, 0, len(arr))
	for _, item := range arr {
		var kw domain.Keyword
		switch t := item.(type) {
		case string:
			kw.Word = strings.TrimSpace(t)
		case map[string]any:
			kw.Word, _ = stringField(t, "word")
			kw.Meaning, _ = stringField(t, "meaning")
		}
		if kw.Word == "" {
			continue
		}
		out = append(out, kw)
		if len(out) == prompt.MaxKeywords {
			break
		}
	}
	return out
}

var emphasisReplacer = strings.NewReplacer("**", "", "__", "")

// stripEmphasis removes markdown bold markers the model sometimes emits
// despite the formatting rules.
func stripEmphasis(s string) string {
	return emphasisReplacer.Replace(s)
}
