// Package services – ReadingService
//
// This file implements ReadingService, the orchestrator that turns a reading
// request into a GenerationResult: prompt building, one text generation
// call, a throttled sequence of image calls (overlapped with the detailed
// analysis call for dreams) and assembly. Progress is reported through a
// ProgressFunc as the run moves through its stages.
//
// Only configuration and text generation errors are fatal. Image failures
// leave their slot nil and the run continues.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
	"github.com/dossbaby/dream-storybook-sub001/internal/imagegen"
	"github.com/dossbaby/dream-storybook-sub001/internal/observability"
	"github.com/dossbaby/dream-storybook-sub001/internal/prompt"
)

// TextGenerator is the text model contract (implemented by *llm.Client).
type TextGenerator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string, maxTokens int) (map[string]any, error)
}

// ImageGenerator is the image model contract (implemented by *imagegen.Client).
// Generate returns nil on failure.
type ImageGenerator interface {
	Configured() bool
	Generate(ctx context.Context, scene string, style imagegen.Style, character string) *string
}

// ReadingOptions tunes pacing and limits of a ReadingService.
type ReadingOptions struct {
	ImageInterval    time.Duration
	ImageConcurrency int
	AnimationStep    time.Duration
	RevealDelay      time.Duration
	MaxInputRunes    int
	AutoSave         bool
}

// ReadingService orchestrates generation runs. It is safe for concurrent
// use; runs share only the image concurrency gate.
type ReadingService struct {
	Prompts *prompt.Builder
	Text    TextGenerator
	Images  ImageGenerator
	Saves   *SaveTasks

	// ImageGate caps in-flight image calls across all runs.
	ImageGate *semaphore.Weighted

	ImageInterval time.Duration
	AnimationStep time.Duration
	RevealDelay   time.Duration
	MaxInputRunes int
	AutoSave      bool
}

// NewReadingService wires a ReadingService. saves may be nil to disable
// auto-save.
func NewReadingService(b *prompt.Builder, text TextGenerator, images ImageGenerator, saves *SaveTasks, opts ReadingOptions) *ReadingService {
	if b == nil {
		b = prompt.NewBuilder(nil)
	}
	n := opts.ImageConcurrency
	if n < 1 {
		n = 1
	}
	return &ReadingService{
		Prompts:       b,
		Text:          text,
		Images:        images,
		Saves:         saves,
		ImageGate:     semaphore.NewWeighted(int64(n)),
		ImageInterval: opts.ImageInterval,
		AnimationStep: opts.AnimationStep,
		RevealDelay:   opts.RevealDelay,
		MaxInputRunes: opts.MaxInputRunes,
		AutoSave:      opts.AutoSave,
	}
}

// Configured reports whether both API keys are present.
func (s *ReadingService) Configured() bool {
	return s.Text != nil && s.Text.Configured() && s.Images != nil && s.Images.Configured()
}

// Generate runs the full pipeline for req. When userID is non-empty and
// auto-save is on, the returned SaveTask persists the result in the
// background with public visibility; otherwise the task is nil.
func (s *ReadingService) Generate(ctx context.Context, userID string, req domain.ReadingRequest, progress ProgressFunc) (*domain.GenerationResult, *SaveTask, error) {
	tr := otel.Tracer("services/ReadingService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("reading.kind", string(req.Kind)),
			attribute.Bool("user.authenticated", userID != ""),
		),
	)
	defer span.End()

	emit := func(e Event) {
		observability.StageEvent(ctx, string(req.Kind), string(e.Stage), e.Step)
		if progress != nil {
			progress(e)
		}
	}
	started := time.Now()
	kind := string(req.Kind)
	log := zerolog.Ctx(ctx)

	fail := func(outcome string, err error) (*domain.GenerationResult, *SaveTask, error) {
		msg := MsgGenerationFailed
		if errors.Is(err, ErrConfiguration) {
			msg = MsgConfigurationRequired
		}
		emit(Event{Stage: StageFailed, Message: msg})
		observability.ObserveGeneration(kind, outcome, started)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, nil, err
	}

	if !s.Configured() {
		return fail("configuration", ErrConfiguration)
	}

	req, err := s.normalize(req)
	if err != nil {
		observability.ObserveGeneration(kind, "invalid", started)
		return nil, nil, err
	}
	p, err := s.Prompts.Build(req)
	if err != nil {
		observability.ObserveGeneration(kind, "invalid", started)
		return nil, nil, err
	}

	// animating
	flavor := FlavorMessages(req.Kind)
	for i, msg := range flavor {
		emit(Event{Stage: StageAnimating, Message: msg, Step: i + 1, Total: len(flavor)})
		if i < len(flavor)-1 {
			if err := pause(ctx, s.AnimationStep); err != nil {
				return fail("canceled", err)
			}
		}
	}

	// generating_text
	emit(Event{Stage: StageGeneratingText, Message: "Writing your reading"})
	obj, err := s.generateText(ctx, p)
	if err != nil {
		outcome := "upstream"
		switch {
		case errors.Is(err, ErrConfiguration):
			outcome = "configuration"
		case errors.Is(err, ErrMalformedResponse):
			outcome = "malformed"
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			outcome = "canceled"
		}
		if outcome == "upstream" {
			err = fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		}
		log.Error().Err(err).Str("kind", kind).Msg("text generation failed")
		return fail(outcome, err)
	}
	parsed := parseReading(req.Kind, obj)
	if len(parsed.Missing) > 0 {
		log.Warn().Str("kind", kind).Strs("missing", parsed.Missing).Msg("model response incomplete")
	}

	// revealing_text
	emit(Event{Stage: StageRevealingText, Message: "Revealing your reading"})
	if req.Kind == domain.KindTarot {
		if err := pause(ctx, s.RevealDelay); err != nil {
			return fail("canceled", err)
		}
	}

	// generating_images, overlapped with the dream analysis
	var (
		g        errgroup.Group
		analysis string
	)
	if req.Kind == domain.KindDream {
		g.Go(func() error {
			analysis = s.detailedAnalysis(ctx, req, parsed)
			return nil
		})
	}
	images := s.generateImages(ctx, req.Kind, p.Slots, parsed, emit)
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return fail("canceled", err)
	}

	// assembling
	emit(Event{Stage: StageAssembling, Message: "Putting it all together"})
	result := &domain.GenerationResult{
		Kind:                 req.Kind,
		Title:                parsed.Title,
		Verdict:              parsed.Verdict,
		Summary:              parsed.Summary,
		Keywords:             parsed.Keywords,
		Sections:             parsed.Sections,
		DetailedAnalysis:     analysis,
		CharacterDescription: parsed.Character,
		Input:                req.FreeText,
		ConclusionCard:       p.ConclusionCard,
		Category:             req.Category,
		Images:               images,
		Missing:              parsed.Missing,
		CreatedAt:            time.Now().UTC(),
	}
	if req.Kind == domain.KindTarot {
		result.Cards = make([]domain.CardRef, len(req.Cards))
		for i, c := range req.Cards {
			result.Cards[i] = s.Prompts.Deck.Resolve(c)
		}
	}

	// complete
	emit(Event{Stage: StageComplete, Message: "Your reading is ready"})
	observability.ObserveGeneration(kind, observability.OutcomeOK, started)
	span.SetAttributes(attribute.Int("reading.images", images.Count()))

	var task *SaveTask
	if userID != "" && s.AutoSave && s.Saves != nil {
		task = s.Saves.Start(userID, req.Profile.DisplayName(), result, domain.PublicOption())
	}
	return result, task, nil
}

// normalize cleans free text and applies the rune limit.
func (s *ReadingService) normalize(req domain.ReadingRequest) (domain.ReadingRequest, error) {
	if !req.Kind.Valid() {
		return req, ErrInvalidKind
	}
	req.FreeText = prompt.Clean(req.FreeText)
	if s.MaxInputRunes > 0 && utf8.RuneCountInString(req.FreeText) > s.MaxInputRunes {
		return req, ErrTooLong
	}
	if req.Kind == domain.KindFortune {
		c, err := domain.ParseFortuneCategory(string(req.Category))
		if err != nil {
			return req, err
		}
		req.Category = c
	}
	return req, req.Validate()
}

func (s *ReadingService) generateText(ctx context.Context, p prompt.Prompt) (map[string]any, error) {
	ctx, span := otel.Tracer("services/ReadingService").Start(ctx, "generateText",
		trace.WithAttributes(attribute.Int("prompt.max_tokens", p.MaxTokens)),
	)
	defer span.End()
	obj, err := s.Text.Generate(ctx, p.Text, p.MaxTokens)
	if err != nil {
		span.RecordError(err)
	}
	return obj, err
}

// generateImages calls the image model once per slot in order. Calls are
// spaced by ImageInterval and gated by ImageGate. A slot without a scene
// is skipped without a call.
func (s *ReadingService) generateImages(ctx context.Context, kind domain.Kind, slots []domain.Slot, parsed parsedReading, emit ProgressFunc) domain.ImageSet {
	ctx, span := otel.Tracer("services/ReadingService").Start(ctx, "generateImages",
		trace.WithAttributes(attribute.Int("image.slots", len(slots))),
	)
	defer span.End()

	images := make(domain.ImageSet, len(slots))
	for _, slot := range slots {
		images[slot] = nil
	}

	limit := rate.Inf
	if s.ImageInterval > 0 {
		limit = rate.Every(s.ImageInterval)
	}
	spacing := rate.NewLimiter(limit, 1)
	style := imagegen.StyleFor(kind)

	for i, slot := range slots {
		emit(Event{
			Stage:   StageGeneratingImages,
			Message: fmt.Sprintf("%s (%d/%d)", slotMessages[slot], i+1, len(slots)),
			Step:    i + 1,
			Total:   len(slots),
			Slot:    slot,
		})

		scene := strings.TrimSpace(parsed.Scenes[slot])
		if scene == "" {
			observability.ImageSlots.WithLabelValues(string(kind), observability.OutcomeSkipped).Inc()
			continue
		}
		if err := spacing.Wait(ctx); err != nil {
			break
		}
		if err := s.ImageGate.Acquire(ctx, 1); err != nil {
			break
		}
		handle := s.Images.Generate(ctx, scene, style, parsed.Character)
		s.ImageGate.Release(1)

		if handle == nil {
			observability.ImageSlots.WithLabelValues(string(kind), observability.OutcomeFailed).Inc()
			continue
		}
		observability.ImageSlots.WithLabelValues(string(kind), observability.OutcomeOK).Inc()
		images[slot] = handle
	}
	return images
}

// detailedAnalysis runs the secondary dream call. Failures are logged and
// yield "".
func (s *ReadingService) detailedAnalysis(ctx context.Context, req domain.ReadingRequest, parsed parsedReading) string {
	ctx, span := otel.Tracer("services/ReadingService").Start(ctx, "detailedAnalysis")
	defer span.End()

	p := s.Prompts.BuildAnalysis(req, parsed.Title, parsed.Keywords)
	obj, err := s.Text.Generate(ctx, p.Text, p.MaxTokens)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Warn().Err(err).Msg("detailed analysis failed")
		return ""
	}
	v, _ := stringField(obj, prompt.AnalysisKey)
	return stripEmphasis(v)
}

// pause sleeps for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
