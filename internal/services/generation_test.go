package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
	"github.com/dossbaby/dream-storybook-sub001/internal/imagegen"
	"github.com/dossbaby/dream-storybook-sub001/internal/llm"
	"github.com/dossbaby/dream-storybook-sub001/internal/observability"
	"github.com/dossbaby/dream-storybook-sub001/internal/prompt"
)

func respondWith(t *testing.T, kind domain.Kind, omit ...string) func(string) (map[string]any, error) {
	obj := fixture(t, kind, omit...)
	return func(p string) (map[string]any, error) {
		if strings.Contains(p, prompt.AnalysisKey) {
			return map[string]any{prompt.AnalysisKey: "a **long** analysis"}, nil
		}
		return obj, nil
	}
}

func requestFor(kind domain.Kind) domain.ReadingRequest {
	switch kind {
	case domain.KindTarot:
		return domain.ReadingRequest{
			Kind:     kind,
			FreeText: "Will I move abroad?",
			Cards:    []domain.CardRef{{ID: "major_0"}, {ID: "major_1"}, {ID: "cups_05"}},
		}
	case domain.KindFortune:
		return domain.ReadingRequest{Kind: kind, Category: "Career"}
	}
	return domain.ReadingRequest{Kind: domain.KindDream, FreeText: "I dreamed I was flying over the ocean"}
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) add(e Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) stages() []Stage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Stage, len(l.events))
	for i, e := range l.events {
		out[i] = e.Stage
	}
	return out
}

func TestGenerate_DreamEndToEnd(t *testing.T) {
	text := &fakeText{configured: true, respond: respondWith(t, domain.KindDream)}
	images := &fakeImages{configured: true}
	s := newTestReadingService(text, images, nil)
	var log eventLog

	res, task, err := s.Generate(context.Background(), "", requestFor(domain.KindDream), log.add)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if task != nil {
		t.Fatalf("anonymous run must not auto-save")
	}

	// Generic addressing in the main prompt.
	main := text.prompts[0]
	if strings.Contains(main, prompt.AnalysisKey) {
		main = text.prompts[1]
	}
	if !strings.Contains(main, "second person") || strings.Contains(main, "by name as") {
		t.Fatalf("dream prompt should address the reader generically")
	}

	if len(res.Keywords) != 3 {
		t.Fatalf("keywords = %d; want 3", len(res.Keywords))
	}
	want := []string{"scene:hero", "scene:dream", "scene:tarot", "scene:meaning"}
	got := images.Scenes()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("image calls = %v; want %v", got, want)
	}
	for _, st := range images.styles {
		if st != imagegen.StyleDream {
			t.Fatalf("wrong style %q", st)
		}
	}
	if res.Images.Count() != 4 {
		t.Fatalf("images = %d; want 4", res.Images.Count())
	}
	if res.DetailedAnalysis != "a long analysis" {
		t.Fatalf("DetailedAnalysis = %q", res.DetailedAnalysis)
	}
	if text.calls.Load() != 2 {
		t.Fatalf("text calls = %d; want 2 (reading + analysis)", text.calls.Load())
	}
	if res.Input != "I dreamed I was flying over the ocean" || res.Sections["storyline"] != "text for storyline" {
		t.Fatalf("text fields not carried over: %+v", res)
	}

	wantStages := []Stage{
		StageAnimating, StageAnimating, StageAnimating, StageAnimating, StageAnimating,
		StageGeneratingText, StageRevealingText,
		StageGeneratingImages, StageGeneratingImages, StageGeneratingImages, StageGeneratingImages,
		StageAssembling, StageComplete,
	}
	st := log.stages()
	if len(st) != len(wantStages) {
		t.Fatalf("stages = %v", st)
	}
	for i := range st {
		if st[i] != wantStages[i] {
			t.Fatalf("stage %d = %s; want %s (all: %v)", i, st[i], wantStages[i], st)
		}
	}
}

func TestGenerate_SlotCountFixedPerKind(t *testing.T) {
	for _, kind := range domain.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			first := kind.Slots()[1]
			text := &fakeText{configured: true, respond: respondWith(t, kind, first.PromptKey(), "summary")}
			images := &fakeImages{configured: true}
			s := newTestReadingService(text, images, nil)

			before := testutil.ToFloat64(observability.ImageSlots.WithLabelValues(string(kind), observability.OutcomeSkipped))
			res, _, err := s.Generate(context.Background(), "", requestFor(kind), nil)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if len(res.Images) != len(kind.Slots()) {
				t.Fatalf("slots = %d; want %d", len(res.Images), len(kind.Slots()))
			}
			if v, ok := res.Images[first]; !ok || v != nil {
				t.Fatalf("slot %s should be present and nil", first)
			}
			if int(images.calls.Load()) != len(kind.Slots())-1 {
				t.Fatalf("image calls = %d; want %d", images.calls.Load(), len(kind.Slots())-1)
			}
			missing := strings.Join(res.Missing, ",")
			if !strings.Contains(missing, first.PromptKey()) || !strings.Contains(missing, "summary") {
				t.Fatalf("Missing = %v", res.Missing)
			}
			after := testutil.ToFloat64(observability.ImageSlots.WithLabelValues(string(kind), observability.OutcomeSkipped))
			if after-before != 1 {
				t.Fatalf("skipped metric delta = %v; want 1", after-before)
			}
		})
	}
}

func TestGenerate_ImagesAlwaysNil_StillCompletes(t *testing.T) {
	text := &fakeText{configured: true, respond: respondWith(t, domain.KindFortune)}
	images := &fakeImages{configured: true, fail: true}
	s := newTestReadingService(text, images, nil)

	res, _, err := s.Generate(context.Background(), "", requestFor(domain.KindFortune), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Title == "" || res.Images.Count() != 0 || len(res.Images) != 4 {
		t.Fatalf("unexpected result: title=%q images=%v", res.Title, res.Images)
	}
	if res.Category != domain.FortuneCareer {
		t.Fatalf("category = %q", res.Category)
	}
}

func TestGenerate_NoKeys_ZeroNetworkCalls(t *testing.T) {
	for _, kind := range domain.Kinds() {
		text := &fakeText{respond: respondWith(t, kind)}
		images := &fakeImages{}
		s := newTestReadingService(text, images, nil)
		var log eventLog

		_, _, err := s.Generate(context.Background(), "u1", requestFor(kind), log.add)
		if !errors.Is(err, ErrConfiguration) || !errors.Is(err, llm.ErrConfiguration) {
			t.Fatalf("%s: want ErrConfiguration, got %v", kind, err)
		}
		if text.calls.Load() != 0 || images.calls.Load() != 0 {
			t.Fatalf("%s: network calls made: text=%d images=%d", kind, text.calls.Load(), images.calls.Load())
		}
		if len(log.events) != 1 || log.events[0].Stage != StageFailed || log.events[0].Message != MsgConfigurationRequired {
			t.Fatalf("%s: events = %+v", kind, log.events)
		}
	}

	// One key is not enough.
	text := &fakeText{configured: true, respond: respondWith(t, domain.KindDream)}
	s := newTestReadingService(text, &fakeImages{}, nil)
	if _, _, err := s.Generate(context.Background(), "", requestFor(domain.KindDream), nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("missing image key: want ErrConfiguration, got %v", err)
	}
	if text.calls.Load() != 0 {
		t.Fatalf("text called without image key")
	}
}

func TestGenerate_MalformedIsFatal(t *testing.T) {
	text := &fakeText{configured: true, respond: func(string) (map[string]any, error) {
		return nil, llm.ErrMalformedResponse
	}}
	images := &fakeImages{configured: true}
	s := newTestReadingService(text, images, nil)
	var log eventLog

	res, task, err := s.Generate(context.Background(), "u1", requestFor(domain.KindTarot), log.add)
	if !errors.Is(err, ErrMalformedResponse) || res != nil || task != nil {
		t.Fatalf("want malformed failure, got res=%v task=%v err=%v", res, task, err)
	}
	if images.calls.Load() != 0 {
		t.Fatalf("images generated after fatal text error")
	}
	last := log.events[len(log.events)-1]
	if last.Stage != StageFailed || last.Message != MsgGenerationFailed {
		t.Fatalf("last event = %+v", last)
	}
}

func TestGenerate_UpstreamErrorWrapped(t *testing.T) {
	text := &fakeText{configured: true, respond: func(string) (map[string]any, error) {
		return nil, llm.ErrUpstream
	}}
	s := newTestReadingService(text, &fakeImages{configured: true}, nil)
	_, _, err := s.Generate(context.Background(), "", requestFor(domain.KindDream), nil)
	if !errors.Is(err, ErrGenerationFailed) || !errors.Is(err, llm.ErrUpstream) {
		t.Fatalf("want wrapped upstream error, got %v", err)
	}
}

func TestGenerate_AnalysisFailureIsNonFatal(t *testing.T) {
	obj := fixture(t, domain.KindDream)
	text := &fakeText{configured: true, respond: func(p string) (map[string]any, error) {
		if strings.Contains(p, prompt.AnalysisKey) {
			return nil, errors.New("boom")
		}
		return obj, nil
	}}
	s := newTestReadingService(text, &fakeImages{configured: true}, nil)
	res, _, err := s.Generate(context.Background(), "", requestFor(domain.KindDream), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.DetailedAnalysis != "" || res.Images.Count() != 4 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestGenerate_TarotCardsAndConclusion(t *testing.T) {
	text := &fakeText{configured: true, respond: respondWith(t, domain.KindTarot)}
	images := &fakeImages{configured: true}
	s := newTestReadingService(text, images, nil)

	res, _, err := s.Generate(context.Background(), "", requestFor(domain.KindTarot), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Cards) != 3 || res.Cards[0].Name != "The Fool" {
		t.Fatalf("cards not resolved: %+v", res.Cards)
	}
	if res.ConclusionCard == nil {
		t.Fatalf("missing conclusion card")
	}
	for _, c := range res.Cards {
		if c.ID == res.ConclusionCard.ID {
			t.Fatalf("conclusion card %s is one of the selected cards", c.ID)
		}
	}
	if images.calls.Load() != 5 {
		t.Fatalf("image calls = %d; want 5", images.calls.Load())
	}
}

func TestGenerate_ValidationErrors(t *testing.T) {
	text := &fakeText{configured: true, respond: respondWith(t, domain.KindDream)}
	s := newTestReadingService(text, &fakeImages{configured: true}, nil)
	s.MaxInputRunes = 5

	cases := []struct {
		req  domain.ReadingRequest
		want error
	}{
		{domain.ReadingRequest{Kind: "palm"}, ErrInvalidKind},
		{domain.ReadingRequest{Kind: domain.KindDream, FreeText: " \x00 "}, ErrEmptyInput},
		{domain.ReadingRequest{Kind: domain.KindDream, FreeText: "too long text"}, ErrTooLong},
		{domain.ReadingRequest{Kind: domain.KindFortune, Category: "fame"}, ErrInvalidCategory},
		{domain.ReadingRequest{Kind: domain.KindTarot, FreeText: "q", Cards: []domain.CardRef{{ID: "a"}}}, ErrInvalidCards},
	}
	for _, c := range cases {
		if _, _, err := s.Generate(context.Background(), "", c.req, nil); !errors.Is(err, c.want) {
			t.Fatalf("%+v: want %v, got %v", c.req, c.want, err)
		}
	}
	if text.calls.Load() != 0 {
		t.Fatalf("text called for invalid requests")
	}
}

func TestGenerate_ImageConcurrencyCappedAcrossRuns(t *testing.T) {
	text := &fakeText{configured: true, respond: respondWith(t, domain.KindFortune)}
	images := &fakeImages{configured: true, delay: 5 * time.Millisecond}
	s := newTestReadingService(text, images, nil)
	s = NewReadingService(s.Prompts, text, images, nil, ReadingOptions{ImageConcurrency: 1})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := s.Generate(context.Background(), "", requestFor(domain.KindFortune), nil); err != nil {
				t.Errorf("Generate: %v", err)
			}
		}()
	}
	wg.Wait()

	if images.calls.Load() != 16 {
		t.Fatalf("image calls = %d; want 16", images.calls.Load())
	}
	if images.maxSeen.Load() != 1 {
		t.Fatalf("max concurrent image calls = %d; want 1", images.maxSeen.Load())
	}
}

func TestGenerate_ImageSpacing(t *testing.T) {
	text := &fakeText{configured: true, respond: respondWith(t, domain.KindFortune)}
	images := &fakeImages{configured: true}
	s := newTestReadingService(text, images, nil)
	s.ImageInterval = 20 * time.Millisecond

	start := time.Now()
	if _, _, err := s.Generate(context.Background(), "", requestFor(domain.KindFortune), nil); err != nil {
		t.Fatal(err)
	}
	// Four calls need three gaps.
	if el := time.Since(start); el < 50*time.Millisecond {
		t.Fatalf("image calls not spaced: %v", el)
	}
}

func TestGenerate_CanceledDuringAnimation(t *testing.T) {
	text := &fakeText{configured: true, respond: respondWith(t, domain.KindDream)}
	s := newTestReadingService(text, &fakeImages{configured: true}, nil)
	s.AnimationStep = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	var log eventLog
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, _, err := s.Generate(ctx, "", requestFor(domain.KindDream), log.add)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if text.calls.Load() != 0 {
		t.Fatalf("text called after cancellation")
	}
}

func TestGenerate_AutoSaveForSignedInUser(t *testing.T) {
	text := &fakeText{configured: true, respond: respondWith(t, domain.KindDream)}
	saver := &fakeSaver{id: "doc-1", ok: true}
	tasks := NewSaveTasks(saver, 0, time.Second)
	s := newTestReadingService(text, &fakeImages{configured: true}, tasks)

	_, task, err := s.Generate(context.Background(), "u1", requestFor(domain.KindDream), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if task == nil {
		t.Fatalf("expected a save task")
	}
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("save task did not finish")
	}
	if id, ok := task.Result(); id != "doc-1" || !ok {
		t.Fatalf("Result = %q, %v", id, ok)
	}
	if vis, _, _ := saver.opt.Resolve(); vis != domain.VisibilityPublic {
		t.Fatalf("auto-save visibility = %s; want public", vis)
	}

	s.AutoSave = false
	if _, task, _ := s.Generate(context.Background(), "u1", requestFor(domain.KindDream), nil); task != nil {
		t.Fatalf("auto-save disabled but task started")
	}
}
