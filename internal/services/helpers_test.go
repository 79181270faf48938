package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
	"github.com/dossbaby/dream-storybook-sub001/internal/imagegen"
	"github.com/dossbaby/dream-storybook-sub001/internal/prompt"
	"github.com/dossbaby/dream-storybook-sub001/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// fixture builds a complete model response for kind. Keys listed in omit
// are left out.
func fixture(t *testing.T, kind domain.Kind, omit ...string) map[string]any {
	t.Helper()
	skip := map[string]bool{}
	for _, k := range omit {
		skip[k] = true
	}
	obj := map[string]any{}
	for _, f := range prompt.Schema(kind) {
		if skip[f.Key] {
			continue
		}
		switch {
		case f.Type == prompt.TypeKeywords:
			obj[f.Key] = []any{
				map[string]any{"word": "ocean", "meaning": "depth of feeling"},
				map[string]any{"word": "wings", "meaning": "freedom"},
				map[string]any{"word": "night", "meaning": "the unknown"},
			}
		case f.Image:
			obj[f.Key] = "scene:" + strings.TrimSuffix(f.Key, "ImagePrompt")
		default:
			obj[f.Key] = "text for " + f.Key
		}
	}
	// Round-trip through JSON so values have decoder types.
	raw, err := json.Marshal(obj)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	return out
}

type fakeText struct {
	configured bool
	respond    func(prompt string) (map[string]any, error)

	calls   atomic.Int32
	mu      sync.Mutex
	prompts []string
}

func (f *fakeText) Configured() bool { return f.configured }

func (f *fakeText) Generate(_ context.Context, p string, _ int) (map[string]any, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.prompts = append(f.prompts, p)
	f.mu.Unlock()
	return f.respond(p)
}

type fakeImages struct {
	configured bool
	fail       bool
	delay      time.Duration

	calls    atomic.Int32
	inflight atomic.Int32
	maxSeen  atomic.Int32
	mu       sync.Mutex
	scenes   []string
	styles   []imagegen.Style
}

func (f *fakeImages) Configured() bool { return f.configured }

func (f *fakeImages) Generate(_ context.Context, scene string, style imagegen.Style, _ string) *string {
	f.calls.Add(1)
	n := f.inflight.Add(1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	defer f.inflight.Add(-1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.scenes = append(f.scenes, scene)
	f.styles = append(f.styles, style)
	f.mu.Unlock()

	if f.fail {
		return nil
	}
	h := "blob:" + strings.TrimPrefix(scene, "scene:")
	return &h
}

func (f *fakeImages) Scenes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.scenes...)
}

type fakeSaver struct {
	mu    sync.Mutex
	calls int
	opt   domain.VisibilityOption
	id    string
	ok    bool
}

func (f *fakeSaver) Save(_ context.Context, _, _ string, _ *domain.GenerationResult, opt domain.VisibilityOption) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.opt = opt
	return f.id, f.ok
}

type seqRNG struct{ v int }

func (s seqRNG) Intn(n int) int { return s.v % n }

func newTestReadingService(text TextGenerator, images ImageGenerator, saves *SaveTasks) *ReadingService {
	b := prompt.NewBuilder(seqRNG{v: 7})
	b.Now = func() time.Time { return time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC) }
	return NewReadingService(b, text, images, saves, ReadingOptions{
		ImageConcurrency: 2,
		MaxInputRunes:    4000,
		AutoSave:         true,
	})
}

// seedReading inserts a saved reading directly.
func seedReading(t *testing.T, db *gorm.DB, id, owner string, kind domain.Kind, vis domain.Visibility, title string, at time.Time) *domain.Reading {
	t.Helper()
	r := &domain.Reading{
		ID:          id,
		Kind:        kind,
		OwnerID:     owner,
		OwnerName:   "Name " + owner,
		DisplayName: "Name " + owner,
		Title:       title,
		Visibility:  vis,
		IsPublic:    vis == domain.VisibilityPublic,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	if err := repo.CreateReading(context.Background(), db, r); err != nil {
		t.Fatalf("seed reading: %v", err)
	}
	return r
}
