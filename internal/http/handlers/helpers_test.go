package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dossbaby/dream-storybook-sub001/internal/blob"
	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
	"github.com/dossbaby/dream-storybook-sub001/internal/http/middleware"
	"github.com/dossbaby/dream-storybook-sub001/internal/media"
	"github.com/dossbaby/dream-storybook-sub001/internal/repo"
	"github.com/dossbaby/dream-storybook-sub001/internal/services"
)

// ---------- test DB ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())

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
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seed(t *testing.T, db *gorm.DB, owner string, kind domain.Kind, vis domain.Visibility, title string) *domain.Reading {
	t.Helper()
	now := time.Now().UTC()
	r := &domain.Reading{
		ID:          uuid.NewString(),
		Kind:        kind,
		OwnerID:     owner,
		OwnerName:   "Name " + owner,
		DisplayName: "Name " + owner,
		Title:       title,
		Summary:     title,
		Visibility:  vis,
		IsPublic:    vis == domain.VisibilityPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.CreateReading(context.Background(), db, r); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return r
}

// ---------- fakes ----------

type fakeGen struct {
	configured bool
	events     []services.Event
	result     *domain.GenerationResult
	task       *services.SaveTask
	err        error

	mu      sync.Mutex
	gotUser string
	gotReq  domain.ReadingRequest
}

func (f *fakeGen) Configured() bool { return f.configured }

func (f *fakeGen) Generate(_ context.Context, userID string, req domain.ReadingRequest, progress services.ProgressFunc) (*domain.GenerationResult, *services.SaveTask, error) {
	f.mu.Lock()
	f.gotUser, f.gotReq = userID, req
	f.mu.Unlock()
	for _, e := range f.events {
		if progress != nil {
			progress(e)
		}
	}
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.result, f.task, nil
}

type stubSaver struct {
	id string
	ok bool
}

func (s stubSaver) Save(context.Context, string, string, *domain.GenerationResult, domain.VisibilityOption) (string, bool) {
	return s.id, s.ok
}

// ---------- server ----------

type testServer struct {
	db     *gorm.DB
	engine *gin.Engine
	gen    *fakeGen
	reg    *media.Registry
	tasks  *services.SaveTasks
}

type serverOption func(*Deps)

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newHandlerDB(t)
	store, err := blob.NewFSStore(t.TempDir(), "/blobs")
	if err != nil {
		t.Fatal(err)
	}
	reg := media.NewRegistry(time.Hour)
	persist := services.NewPersistenceService(db, store, reg)
	tasks := services.NewSaveTasks(persist, 0, time.Second)
	gen := &fakeGen{configured: true}

	deps := Deps{
		Generation:  gen,
		Saves:       persist,
		SaveTasks:   tasks,
		Feed:        services.NewFeedService(db),
		Engagement:  services.NewEngagementService(db),
		Idempotency: services.NewIdempotencyService(db, time.Hour),
		Media:       reg,
		MediaPath:   "/api/v1/media",
		MediaMaxAge: 30 * time.Minute,
	}
	for _, o := range opts {
		o(&deps)
	}
	h := New(deps)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Identity())
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))
	api := r.Group("/api/v1")
	{
		api.POST("/readings/:kind/generate", h.GenerateReading)
		api.POST("/readings/:kind", h.SaveReading)
		api.GET("/readings/:kind", h.ListReadings)
		api.GET("/readings/:kind/mine", h.ListMyReadings)
		api.GET("/readings/:kind/search", h.SearchReadings)
		api.GET("/readings/:kind/:id", h.GetReading)
		api.PUT("/readings/:kind/:id/visibility", h.SetVisibility)
		api.GET("/readings/:kind/:id/like", h.GetLike)
		api.POST("/readings/:kind/:id/like", h.ToggleLike)
		api.POST("/readings/:kind/:id/ratings", h.RateReading)
		api.GET("/readings/:kind/:id/comments", h.ListComments)
		api.POST("/readings/:kind/:id/comments", h.CreateComment)
		api.DELETE("/readings/:kind/:id/comments/:commentId", h.DeleteComment)
		api.GET("/save-tasks/:id", h.GetSaveTask)
		api.GET("/media/:id", h.GetMedia)
	}
	return &testServer{db: db, engine: r, gen: gen, reg: reg, tasks: tasks}
}

// do sends a request; body may be nil, a string or any JSON-encodable value.
func (s *testServer) do(t *testing.T, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func user(id string) map[string]string { return map[string]string{"X-User-ID": id} }

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v; body=%s", v, err, w.Body.String())
	}
	return v
}

func wantError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status=%d want %d; body=%s", w.Code, status, w.Body.String())
	}
	e := decode[ErrorResponse](t, w)
	if e.Code != code {
		t.Fatalf("code=%q want %q", e.Code, code)
	}
	if e.RequestID == "" {
		t.Fatalf("missing request_id")
	}
}

func strPtr(s string) *string { return &s }
