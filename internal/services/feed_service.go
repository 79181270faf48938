// Package services – FeedService
//
// This file implements the read paths over saved readings: detail fetch
// with visibility enforcement, the public feed, a user's own readings and
// keyword search over recent public readings.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
	"github.com/dossbaby/dream-storybook-sub001/internal/repo"
	"github.com/dossbaby/dream-storybook-sub001/internal/search"
	"github.com/dossbaby/dream-storybook-sub001/internal/utils"
)

// SearchHit is one search result.
type SearchHit struct {
	Reading domain.Reading `json:"reading"`
	Score   float64        `json:"score"`
	Snippet string         `json:"snippet"`
}

// FeedService serves saved readings.
type FeedService struct {
	DB *gorm.DB

	// SearchWindow is how many recent public readings a search scans.
	SearchWindow int
	// SearchThreshold is the minimum Jaccard score of a hit.
	SearchThreshold float64
}

// NewFeedService constructs a FeedService with default search tuning.
func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{DB: db, SearchWindow: 500, SearchThreshold: 0.1}
}

// Get returns a reading the viewer may open. Private readings of other
// users are reported as not found.
func (s *FeedService) Get(ctx context.Context, viewerID string, kind domain.Kind, id string) (*domain.Reading, error) {
	ctx, span := otel.Tracer("services/FeedService").Start(ctx, "Get",
		trace.WithAttributes(
			attribute.String("reading.kind", string(kind)),
			attribute.String("reading.id", id),
		),
	)
	defer span.End()
	return readableReading(ctx, s.DB, viewerID, kind, id)
}

func readableReading(ctx context.Context, db *gorm.DB, viewerID string, kind domain.Kind, id string) (*domain.Reading, error) {
	r, err := repo.GetReading(ctx, db, kind, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrReadingNotFound
	}
	if err != nil {
		return nil, err
	}
	if !r.ReadableBy(viewerID) {
		return nil, ErrReadingNotFound
	}
	return r, nil
}

// ListPublic returns one page of the public feed, newest first.
func (s *FeedService) ListPublic(ctx context.Context, kind domain.Kind, page, pageSize int) ([]domain.Reading, int64, error) {
	ctx, span := otel.Tracer("services/FeedService").Start(ctx, "ListPublic",
		trace.WithAttributes(
			attribute.String("reading.kind", string(kind)),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	page, pageSize = normalizePage(page, pageSize)
	total, err := repo.CountPublicReadings(ctx, s.DB, kind)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Reading{}, 0, nil
	}
	items, err := repo.ListPublicReadings(ctx, s.DB, kind, utils.Offset(page, pageSize), pageSize)
	return items, total, err
}

// ListMine returns one page of userID's own readings of kind.
func (s *FeedService) ListMine(ctx context.Context, userID string, kind domain.Kind, page, pageSize int) ([]domain.Reading, int64, error) {
	if userID == "" {
		return nil, 0, ErrUnauthenticated
	}
	ctx, span := otel.Tracer("services/FeedService").Start(ctx, "ListMine",
		trace.WithAttributes(
			attribute.String("reading.kind", string(kind)),
			attribute.Int("page", page),
		),
	)
	defer span.End()

	page, pageSize = normalizePage(page, pageSize)
	total, err := repo.CountOwnerReadings(ctx, s.DB, kind, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Reading{}, 0, nil
	}
	items, err := repo.ListOwnerReadings(ctx, s.DB, kind, userID, utils.Offset(page, pageSize), pageSize)
	return items, total, err
}

// PublicStats returns the feed size and its latest update for ETags.
func (s *FeedService) PublicStats(ctx context.Context, kind domain.Kind) (int64, *time.Time, error) {
	return repo.PublicReadingsStats(ctx, s.DB, kind)
}

// MineStats is PublicStats for userID's own readings.
func (s *FeedService) MineStats(ctx context.Context, userID string, kind domain.Kind) (int64, *time.Time, error) {
	if userID == "" {
		return 0, nil, ErrUnauthenticated
	}
	return repo.OwnerReadingsStats(ctx, s.DB, kind, userID)
}

// Search ranks recent public readings of kind against query.
func (s *FeedService) Search(ctx context.Context, kind domain.Kind, query string, k int) ([]SearchHit, error) {
	ctx, span := otel.Tracer("services/FeedService").Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("reading.kind", string(kind)),
			attribute.Int("k", k),
		),
	)
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchHit{}, nil
	}
	window := s.SearchWindow
	if window <= 0 {
		window = 500
	}
	rows, err := repo.ListPublicReadings(ctx, s.DB, kind, 0, window)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Reading, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	idx := search.NewIndex(search.FromReadings(rows), search.WithMinScore(s.SearchThreshold))
	results := idx.TopK(query, k)

	hits := make([]SearchHit, 0, len(results))
	for _, res := range results {
		if r, ok := byID[res.ID]; ok {
			hits = append(hits, SearchHit{Reading: *r, Score: res.Score, Snippet: res.Snippet})
		}
	}
	span.SetAttributes(attribute.Int("hits", len(hits)))
	return hits, nil
}

func normalizePage(page, pageSize int) (int, int) {
	return utils.ClampPage(page, pageSize)
}
