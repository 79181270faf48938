// Package services – EngagementService
//
// This file implements the mutations viewers apply to saved readings:
// likes, comments, ratings and the owner's visibility toggle. Counter
// changes are delegated to repo functions that update them atomically in
// the database.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
	"github.com/dossbaby/dream-storybook-sub001/internal/prompt"
	"github.com/dossbaby/dream-storybook-sub001/internal/repo"
	"github.com/dossbaby/dream-storybook-sub001/internal/utils"
)

// EngagementService coordinates likes, comments, ratings and visibility.
type EngagementService struct {
	DB *gorm.DB

	// MaxCommentRunes caps comment bodies.
	MaxCommentRunes int
}

// NewEngagementService constructs an EngagementService.
func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{DB: db, MaxCommentRunes: 1000}
}

func (s *EngagementService) span(ctx context.Context, name string, kind domain.Kind, id string) (context.Context, trace.Span) {
	return otel.Tracer("services/EngagementService").Start(ctx, name,
		trace.WithAttributes(
			attribute.String("reading.kind", string(kind)),
			attribute.String("reading.id", id),
		),
	)
}

// ToggleLike flips userID's like and returns the new state and count.
func (s *EngagementService) ToggleLike(ctx context.Context, userID string, kind domain.Kind, id string) (bool, int64, error) {
	if userID == "" {
		return false, 0, ErrUnauthenticated
	}
	ctx, span := s.span(ctx, "ToggleLike", kind, id)
	defer span.End()

	if _, err := readableReading(ctx, s.DB, userID, kind, id); err != nil {
		return false, 0, err
	}
	return repo.ToggleLike(ctx, s.DB, id, userID)
}

// Liked reports whether viewerID likes the reading, with its like count.
// Anonymous viewers always get false.
func (s *EngagementService) Liked(ctx context.Context, viewerID string, kind domain.Kind, id string) (bool, int64, error) {
	ctx, span := s.span(ctx, "Liked", kind, id)
	defer span.End()

	r, err := readableReading(ctx, s.DB, viewerID, kind, id)
	if err != nil {
		return false, 0, err
	}
	if viewerID == "" {
		return false, r.LikeCount, nil
	}
	liked, err := repo.HasLiked(ctx, s.DB, id, viewerID)
	return liked, r.LikeCount, err
}

// AddComment appends a comment by userID.
func (s *EngagementService) AddComment(ctx context.Context, userID, displayName string, kind domain.Kind, id, body string) (*domain.ReadingComment, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	body = prompt.Clean(body)
	if body == "" {
		return nil, ErrEmptyComment
	}
	if s.MaxCommentRunes > 0 && utf8.RuneCountInString(body) > s.MaxCommentRunes {
		return nil, ErrTooLong
	}
	ctx, span := s.span(ctx, "AddComment", kind, id)
	defer span.End()

	if _, err := readableReading(ctx, s.DB, userID, kind, id); err != nil {
		return nil, err
	}
	c := &domain.ReadingComment{
		ReadingID:   id,
		UserID:      userID,
		DisplayName: strings.TrimSpace(displayName),
		Body:        body,
	}
	if err := repo.CreateComment(ctx, s.DB, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment removes a comment. The comment author and the reading
// owner may delete it.
func (s *EngagementService) DeleteComment(ctx context.Context, userID string, kind domain.Kind, id, commentID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	ctx, span := s.span(ctx, "DeleteComment", kind, id)
	defer span.End()

	r, err := readableReading(ctx, s.DB, userID, kind, id)
	if err != nil {
		return err
	}
	c, err := repo.GetComment(ctx, s.DB, id, commentID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrCommentNotFound
	}
	if err != nil {
		return err
	}
	if c.UserID != userID && r.OwnerID != userID {
		return ErrForbidden
	}
	if err := repo.DeleteComment(ctx, s.DB, id, commentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}

// ListComments returns one page of comments, oldest first.
func (s *EngagementService) ListComments(ctx context.Context, viewerID string, kind domain.Kind, id string, page, pageSize int) ([]domain.ReadingComment, int64, error) {
	ctx, span := s.span(ctx, "ListComments", kind, id)
	defer span.End()

	if _, err := readableReading(ctx, s.DB, viewerID, kind, id); err != nil {
		return nil, 0, err
	}
	page, pageSize = normalizePage(page, pageSize)
	total, err := repo.CountComments(ctx, s.DB, id)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.ReadingComment{}, 0, nil
	}
	items, err := repo.ListCommentsPage(ctx, s.DB, id, utils.Offset(page, pageSize), pageSize)
	return items, total, err
}

// Rate records a 1..5 score and returns the new aggregate.
func (s *EngagementService) Rate(ctx context.Context, userID string, kind domain.Kind, id string, score int) (int64, float64, error) {
	if userID == "" {
		return 0, 0, ErrUnauthenticated
	}
	if score < 1 || score > 5 {
		return 0, 0, ErrInvalidRating
	}
	ctx, span := s.span(ctx, "Rate", kind, id)
	defer span.End()

	if _, err := readableReading(ctx, s.DB, userID, kind, id); err != nil {
		return 0, 0, err
	}
	return repo.AddRating(ctx, s.DB, id, userID, score)
}

// SetVisibility changes visibility and anonymity of ownerID's reading and
// returns the updated row. isPublic always mirrors visibility, and
// anonymity is dropped unless the reading is public.
func (s *EngagementService) SetVisibility(ctx context.Context, ownerID string, kind domain.Kind, id string, opt domain.VisibilityOption) (*domain.Reading, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	ctx, span := s.span(ctx, "SetVisibility", kind, id)
	defer span.End()

	r, err := repo.GetReading(ctx, s.DB, kind, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrReadingNotFound
	}
	if err != nil {
		return nil, err
	}
	if r.OwnerID != ownerID {
		if !r.ReadableBy(ownerID) {
			return nil, ErrReadingNotFound
		}
		return nil, ErrForbidden
	}

	vis, isPublic, isAnonymous := opt.Resolve()
	if err := repo.UpdateVisibility(ctx, s.DB, kind, id, ownerID, vis, isPublic, isAnonymous, r.PublicName(isAnonymous)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrReadingNotFound
		}
		return nil, err
	}
	return repo.GetReading(ctx, s.DB, kind, id)
}
