package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/dossbaby/dream-storybook-sub001/internal/repo"
)

// IdempotencyService remembers which reading a (user, kind, key) save
// produced so retried saves return the same id.
type IdempotencyService struct {
	DB  *gorm.DB
	TTL time.Duration
}

// NewIdempotencyService constructs an IdempotencyService; ttl <= 0 means 24h.
func NewIdempotencyService(db *gorm.DB, ttl time.Duration) *IdempotencyService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyService{DB: db, TTL: ttl}
}

// Exists reports whether a live record exists. Its signature matches the
// HTTP idempotency lookup.
func (s *IdempotencyService) Exists(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
	_, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Replay returns the reading id recorded for the key, if any.
func (s *IdempotencyService) Replay(ctx context.Context, userID, scope, key string) (string, bool) {
	if userID == "" || key == "" {
		return "", false
	}
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, time.Now().UTC())
	if err != nil || rec.ResourceID == "" {
		return "", false
	}
	return rec.ResourceID, true
}

// Record stores the reading id for the key. A concurrent duplicate is not
// an error; an expired record holding the key is purged and replaced.
func (s *IdempotencyService) Record(ctx context.Context, userID, scope, key, readingID string) error {
	if userID == "" || key == "" {
		return nil
	}
	_, err := repo.CreateIdempotency(ctx, s.DB, userID, scope, key, readingID, http.StatusCreated, s.TTL)
	if !errors.Is(err, repo.ErrDuplicate) {
		return err
	}
	if _, live := s.Replay(ctx, userID, scope, key); live {
		return nil
	}
	if _, err := repo.PurgeExpiredIdempotency(ctx, s.DB, time.Now().UTC()); err != nil {
		return err
	}
	_, err = repo.CreateIdempotency(ctx, s.DB, userID, scope, key, readingID, http.StatusCreated, s.TTL)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

// RunPurger deletes expired records every interval until ctx is done.
func (s *IdempotencyService) RunPurger(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Hour
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, s.DB, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency records")
				continue
			}
			if n > 0 {
				log.Debug().Int64("purged", n).Msg("idempotency records purged")
			}
		}
	}
}
