// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Reading
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, so they can
// run inside transactions. They follow the "thin repository" approach: no
// business logic, only persistence and query composition.
//
// Error semantics:
//   - When a reading is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound).
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// publicScope matches readings listed in feeds. Legacy rows written before
// visibility existed fall back to the is_public flag.
func publicScope(kind domain.Kind) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("kind = ?", kind).
			Where("(visibility = ? OR ((visibility = '' OR visibility IS NULL) AND is_public = ?))", domain.VisibilityPublic, true)
	}
}

func ownerScope(kind domain.Kind, ownerID string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("kind = ? AND owner_id = ?", kind, ownerID)
	}
}

// CreateReading inserts r as-is. Callers assign ID and timestamps.
func CreateReading(ctx context.Context, db *gorm.DB, r *domain.Reading) error {
	return db.WithContext(ctx).Create(r).Error
}

// GetReading fetches a reading by kind and id.
func GetReading(ctx context.Context, db *gorm.DB, kind domain.Kind, id string) (*domain.Reading, error) {
	var r domain.Reading
	err := db.WithContext(ctx).
		Where("id = ? AND kind = ?", id, kind).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListPublicReadings returns one page of the public feed, newest first.
func ListPublicReadings(ctx context.Context, db *gorm.DB, kind domain.Kind, offset, limit int) ([]domain.Reading, error) {
	var out []domain.Reading
	err := db.WithContext(ctx).
		Scopes(publicScope(kind)).
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountPublicReadings returns the size of the public feed for kind.
func CountPublicReadings(ctx context.Context, db *gorm.DB, kind domain.Kind) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Reading{}).
		Scopes(publicScope(kind)).
		Count(&total).Error
	return total, err
}

// ListOwnerReadings returns one page of ownerID's readings of kind, newest first.
func ListOwnerReadings(ctx context.Context, db *gorm.DB, kind domain.Kind, ownerID string, offset, limit int) ([]domain.Reading, error) {
	var out []domain.Reading
	err := db.WithContext(ctx).
		Scopes(ownerScope(kind, ownerID)).
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountOwnerReadings returns how many readings of kind ownerID has saved.
func CountOwnerReadings(ctx context.Context, db *gorm.DB, kind domain.Kind, ownerID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Reading{}).
		Scopes(ownerScope(kind, ownerID)).
		Count(&total).Error
	return total, err
}

// UpdateVisibility rewrites the visibility flags of a reading owned by
// ownerID. It returns ErrNotFound when no row matches.
func UpdateVisibility(ctx context.Context, db *gorm.DB, kind domain.Kind, id, ownerID string, vis domain.Visibility, isPublic, isAnonymous bool, displayName string) error {
	res := db.WithContext(ctx).
		Model(&domain.Reading{}).
		Where("id = ? AND kind = ? AND owner_id = ?", id, kind, ownerID).
		Updates(map[string]any{
			"visibility":   vis,
			"is_public":    isPublic,
			"is_anonymous": isAnonymous,
			"display_name": displayName,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
