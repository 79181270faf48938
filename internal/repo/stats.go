// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// for conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

// latestUpdate returns the row count of q and its greatest updated_at.
func latestUpdate(q *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// PublicReadingsStats returns the public feed size for kind and the most
// recent UpdatedAt among its rows. Engagement changes touch updated_at, so
// the pair changes whenever a feed page could.
func PublicReadingsStats(ctx context.Context, db *gorm.DB, kind domain.Kind) (count int64, maxUpdatedAt *time.Time, err error) {
	return latestUpdate(publicScope(kind)(db.WithContext(ctx).Model(&domain.Reading{})))
}

// OwnerReadingsStats is PublicReadingsStats for one owner's readings.
func OwnerReadingsStats(ctx context.Context, db *gorm.DB, kind domain.Kind, ownerID string) (count int64, maxUpdatedAt *time.Time, err error) {
	return latestUpdate(ownerScope(kind, ownerID)(db.WithContext(ctx).Model(&domain.Reading{})))
}
