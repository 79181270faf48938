// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the engagement mutations on saved
// readings: likes, comments and ratings.
//
// Every mutation pairs the row change with an in-database counter update
// (like_count = like_count + 1, ...) inside one transaction, so concurrent
// viewers never lose each other's updates.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
)

func bumpCounter(tx *gorm.DB, readingID, column string, delta int) error {
	res := tx.Model(&domain.Reading{}).
		Where("id = ?", readingID).
		Update(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func readCounter(tx *gorm.DB, readingID, column string) (int64, error) {
	var n int64
	err := tx.Model(&domain.Reading{}).
		Where("id = ?", readingID).
		Select(column).
		Scan(&n).Error
	return n, err
}

// ToggleLike flips userID's like on a reading and returns the new state
// together with the updated like count.
func ToggleLike(ctx context.Context, db *gorm.DB, readingID, userID string) (liked bool, count int64, err error) {
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("reading_id = ? AND user_id = ?", readingID, userID).Delete(&domain.ReadingLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			if err := bumpCounter(tx, readingID, "like_count", -1); err != nil {
				return err
			}
		} else {
			like := &domain.ReadingLike{
				ID:        uuid.NewString(),
				ReadingID: readingID,
				UserID:    userID,
				CreatedAt: time.Now().UTC(),
			}
			if err := tx.Create(like).Error; err != nil {
				return err
			}
			liked = true
			if err := bumpCounter(tx, readingID, "like_count", 1); err != nil {
				return err
			}
		}
		n, err := readCounter(tx, readingID, "like_count")
		count = n
		return err
	})
	return liked, count, err
}

// HasLiked reports whether userID currently likes the reading.
func HasLiked(ctx context.Context, db *gorm.DB, readingID, userID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.ReadingLike{}).
		Where("reading_id = ? AND user_id = ?", readingID, userID).
		Count(&n).Error
	return n > 0, err
}

// CreateComment inserts c (ID and CreatedAt are assigned) and increments
// comment_count.
func CreateComment(ctx context.Context, db *gorm.DB, c *domain.ReadingComment) error {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return bumpCounter(tx, c.ReadingID, "comment_count", 1)
	})
}

// GetComment fetches a live comment on a reading.
func GetComment(ctx context.Context, db *gorm.DB, readingID, commentID string) (*domain.ReadingComment, error) {
	var c domain.ReadingComment
	err := db.WithContext(ctx).
		Where("id = ? AND reading_id = ?", commentID, readingID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComment soft-deletes a comment and decrements comment_count.
// It returns ErrNotFound when the comment is already gone.
func DeleteComment(ctx context.Context, db *gorm.DB, readingID, commentID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND reading_id = ?", commentID, readingID).Delete(&domain.ReadingComment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return bumpCounter(tx, readingID, "comment_count", -1)
	})
}

// ListCommentsPage returns comments oldest first.
func ListCommentsPage(ctx context.Context, db *gorm.DB, readingID string, offset, limit int) ([]domain.ReadingComment, error) {
	var out []domain.ReadingComment
	err := db.WithContext(ctx).
		Where("reading_id = ?", readingID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountComments returns the number of live comments on a reading.
func CountComments(ctx context.Context, db *gorm.DB, readingID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ReadingComment{}).
		Where("reading_id = ?", readingID).
		Count(&total).Error
	return total, err
}

// AddRating appends a score to the rating log and recomputes the aggregate
// on the reading in the same transaction.
func AddRating(ctx context.Context, db *gorm.DB, readingID, userID string, score int) (count int64, avg float64, err error) {
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := &domain.ReadingRating{
			ID:        uuid.NewString(),
			ReadingID: readingID,
			UserID:    userID,
			Score:     score,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(r).Error; err != nil {
			return err
		}

		var agg struct {
			N   int64
			Avg float64
		}
		if err := tx.Model(&domain.ReadingRating{}).
			Select("COUNT(*) AS n, COALESCE(AVG(score), 0) AS avg").
			Where("reading_id = ?", readingID).
			Scan(&agg).Error; err != nil {
			return err
		}

		res := tx.Model(&domain.Reading{}).
			Where("id = ?", readingID).
			Updates(map[string]any{"rating_count": agg.N, "rating_avg": agg.Avg})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		count, avg = agg.N, agg.Avg
		return nil
	})
	return count, avg, err
}
