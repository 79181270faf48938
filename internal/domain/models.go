package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reading is a saved reading document. One row per successful
// generation+save; the Kind column partitions rows into the per-kind
// collections (dream_readings, tarot_readings, fortune_readings).
//
// Visibility fully determines discoverability. IsPublic mirrors
// Visibility == public for older clients that only understand the boolean.
// Engagement counters are only ever changed with atomic increments.
type Reading struct {
	ID          string `json:"id"           gorm:"type:char(36);primaryKey"`
	Kind        Kind   `json:"kind"         gorm:"type:varchar(16);not null;index:idx_readings_feed,priority:1;index:idx_readings_owner,priority:2"`
	OwnerID     string `json:"owner_id"     gorm:"type:varchar(64);not null;index:idx_readings_owner,priority:1"`
	DisplayName string `json:"display_name" gorm:"type:varchar(128);not null;default:''"`
	// OwnerName is the real name, kept so anonymity can be switched off later.
	OwnerName string `json:"-" gorm:"type:varchar(128);not null;default:''"`

	Title                string                                `json:"title"                           gorm:"type:varchar(255);not null;default:''"`
	Verdict              string                                `json:"verdict"                         gorm:"type:text"`
	Summary              string                                `json:"summary"                         gorm:"type:text"`
	Input                string                                `json:"input,omitempty"                 gorm:"type:text"`
	Keywords             datatypes.JSONSlice[Keyword]          `json:"keywords"`
	Sections             datatypes.JSONType[map[string]string] `json:"sections"`
	DetailedAnalysis     string                                `json:"detailed_analysis,omitempty"     gorm:"type:text"`
	CharacterDescription string                                `json:"character_description,omitempty" gorm:"type:text"`
	Cards                datatypes.JSONSlice[CardRef]          `json:"cards,omitempty"`
	ConclusionCard       datatypes.JSONType[*CardRef]          `json:"conclusion_card,omitempty"`
	Category             FortuneCategory                       `json:"category,omitempty"              gorm:"type:varchar(16)"`
	Images               datatypes.JSONType[ImageSet]          `json:"images"`

	Visibility  Visibility `json:"visibility"   gorm:"type:varchar(16);not null;default:'public';index:idx_readings_feed,priority:2"`
	IsPublic    bool       `json:"is_public"    gorm:"not null;default:false;index"`
	IsAnonymous bool       `json:"is_anonymous" gorm:"not null;default:false"`

	LikeCount    int64   `json:"like_count"    gorm:"not null;default:0"`
	CommentCount int64   `json:"comment_count" gorm:"not null;default:0"`
	RatingCount  int64   `json:"rating_count"  gorm:"not null;default:0"`
	RatingAvg    float64 `json:"rating_avg"    gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_readings_feed,priority:3;index:idx_readings_owner,priority:3"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Reading.
func (Reading) TableName() string { return "readings" }

// PublicName returns the name to show for the owner under the given
// anonymity flag.
func (r *Reading) PublicName(anonymous bool) string {
	if anonymous {
		return r.Kind.AnonymousName()
	}
	return r.OwnerName
}

// ReadableBy reports whether viewerID may open the reading. Unlisted
// readings are readable by anyone holding the id.
func (r *Reading) ReadableBy(viewerID string) bool {
	switch r.Visibility {
	case VisibilityPublic, VisibilityUnlisted:
		return true
	case VisibilityPrivate:
		return viewerID != "" && viewerID == r.OwnerID
	}
	// Legacy rows without a visibility value fall back to the boolean.
	return r.IsPublic || (viewerID != "" && viewerID == r.OwnerID)
}

// ReadingLike records that UserID likes ReadingID. The unique index is the
// like set; LikeCount on the reading mirrors its cardinality.
type ReadingLike struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	ReadingID string    `json:"reading_id" gorm:"type:char(36);not null;uniqueIndex:ux_like_reading_user,priority:1"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;uniqueIndex:ux_like_reading_user,priority:2"`
	CreatedAt time.Time `json:"created_at"`

	Reading Reading `json:"-" gorm:"foreignKey:ReadingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ReadingLike.
func (ReadingLike) TableName() string { return "reading_likes" }

// ReadingComment is a viewer comment (or interpretation) on a reading.
type ReadingComment struct {
	ID          string         `json:"id"           gorm:"type:char(36);primaryKey"`
	ReadingID   string         `json:"reading_id"   gorm:"type:char(36);not null;index:idx_comments_reading,priority:1"`
	UserID      string         `json:"user_id"      gorm:"type:varchar(64);not null"`
	DisplayName string         `json:"display_name" gorm:"type:varchar(128);not null;default:''"`
	Body        string         `json:"body"         gorm:"type:text;not null"`
	CreatedAt   time.Time      `json:"created_at"   gorm:"index:idx_comments_reading,priority:2"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`

	Reading Reading `json:"-" gorm:"foreignKey:ReadingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ReadingComment.
func (ReadingComment) TableName() string { return "reading_comments" }

// ReadingRating is one entry in a reading's rating log. The aggregate on
// Reading (RatingCount, RatingAvg) is recomputed from this log.
type ReadingRating struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	ReadingID string    `json:"reading_id" gorm:"type:char(36);not null;index"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null"`
	Score     int       `json:"score"      gorm:"not null;check:score BETWEEN 1 AND 5"`
	CreatedAt time.Time `json:"created_at"`

	Reading Reading `json:"-" gorm:"foreignKey:ReadingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ReadingRating.
func (ReadingRating) TableName() string { return "reading_ratings" }
