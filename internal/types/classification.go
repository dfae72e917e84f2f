package types

import (
	"time"

	"github.com/google/uuid"
)

// Classification is one rater's label for one image. A rater classifies an
// image at most once; the (user_id, image_id) pair is unique and submissions
// for an already-classified image are rejected (first wins).
type Classification struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_classification_user_image;column:user_id" json:"user_id"`
	ImageID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_classification_user_image;column:image_id" json:"image_id"`
	LabelID uuid.UUID `gorm:"type:uuid;not null;column:label_id" json:"label_id"`

	// Denormalized from the submitting user so expert/non-expert filters
	// stay a single-table query.
	UserRole UserRole `gorm:"not null;column:user_role" json:"user_role"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Classification) TableName() string { return "classifications" }
