package types

import (
	"time"

	"github.com/google/uuid"
)

type Image struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    *uuid.UUID `gorm:"type:uuid;column:task_id" json:"task_id,omitempty"`
	URL       string     `gorm:"not null;column:url" json:"url"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (Image) TableName() string { return "images" }
