package types

import (
	"time"

	"github.com/google/uuid"
)

// Label is a classification category. Equality is by id, never by name.
type Label struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    *uuid.UUID `gorm:"type:uuid;column:task_id" json:"task_id,omitempty"`
	Name      string     `gorm:"not null;column:name" json:"name"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}

func (Label) TableName() string { return "labels" }
