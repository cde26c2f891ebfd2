package user

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile records which profile type a user filled in. Users themselves
// live in the external auth service; only the id is stored here.
type UserProfile struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ProfileTypeID string    `gorm:"column:profile_type_id;not null;index" json:"profile_type_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }
