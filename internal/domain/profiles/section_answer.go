package profiles

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SectionAnswer holds one user's answer set for one section. Rows are keyed by
// (user, section) only, so a profile type id change never orphans them.
type SectionAnswer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_section_answer_user_section,priority:1" json:"user_id"`
	SectionID string    `gorm:"column:section_id;not null;uniqueIndex:idx_section_answer_user_section,priority:2" json:"section_id"`

	// ProfileTypeID is the type the set was last saved under; informational only.
	ProfileTypeID string `gorm:"column:profile_type_id;index" json:"profile_type_id"`
	Label         string `gorm:"column:label" json:"label"`

	Questions datatypes.JSON `gorm:"column:questions;not null" json:"questions"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (SectionAnswer) TableName() string { return "profile_section_answer" }
