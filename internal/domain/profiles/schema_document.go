package profiles

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SchemaDocument stores the whole profile-type schema as one JSON document.
// Version is bumped on every write and checked by compare-and-swap updates.
type SchemaDocument struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key     string    `gorm:"column:doc_key;not null;uniqueIndex" json:"key"`
	Version int       `gorm:"column:version;not null;default:0" json:"version"`

	Document datatypes.JSON `gorm:"column:document;not null" json:"document"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (SchemaDocument) TableName() string { return "profile_schema_document" }
