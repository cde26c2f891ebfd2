package realtime

import (
	"time"

	"github.com/google/uuid"
)

type Event string

const (
	EventSectionUpdated Event = "SectionUpdated"
)

// Message is what travels on the bus. Channel is the logical audience,
// e.g. "user:<id>"; every message shares one transport channel.
type Message struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
	Data    any    `json:"data,omitempty"`
}

func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

// SectionUpdated is emitted once per successful answer save.
type SectionUpdated struct {
	UserID        uuid.UUID `json:"userId"`
	SectionID     string    `json:"sectionId"`
	ProfileTypeID string    `json:"profileTypeId"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Status        string    `json:"status"`
}

func (e SectionUpdated) Message() Message {
	return Message{Channel: UserChannel(e.UserID), Event: EventSectionUpdated, Data: e}
}
