package domain

import (
	"github.com/yungbote/profileforms-backend/internal/domain/profiles"
	"github.com/yungbote/profileforms-backend/internal/domain/user"
)

type SchemaDocument = profiles.SchemaDocument
type SectionAnswer = profiles.SectionAnswer

type UserProfile = user.UserProfile

// Models lists every persisted row type, in migration order.
func Models() []any {
	return []any{
		&SchemaDocument{},
		&SectionAnswer{},
		&UserProfile{},
	}
}
