package app

import (
	"gorm.io/gorm"

	answerrepo "github.com/yungbote/profileforms-backend/internal/data/repos/answers"
	schemarepo "github.com/yungbote/profileforms-backend/internal/data/repos/schema"
	userrepo "github.com/yungbote/profileforms-backend/internal/data/repos/user"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

type Repos struct {
	SchemaDocument schemarepo.SchemaDocumentRepo
	SectionAnswer  answerrepo.SectionAnswerRepo
	UserProfile    userrepo.UserProfileRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		SchemaDocument: schemarepo.NewSchemaDocumentRepo(db, log),
		SectionAnswer:  answerrepo.NewSectionAnswerRepo(db, log),
		UserProfile:    userrepo.NewUserProfileRepo(db, log),
	}
}
