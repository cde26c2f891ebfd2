package answers

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/profileforms-backend/internal/domain"
	"github.com/yungbote/profileforms-backend/internal/platform/dbctx"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

type SectionAnswerRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID, sectionID string) (*types.SectionAnswer, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.SectionAnswer, error)
	Upsert(dbc dbctx.Context, row *types.SectionAnswer) error
	// RenameSections moves answer sets of users on profileTypeID from each
	// old section id to its new one. A user who already has a set under the
	// new id keeps both, the old one untouched. Returns the rows moved.
	RenameSections(dbc dbctx.Context, profileTypeID string, renames map[string]string) (int64, error)
	RecanonicalizeProfileType(dbc dbctx.Context, oldID, newID string) (int64, error)
}

type sectionAnswerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionAnswerRepo(db *gorm.DB, baseLog *logger.Logger) SectionAnswerRepo {
	return &sectionAnswerRepo{db: db, log: baseLog.With("repo", "SectionAnswerRepo")}
}

func (r *sectionAnswerRepo) Get(dbc dbctx.Context, userID uuid.UUID, sectionID string) (*types.SectionAnswer, error) {
	sectionID = strings.TrimSpace(sectionID)
	if userID == uuid.Nil || sectionID == "" {
		return nil, nil
	}
	var row types.SectionAnswer
	err := dbc.DB(r.db).
		Where("user_id = ? AND section_id = ?", userID, sectionID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *sectionAnswerRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.SectionAnswer, error) {
	var out []*types.SectionAnswer
	if userID == uuid.Nil {
		return out, nil
	}
	err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("section_id ASC").
		Find(&out).Error
	return out, err
}

// Upsert writes the set keyed by (user_id, section_id), stamping UpdatedAt.
func (r *sectionAnswerRepo) Upsert(dbc dbctx.Context, row *types.SectionAnswer) error {
	if row == nil || row.UserID == uuid.Nil || strings.TrimSpace(row.SectionID) == "" {
		return nil
	}
	now := time.Now().UTC()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = now
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "section_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"profile_type_id", "label", "questions", "updated_at"}),
		}).
		Create(row).Error
}

const renamePrefix = "__renaming__:"

func (r *sectionAnswerRepo) RenameSections(dbc dbctx.Context, profileTypeID string, renames map[string]string) (int64, error) {
	profileTypeID = strings.TrimSpace(profileTypeID)
	if profileTypeID == "" || len(renames) == 0 {
		return 0, nil
	}
	olds := make([]string, 0, len(renames))
	for old, next := range renames {
		if old != next {
			olds = append(olds, old)
		}
	}
	sort.Strings(olds)
	if len(olds) == 0 {
		return 0, nil
	}

	db := dbc.DB(r.db)
	users := db.Model(&types.UserProfile{}).Select("user_id").Where("profile_type_id = ?", profileTypeID)

	// Park every source first so swaps never collide on (user_id, section_id).
	for _, old := range olds {
		err := db.Model(&types.SectionAnswer{}).
			Where("section_id = ? AND user_id IN (?)", old, users).
			Update("section_id", renamePrefix+old).Error
		if err != nil {
			return 0, err
		}
	}

	var moved int64
	for _, old := range olds {
		next := renames[old]
		taken := db.Model(&types.SectionAnswer{}).Select("user_id").Where("section_id = ?", next)
		res := db.Model(&types.SectionAnswer{}).
			Where("section_id = ? AND user_id NOT IN (?)", renamePrefix+old, taken).
			Update("section_id", next)
		if res.Error != nil {
			return 0, res.Error
		}
		moved += res.RowsAffected
	}

	for _, old := range olds {
		err := db.Model(&types.SectionAnswer{}).
			Where("section_id = ?", renamePrefix+old).
			Update("section_id", old).Error
		if err != nil {
			return 0, err
		}
	}
	return moved, nil
}

func (r *sectionAnswerRepo) RecanonicalizeProfileType(dbc dbctx.Context, oldID, newID string) (int64, error) {
	oldID, newID = strings.TrimSpace(oldID), strings.TrimSpace(newID)
	if oldID == "" || newID == "" || oldID == newID {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.SectionAnswer{}).
		Where("profile_type_id = ?", oldID).
		Update("profile_type_id", newID)
	return res.RowsAffected, res.Error
}
