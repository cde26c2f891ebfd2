package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/profileforms-backend/internal/domain"
	"github.com/yungbote/profileforms-backend/internal/platform/dbctx"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

type UserProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProfile, error)
	Upsert(dbc dbctx.Context, row *types.UserProfile) error
	CountByProfileType(dbc dbctx.Context, profileTypeID string) (int64, error)
	// RecanonicalizeProfileType rewrites every row on oldID to newID and
	// returns how many rows changed.
	RecanonicalizeProfileType(dbc dbctx.Context, oldID, newID string) (int64, error)
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return &userProfileRepo{db: db, log: baseLog.With("repo", "UserProfileRepo")}
}

func (r *userProfileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.UserProfile
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.UserID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userProfileRepo) Upsert(dbc dbctx.Context, row *types.UserProfile) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"profile_type_id", "updated_at"}),
		}).
		Create(row).Error
}

func (r *userProfileRepo) CountByProfileType(dbc dbctx.Context, profileTypeID string) (int64, error) {
	var n int64
	err := dbc.DB(r.db).
		Model(&types.UserProfile{}).
		Where("profile_type_id = ?", strings.TrimSpace(profileTypeID)).
		Count(&n).Error
	return n, err
}

func (r *userProfileRepo) RecanonicalizeProfileType(dbc dbctx.Context, oldID, newID string) (int64, error) {
	oldID, newID = strings.TrimSpace(oldID), strings.TrimSpace(newID)
	if oldID == "" || newID == "" || oldID == newID {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.UserProfile{}).
		Where("profile_type_id = ?", oldID).
		Updates(map[string]any{"profile_type_id": newID, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		r.log.Error("recanonicalize profile type failed", "old_profile_type_id", oldID, "new_profile_type_id", newID, "error", res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
