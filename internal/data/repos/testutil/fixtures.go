package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/profileforms-backend/internal/domain"
)

func SeedUserProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, profileTypeID string) *types.UserProfile {
	tb.Helper()
	now := time.Now().UTC()
	row := &types.UserProfile{
		UserID:        uuid.New(),
		ProfileTypeID: profileTypeID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed user profile: %v", err)
	}
	return row
}

// Reset deletes every row written by a test that could not run inside Tx.
func Reset(tb testing.TB, db *gorm.DB) {
	tb.Helper()
	for _, m := range types.Models() {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
			tb.Fatalf("reset %T: %v", m, err)
		}
	}
}
