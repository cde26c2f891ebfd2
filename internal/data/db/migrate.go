package db

import (
	"fmt"

	types "github.com/yungbote/profileforms-backend/internal/domain"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

// EnsureProfileIndexes adds indexes gorm tags cannot express.
func EnsureProfileIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_section_answer_user_updated
		ON profile_section_answer (user_id, updated_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_section_answer_user_updated: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...", "driver", s.driver)
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureProfileIndexes(s.db); err != nil {
		s.log.Error("Profile index migration failed", "error", err)
		return err
	}
	return nil
}

func New(driver string, pg PostgresConfig, sqlitePath string, logg *logger.Logger) (*Service, error) {
	switch driver {
	case "", "postgres":
		return NewPostgresService(pg, logg)
	case "sqlite":
		return NewSQLiteService(sqlitePath, logg)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
}
