package testutil

import (
	"errors"
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	types "github.com/yungbote/profileforms-backend/internal/domain"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

var errNoDatabase = errors.New("no test database available")

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB opens TEST_POSTGRES_DSN when set, otherwise a shared in-memory SQLite
// database. Tests skip when neither can be opened (e.g. a CGO-less build).
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		cfg := &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		}

		var err error
		if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
		} else {
			db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), cfg)
			if err == nil {
				if sqlDB, derr := db.DB(); derr == nil {
					sqlDB.SetMaxOpenConns(1)
				}
			}
		}
		if err != nil {
			dbErr = errors.Join(errNoDatabase, err)
			return
		}
		if err := db.AutoMigrate(types.Models()...); err != nil {
			dbErr = err
			return
		}
	})

	if errors.Is(dbErr, errNoDatabase) {
		tb.Skipf("repo integration tests need TEST_POSTGRES_DSN or sqlite: %v", dbErr)
	}
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
