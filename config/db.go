package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"playlist-courses-backend/models/courses"
	"playlist-courses-backend/models/users"
)

// InitDB opens the database selected by driver and migrates the schema.
func InitDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(os.Stderr),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// In-memory databases exist per connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// newGormLogger reports slow queries and errors. Lookups that find nothing
// are expected and not logged.
func newGormLogger(w io.Writer) logger.Interface {
	return logger.New(log.New(w, "[db] ", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&users.User{},
		&users.Session{},
		&courses.Course{},
		&courses.Progress{},
		&courses.Note{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	log.Println("[db] schema migrated")
	return nil
}
