package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"nlreminder/internal/domain/entity"
	"nlreminder/internal/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options selects the backing database.
// DatabaseURL takes precedence; otherwise SQLite at SQLitePath is used.
type Options struct {
	DatabaseURL string
	SQLitePath  string
}

// Open connects to the database and migrates the schema.
func Open(opts Options, log logger.Logger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: newGormLogger(),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db      *gorm.DB
		err     error
		backend string
	)
	if opts.DatabaseURL != "" {
		backend = "postgres"
		db, err = gorm.Open(postgres.Open(opts.DatabaseURL), gormConfig)
	} else {
		backend = "sqlite"
		db, err = gorm.Open(sqlite.Open(opts.SQLitePath), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}

	if backend == "sqlite" {
		// SQLite allows a single writer.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	log.Info("Database connected and migrated", "backend", backend)
	return db, nil
}

// AutoMigrate automatically migrates the database schema for the defined entities.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.Reminder{}); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func newGormLogger() gormlogger.Interface {
	return gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
