package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aeroguide/aeroguide-api/internal/config"
	"github.com/aeroguide/aeroguide-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// DB is the public-role connection used for reads and user-scoped writes.
	DB *gorm.DB
	// ServiceDB is the service-role connection. Intake and admin writes go
	// through it so row-level security cannot block them. It is the same
	// handle as DB when no service credentials are configured.
	ServiceDB *gorm.DB
)

func Connect(cfg *config.Config) error {
	var err error
	DB, err = open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	ServiceDB = DB
	if dsn := cfg.ServiceDSN(); dsn != "" {
		ServiceDB, err = open(dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database as service role: %w", err)
		}
		slog.Info("database service-role connection established")
	}

	slog.Info("database connected")
	return nil
}

func open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// AllModels lists every table owned by the service, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.School{},
		&models.TrainingProgram{},
		&models.Review{},
		&models.Inquiry{},
		&models.ContactMessage{},
		&models.SystemLog{},
	}
}

// Migrate runs AutoMigrate for all models on the given connection.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close closes both connections, skipping the service handle when shared.
func Close() {
	closeOne := func(db *gorm.DB) {
		if db == nil {
			return
		}
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("database close error", "error", err)
			}
		}
	}
	if ServiceDB != DB {
		closeOne(ServiceDB)
	}
	closeOne(DB)
}
