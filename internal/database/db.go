package database

import (
	"fmt"
	"time"

	"setoran/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options tunes the connection pool and GORM logging
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	LogLevel     gormlogger.LogLevel
}

// NewConnection initializes a new connection pool using GORM. SQL logging goes
// through the given zap logger.
func NewConnection(dsn string, opts Options, log *zap.Logger) (*gorm.DB, error) {
	if opts.LogLevel == 0 {
		opts.LogLevel = gormlogger.Warn
	}

	gormLog := gormlogger.New(
		zap.NewStdLog(log.Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  opts.LogLevel,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Migrate creates or updates the schema for every model
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto: %w", err)
	}

	err := db.AutoMigrate(
		&model.User{},
		&model.Good{},
		&model.DailyStock{},
		&model.Pickup{},
		&model.DepositItem{},
		&model.DepositRequest{},
		&model.RequestLine{},
		&model.LedgerEntry{},
		&model.LedgerBalance{},
		&model.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	return nil
}
