package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
	"github.com/BruksfildServices01/tenant-scheduler/internal/logger"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// NewDB opens the postgres pool, migrates the schema and backfills
// defaults on legacy rows.
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      newGormLogger(cfg, log),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.DBConnMaxIdleTime)

	if err := db.AutoMigrate(
		&models.Business{},
		&models.OpeningHours{},
		&models.User{},
		&models.Service{},
		&models.Block{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(`
        UPDATE businesses
        SET timezone = 'UTC'
        WHERE timezone IS NULL OR timezone = ''
    `).Error; err != nil {
		return nil, fmt.Errorf("backfill timezone: %w", err)
	}

	return db, nil
}

// Ping checks the pool with the caller's deadline.
func Ping(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// newGormLogger routes gorm output through zap. Only warnings and
// errors are logged unless LOG_LEVEL is debug.
func newGormLogger(cfg *config.Config, log *zap.Logger) gormlogger.Interface {
	return gormlogger.New(
		zap.NewStdLog(log.Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func gormLevel(logLevel string) gormlogger.LogLevel {
	switch logger.ParseLevel(logLevel) {
	case zapcore.DebugLevel:
		return gormlogger.Info
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
