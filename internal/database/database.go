// Package database opens the gorm connection for the configured driver.
package database

import (
	"fmt"

	"catalog/internal/config"
	"catalog/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the database described by cfg and, when enabled,
// migrates the products table.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	return open(cfg, logger, func(db *gorm.DB) error {
		return db.AutoMigrate(&models.Product{})
	})
}

func open(cfg config.DatabaseConfig, logger *zap.Logger, migrate func(*gorm.DB) error) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	if cfg.AutoMigrate {
		if err := migrate(db); err != nil {
			if cerr := Close(db); cerr != nil {
				logger.Warn("Failed to close database after migration error", zap.Error(cerr))
			}
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	logger.Info("Database connection established", zap.String("driver", cfg.Driver))
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("no gorm dialector for driver %q", cfg.Driver)
	}
}
