package gormstore

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Dialect selects the gorm dialector for a store driver
func Dialect(driver, dsn string) (gorm.Dialector, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn cannot be empty for driver %s", driver)
	}
	switch driver {
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}

// Open connects to the plan store and migrates its schema
func Open(driver, dsn string, logger *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("plan store ready", zap.String("driver", driver))
	}
	return db, nil
}

// Migrate creates or updates the plan tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&planRow{}, &orderRow{}, &exceptionRow{}, &changeRow{}); err != nil {
		return fmt.Errorf("migrating plan store: %w", err)
	}
	return nil
}
