package db

import (
	"fmt" // Error formatting

	"auth_pay_service/internal/config" // Custom package for configuration

	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/gorm"            // GORM ORM library
	"gorm.io/gorm/logger"     // GORM logger levels
)

// Open connects to the configured database. TranslateError is always on so
// the ledger store can recognise unique constraint violations.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql", "":
		dialector = mysql.Open(cfg.DSN())
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return gorm.Open(dialector, Options(cfg.IsProd))
}

// Options returns the GORM config shared by every driver
func Options(quiet bool) *gorm.Config {
	level := logger.Warn
	if quiet {
		level = logger.Error
	}
	return &gorm.Config{
		TranslateError: true,                          // Map driver errors to gorm.ErrDuplicatedKey etc.
		Logger:         logger.Default.LogMode(level), // SQL logging level
	}
}
