package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pawnledger/internal/adapters/persistence/models"
	"pawnledger/internal/pkg/logger"
)

// ConnectDatabase opens the configured store: MySQL in production,
// a SQLite file for local use
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	gormLogger := NewGormLogger(cfg)

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Driver {
	case "sqlite":
		db, err = OpenSQLite(cfg.Database.SQLitePath, gormLogger)
	default:
		db, err = openMySQL(cfg.Database, gormLogger)
	}
	if err != nil {
		return nil, err
	}

	logger.WithComponent("database").Info("database connected",
		"driver", cfg.Database.Driver,
		"target", describe(cfg.Database),
	)
	return db, nil
}

// NewGormLogger writes SQL warnings to the same sink as the process logger,
// never stdout. Lookups that miss are expected and stay quiet.
func NewGormLogger(cfg *Config) gormlogger.Interface {
	level := gormlogger.Error
	if cfg.IsDev() {
		level = gormlogger.Warn
	}

	var w io.Writer = os.Stderr
	if cfg.Log.Output != nil {
		w = cfg.Log.Output
	}

	return gormlogger.New(log.New(w, "\r\n", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func openMySQL(d DatabaseConfig, gormLogger gormlogger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(buildDSN(d)), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// OpenSQLite opens a SQLite database with foreign keys enforced. A single
// connection serialises writers; path ":memory:" gives a private in-memory store.
func OpenSQLite(path string, gormLogger gormlogger.Interface) (*gorm.DB, error) {
	if gormLogger == nil {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	dsn := "file:" + path + "?_foreign_keys=1"
	if path == ":memory:" {
		dsn = "file::memory:?_foreign_keys=1"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return db, nil
}

// buildDSN returns the database connection string
func buildDSN(d DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.DBName,
	)
}

func describe(d DatabaseConfig) string {
	if d.Driver == "sqlite" {
		return d.SQLitePath
	}
	return strings.Join([]string{d.Host, ":", d.Port, "/", d.DBName}, "")
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.WithComponent("database").Info("database migrated")
	return nil
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// HealthCheck checks if database is healthy
func HealthCheck(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}
