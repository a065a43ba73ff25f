package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"pawnledger/internal/pkg/logger"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Log      LogConfig
	Sweep    SweepConfig
	Seed     SeedConfig
	Location *time.Location

	AllowedOrigins string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // mysql or sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// LogConfig holds logger configuration. Process logs go to Output so that
// stdout stays free for command results.
type LogConfig struct {
	Level  string
	Format string
	Output io.Writer
}

// SweepConfig holds the optional scheduled overdue sweep. An empty Cron
// leaves sweeping to requests only.
type SweepConfig struct {
	Cron string
}

// SeedConfig holds the credentials of the initial Administrator
type SeedConfig struct {
	AdminName     string
	AdminPhone    string
	AdminLogin    string
	AdminPassword string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(v.GetString("APP_MODE"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	db := loadDatabaseConfig(v, appMode)
	if db.Driver != "mysql" && db.Driver != "sqlite" {
		return nil, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'sqlite')", db.Driver)
	}

	loc, err := time.LoadLocation(v.GetString("BUSINESS_TZ"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TZ: %w", err)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     v.GetString("PORT"),
		Database: db,
		JWT:      loadJWTConfig(v, appMode),
		Sweep:    SweepConfig{Cron: strings.TrimSpace(v.GetString("SWEEP_CRON"))},
		Location: loc,
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: os.Stderr,
		},
		Seed: SeedConfig{
			AdminName:     v.GetString("SEED_ADMIN_NAME"),
			AdminPhone:    v.GetString("SEED_ADMIN_PHONE"),
			AdminLogin:    v.GetString("SEED_ADMIN_LOGIN"),
			AdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
		},

		AllowedOrigins: strings.TrimSpace(v.GetString("ALLOWED_ORIGINS")),
	}

	if config.IsProd() && config.JWT.Secret == defaultJWTSecret {
		return nil, fmt.Errorf("PROD_JWT_SECRET must be set in prod mode")
	}

	return config, nil
}

const defaultJWTSecret = "change-me-in-production"

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_MODE", "dev")
	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("SQLITE_PATH", "pawnledger.db")
	v.SetDefault("ACCESS_TOKEN_MINUTES", 480)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("SWEEP_CRON", "5 0 * * *")
	v.SetDefault("BUSINESS_TZ", "Local")
	v.SetDefault("SEED_ADMIN_NAME", "System Administrator")
	v.SetDefault("SEED_ADMIN_PHONE", "79999999999")
	v.SetDefault("SEED_ADMIN_LOGIN", "admin")
	v.SetDefault("SEED_ADMIN_PASSWORD", "admin123")

	for _, prefix := range []string{"DEV_", "PROD_"} {
		v.SetDefault(prefix+"DB_HOST", "localhost")
		v.SetDefault(prefix+"DB_PORT", "3306")
		v.SetDefault(prefix+"DB_USER", "root")
		v.SetDefault(prefix+"DB_PASS", "")
		v.SetDefault(prefix+"DB_NAME", "pawnledger")
		v.SetDefault(prefix+"JWT_SECRET", defaultJWTSecret)
	}
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(v *viper.Viper, mode string) DatabaseConfig {
	prefix := modePrefix(mode)
	return DatabaseConfig{
		Driver:     strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		Host:       v.GetString(prefix + "DB_HOST"),
		Port:       v.GetString(prefix + "DB_PORT"),
		User:       v.GetString(prefix + "DB_USER"),
		Password:   v.GetString(prefix + "DB_PASS"),
		DBName:     v.GetString(prefix + "DB_NAME"),
		SQLitePath: v.GetString("SQLITE_PATH"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(v *viper.Viper, mode string) JWTConfig {
	return JWTConfig{
		Secret:          v.GetString(modePrefix(mode) + "JWT_SECRET"),
		AccessTokenMins: v.GetInt("ACCESS_TOKEN_MINUTES"),
	}
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// LoggerOptions returns the options for logger.Init
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		Output: c.Log.Output,
	}
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.AllowedOrigins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:" + c.Port
	}
	return c.AllowedOrigins
}
