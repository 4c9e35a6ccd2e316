package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Storage     StorageConfig
	Persistence PersistenceConfig
	Timeclock   TimeclockConfig
	Cron        CronConfig
	CORS        CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name            string
	Version         string
	Port            int
	Env             string
	LogLevel        string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// StorageConfig controls where uploaded punch files are archived
type StorageConfig struct {
	Type     string // local or none
	BasePath string
}

// PersistenceConfig selects the repository backend
type PersistenceConfig struct {
	Backend     string // postgres or memory
	RosterFile  string // JSON roster used by the memory backend
	AutoMigrate bool
}

// TimeclockConfig tunes reconciliation
type TimeclockConfig struct {
	DedupWindowMinutes   int
	MonthlyHours         float64
	DefaultMonthlySalary float64
	NameMatcher          string
	FuzzyMaxDistance     int
	OutputSelection      string
	Locale               string
}

type CronConfig struct {
	RosterRefreshInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"

	StorageLocal = "local"
	StorageNone  = "none"
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := getEnvDuration("APP_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Name:            getEnv("APP_NAME", "timeclock-backend"),
		Version:         getEnv("APP_VERSION", "dev"),
		Port:            appPort,
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: shutdownTimeout,
	}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "timeclock"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	config.Storage = StorageConfig{
		Type:     strings.ToLower(getEnv("STORAGE_TYPE", StorageLocal)),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
	}

	autoMigrate, err := getEnvBool("DB_AUTO_MIGRATE", true)
	if err != nil {
		return nil, err
	}
	config.Persistence = PersistenceConfig{
		Backend:     strings.ToLower(getEnv("PERSISTENCE_BACKEND", BackendPostgres)),
		RosterFile:  getEnv("ROSTER_FILE", ""),
		AutoMigrate: autoMigrate,
	}

	// Timeclock configuration
	dedupWindow, err := getEnvInt("TIMECLOCK_DEDUP_WINDOW_MINUTES", 5)
	if err != nil {
		return nil, err
	}
	monthlyHours, err := getEnvFloat("TIMECLOCK_MONTHLY_HOURS", 230)
	if err != nil {
		return nil, err
	}
	defaultSalary, err := getEnvFloat("TIMECLOCK_DEFAULT_MONTHLY_SALARY", 1300000)
	if err != nil {
		return nil, err
	}
	fuzzyDistance, err := getEnvInt("TIMECLOCK_FUZZY_MAX_DISTANCE", 2)
	if err != nil {
		return nil, err
	}

	config.Timeclock = TimeclockConfig{
		DedupWindowMinutes:   dedupWindow,
		MonthlyHours:         monthlyHours,
		DefaultMonthlySalary: defaultSalary,
		NameMatcher:          strings.ToLower(getEnv("TIMECLOCK_NAME_MATCHER", "substring")),
		FuzzyMaxDistance:     fuzzyDistance,
		OutputSelection:      strings.ToLower(getEnv("TIMECLOCK_OUTPUT_SELECTION", "violations")),
		Locale:               getEnv("TIMECLOCK_LOCALE", "es"),
	}

	rosterRefresh, err := getEnvDuration("CRON_ROSTER_REFRESH_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	config.Cron = CronConfig{RosterRefreshInterval: rosterRefresh}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}

	switch c.Persistence.Backend {
	case BackendPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("PERSISTENCE_BACKEND must be one of: postgres, memory")
	}

	switch c.Storage.Type {
	case StorageLocal:
		if c.Storage.BasePath == "" {
			return fmt.Errorf("STORAGE_BASE_PATH is required for local storage")
		}
	case StorageNone:
	default:
		return fmt.Errorf("STORAGE_TYPE must be one of: local, none")
	}

	if c.Timeclock.DedupWindowMinutes < 0 {
		return fmt.Errorf("TIMECLOCK_DEDUP_WINDOW_MINUTES must not be negative")
	}
	if c.Timeclock.MonthlyHours <= 0 {
		return fmt.Errorf("TIMECLOCK_MONTHLY_HOURS must be positive")
	}
	if c.Timeclock.DefaultMonthlySalary <= 0 {
		return fmt.Errorf("TIMECLOCK_DEFAULT_MONTHLY_SALARY must be positive")
	}
	switch c.Timeclock.NameMatcher {
	case "substring", "exact", "fuzzy":
	default:
		return fmt.Errorf("TIMECLOCK_NAME_MATCHER must be one of: substring, exact, fuzzy")
	}
	if c.Timeclock.FuzzyMaxDistance < 0 {
		return fmt.Errorf("TIMECLOCK_FUZZY_MAX_DISTANCE must not be negative")
	}
	switch c.Timeclock.OutputSelection {
	case "violations", "all":
	default:
		return fmt.Errorf("TIMECLOCK_OUTPUT_SELECTION must be one of: violations, all")
	}

	if c.Cron.RosterRefreshInterval < 0 {
		return fmt.Errorf("CRON_ROSTER_REFRESH_INTERVAL must not be negative")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
