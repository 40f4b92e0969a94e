package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// AttendanceConfig holds tunables for check-in ingestion, analytics and
// absence detection.
type AttendanceConfig struct {
	// OnlineWatchThresholdMinutes is the minimum watch duration for an
	// online record to count toward absence detection.
	OnlineWatchThresholdMinutes int
	// AbsenceLookbackDays bounds how far back the absence detector scans.
	AbsenceLookbackDays int
	// AbsenceStreakThreshold is the number of consecutive missed services
	// before a member is flagged.
	AbsenceStreakThreshold int
	// LinkBaseURL is the public prefix check-in links are issued under.
	LinkBaseURL string
}

func Load() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "chub"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance configuration
	watchThreshold, err := strconv.Atoi(getEnv("ONLINE_WATCH_THRESHOLD_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid ONLINE_WATCH_THRESHOLD_MINUTES: %w", err)
	}

	lookbackDays, err := strconv.Atoi(getEnv("ABSENCE_LOOKBACK_DAYS", "90"))
	if err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_LOOKBACK_DAYS: %w", err)
	}

	streakThreshold, err := strconv.Atoi(getEnv("ABSENCE_STREAK_THRESHOLD", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_STREAK_THRESHOLD: %w", err)
	}

	config.Attendance = AttendanceConfig{
		OnlineWatchThresholdMinutes: watchThreshold,
		AbsenceLookbackDays:         lookbackDays,
		AbsenceStreakThreshold:      streakThreshold,
		LinkBaseURL:                 getEnv("LINK_BASE_URL", "http://localhost:8080/checkin"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.OnlineWatchThresholdMinutes < 0 {
		return fmt.Errorf("ONLINE_WATCH_THRESHOLD_MINUTES must not be negative")
	}
	if c.Attendance.AbsenceStreakThreshold < 1 {
		return fmt.Errorf("ABSENCE_STREAK_THRESHOLD must be at least 1")
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
