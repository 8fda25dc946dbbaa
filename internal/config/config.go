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
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// AttendanceConfig holds the punch reconciliation thresholds. Loaded
// once at startup; the engine receives them by value and never reads
// ambient state.
type AttendanceConfig struct {
	FullDayMinutes        int
	HalfDayMinutes        int
	LateThresholdMinutes  int
	ShiftStartTime        string // HH:MM
	BreakDeductionMinutes int
}

func Load() (*Config, error) {
	// .env is optional outside local development.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "presensia"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	// Attendance reconciliation thresholds
	fullDay, err := getEnvInt("ATTENDANCE_FULL_DAY_MINUTES", 480)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_FULL_DAY_MINUTES: %w", err)
	}
	halfDay, err := getEnvInt("ATTENDANCE_HALF_DAY_MINUTES", 240)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_HALF_DAY_MINUTES: %w", err)
	}
	lateThreshold, err := getEnvInt("ATTENDANCE_LATE_THRESHOLD_MINUTES", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_LATE_THRESHOLD_MINUTES: %w", err)
	}
	breakDeduction, err := getEnvInt("ATTENDANCE_BREAK_DEDUCTION_MINUTES", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_BREAK_DEDUCTION_MINUTES: %w", err)
	}

	config.Attendance = AttendanceConfig{
		FullDayMinutes:        fullDay,
		HalfDayMinutes:        halfDay,
		LateThresholdMinutes:  lateThreshold,
		ShiftStartTime:        getEnv("ATTENDANCE_SHIFT_START_TIME", "09:00"),
		BreakDeductionMinutes: breakDeduction,
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
	if c.Attendance.FullDayMinutes <= 0 {
		return fmt.Errorf("ATTENDANCE_FULL_DAY_MINUTES must be positive")
	}
	if c.Attendance.HalfDayMinutes <= 0 || c.Attendance.HalfDayMinutes > c.Attendance.FullDayMinutes {
		return fmt.Errorf("ATTENDANCE_HALF_DAY_MINUTES must be positive and not exceed the full-day threshold")
	}
	if c.Attendance.LateThresholdMinutes < 0 {
		return fmt.Errorf("ATTENDANCE_LATE_THRESHOLD_MINUTES must not be negative")
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

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
