package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SiteURL    string
	Security   SecurityConfig
	SMTP       SMTPConfig
}

// SecurityConfig holds the lockout/audit/reset thresholds. Built once in
// Load and passed into the security services; nothing mutates it after that.
type SecurityConfig struct {
	MaxAttempts        int
	LockoutDuration    time.Duration
	CleanupAfterDays   int
	ResetTokenTTL      time.Duration
	AuditRetentionDays int
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "portfolio"),
		SiteURL:    getEnv("SITE_URL", "http://localhost:3000"),
		Security:   LoadSecurity(),
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "noreply@localhost"),
		},
	}

	log.Println("✅ Config loaded")
	return cfg
}

func LoadSecurity() SecurityConfig {
	return SecurityConfig{
		MaxAttempts:        getEnvInt("LOCKOUT_MAX_ATTEMPTS", 5),
		LockoutDuration:    time.Duration(getEnvInt("LOCKOUT_DURATION_MINUTES", 15)) * time.Minute,
		CleanupAfterDays:   getEnvInt("LOCKOUT_CLEANUP_AFTER_DAYS", 30),
		ResetTokenTTL:      time.Duration(getEnvInt("RESET_TOKEN_TTL_MINUTES", 60)) * time.Minute,
		AuditRetentionDays: getEnvInt("AUDIT_RETENTION_DAYS", 365),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
