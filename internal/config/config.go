package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type OracleConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type CloudinaryConfig struct {
	CloudName    string
	UploadPreset string
}

type CalendarConfig struct {
	ClientID              string
	ClientSecret          string
	EncryptedRefreshToken string
	CalendarID            string
}

func (c CalendarConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.EncryptedRefreshToken != ""
}

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFormat   string
	Timezone    string

	DatabaseDriver string
	DatabaseDSN    string

	JWTSecret    string
	CryptoKey    string
	CookieDomain string

	CORSAllowedOrigins []string
	SwaggerEnabled     bool

	Oracle            OracleConfig
	InterviewMaxTurns int
	ReminderPlatform  string

	Cloudinary CloudinaryConfig
	Calendar   CalendarConfig
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		Timezone:    getEnv("TZ", "America/Sao_Paulo"),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseDSN:    getEnv("DATABASE_DSN", ""),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		CryptoKey:    getEnv("CRYPTO_KEY", ""),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8081")),
		SwaggerEnabled:     getEnvBool("SWAGGER_ENABLED", true),

		Oracle: OracleConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("ORACLE_MODEL", "gemini-2.0-flash"),
			Timeout: getEnvDuration("ORACLE_TIMEOUT", 30*time.Second),
		},
		InterviewMaxTurns: getEnvInt("INTERVIEW_MAX_TURNS", 8),
		ReminderPlatform:  getEnv("REMINDER_PLATFORM", "ios"),

		Cloudinary: CloudinaryConfig{
			CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
			UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
		},
		Calendar: CalendarConfig{
			ClientID:              getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret:          getEnv("GOOGLE_CLIENT_SECRET", ""),
			EncryptedRefreshToken: getEnv("GOOGLE_CALENDAR_REFRESH_TOKEN", ""),
			CalendarID:            getEnv("GOOGLE_CALENDAR_ID", "primary"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.ReminderPlatform {
	case "android", "ios":
	default:
		return fmt.Errorf("REMINDER_PLATFORM must be android or ios, got %q", c.ReminderPlatform)
	}
	if c.InterviewMaxTurns <= 0 {
		return fmt.Errorf("INTERVIEW_MAX_TURNS must be positive")
	}
	if c.Calendar.Enabled() && len(c.CryptoKey) != 32 {
		return fmt.Errorf("CRYPTO_KEY must be 32 bytes when Google Calendar reminders are enabled")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
