package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Flags select between legacy and strict record-visibility rules.
type Flags struct {
	StrictCustomerIDScope    bool
	ScopePackChecksToOwner   bool
	CascadeCustomerDelete    bool
	EnforceDeliveryDirection bool
}

type Config struct {
	Port     string
	Env      string
	LogLevel string

	// DBURL empty means records are kept in memory.
	DBURL             string
	DBMaxIdleConns    int
	DBMaxOpenConns    int
	DBConnMaxLifetime time.Duration

	JWTSecret   string
	CORSOrigins []string

	// RedisAddr empty means changes are fanned out in process.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	ReminderSchedule string
	ReminderAfter    time.Duration
	ReminderTo       string

	Flags Flags
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBURL:             getEnv("DB_URL", ""),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),

		ReminderSchedule: getEnv("DELIVERY_REMINDER_SCHEDULE", ""),
		ReminderAfter:    getEnvAsDuration("DELIVERY_REMINDER_AFTER", 24*time.Hour),
		ReminderTo:       getEnv("DELIVERY_REMINDER_TO", ""),

		Flags: Flags{
			StrictCustomerIDScope:    getEnvAsBool("STRICT_CUSTOMER_ID_SCOPE", false),
			ScopePackChecksToOwner:   getEnvAsBool("SCOPE_PACK_CHECKS_TO_OWNER", false),
			CascadeCustomerDelete:    getEnvAsBool("CASCADE_CUSTOMER_DELETE", false),
			EnforceDeliveryDirection: getEnvAsBool("ENFORCE_DELIVERY_DIRECTION", false),
		},
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret"
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// RemindersEnabled reports whether the delivery reminder job has a
// schedule, a recipient and Twilio credentials.
func (c *Config) RemindersEnabled() bool {
	return c.ReminderSchedule != "" && c.ReminderTo != "" &&
		c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}

// Fields describes the config for the startup log line, without secrets.
func (c *Config) Fields() []zap.Field {
	return []zap.Field{
		zap.String("environment", c.Env),
		zap.String("port", c.Port),
		zap.Bool("database", c.DBURL != ""),
		zap.Bool("redis", c.RedisAddr != ""),
		zap.Bool("reminders", c.RemindersEnabled()),
		zap.Strings("cors_origins", c.CORSOrigins),
		zap.Any("flags", c.Flags),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
