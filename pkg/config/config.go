package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Cache     CacheConfig
	Planner   PlannerConfig
	Analytics AnalyticsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs the weekly-view cache.
type CacheConfig struct {
	Enabled   bool
	WeeklyTTL time.Duration
}

// PlannerConfig drives the study schedule generator.
type PlannerConfig struct {
	DayStart       string
	DayEnd         string
	StudyDuration  int
	BreakDuration  int
	MaxCandidates  int
	DedupeEntries  bool
	MaxRangeDays   int
	LockTTL        time.Duration
	LockWait       time.Duration
	LockRetryDelay time.Duration
}

// AnalyticsConfig sizes the analytics recompute queue.
type AnalyticsConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:   v.GetBool("ENABLE_CACHE"),
		WeeklyTTL: parseDuration(v.GetString("WEEKLY_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Planner = PlannerConfig{
		DayStart:       v.GetString("PLANNER_DAY_START"),
		DayEnd:         v.GetString("PLANNER_DAY_END"),
		StudyDuration:  v.GetInt("PLANNER_STUDY_DURATION"),
		BreakDuration:  v.GetInt("PLANNER_BREAK_DURATION"),
		MaxCandidates:  v.GetInt("PLANNER_MAX_CANDIDATES"),
		DedupeEntries:  v.GetBool("PLANNER_DEDUPE_GENERATED_ENTRIES"),
		MaxRangeDays:   v.GetInt("PLANNER_MAX_RANGE_DAYS"),
		LockTTL:        parseDuration(v.GetString("PLANNER_LOCK_TTL"), 30*time.Second),
		LockWait:       parseDuration(v.GetString("PLANNER_LOCK_WAIT"), 10*time.Second),
		LockRetryDelay: parseDuration(v.GetString("PLANNER_LOCK_RETRY_DELAY"), 100*time.Millisecond),
	}

	cfg.Analytics = AnalyticsConfig{
		Workers:    v.GetInt("ANALYTICS_WORKERS"),
		BufferSize: v.GetInt("ANALYTICS_BUFFER_SIZE"),
		MaxRetries: v.GetInt("ANALYTICS_MAX_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "study_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "study-planner-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", true)
	v.SetDefault("WEEKLY_CACHE_TTL", "5m")

	v.SetDefault("PLANNER_DAY_START", "08:00")
	v.SetDefault("PLANNER_DAY_END", "22:00")
	v.SetDefault("PLANNER_STUDY_DURATION", 90)
	v.SetDefault("PLANNER_BREAK_DURATION", 15)
	v.SetDefault("PLANNER_MAX_CANDIDATES", 10)
	v.SetDefault("PLANNER_DEDUPE_GENERATED_ENTRIES", false)
	v.SetDefault("PLANNER_MAX_RANGE_DAYS", 366)
	v.SetDefault("PLANNER_LOCK_TTL", "30s")
	v.SetDefault("PLANNER_LOCK_WAIT", "10s")
	v.SetDefault("PLANNER_LOCK_RETRY_DELAY", "100ms")

	v.SetDefault("ANALYTICS_WORKERS", 1)
	v.SetDefault("ANALYTICS_BUFFER_SIZE", 64)
	v.SetDefault("ANALYTICS_MAX_RETRIES", 3)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
