package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrMissingSecret = fmt.Errorf("JWT_SECRET is required")

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
	DBTimeZone string
	DBLogLevel string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	PriceCacheTTL   time.Duration

	HTTPAddr string
	LogLevel string
}

// Load reads the configuration from the environment. A .env file, when
// present, is loaded first and never overrides variables already set.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	redisDB, err := strconv.Atoi(getenv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}

	cfg := &Config{
		DBHost:     getenv("DB_HOST", "localhost"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getenv("DB_NAME", "wealth"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),
		DBTimeZone: getenv("DB_TIMEZONE", "UTC"),
		DBLogLevel: getenv("DB_LOG_LEVEL", "warn"),

		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		JWTSecret: os.Getenv("JWT_SECRET"),

		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"ACCESS_TOKEN_TTL", "24h", &cfg.AccessTokenTTL},
		{"REFRESH_TOKEN_TTL", "168h", &cfg.RefreshTokenTTL},
		{"PRICE_CACHE_TTL", "5m", &cfg.PriceCacheTTL},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getenv(d.key, d.fallback))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = v
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode, c.DBTimeZone)
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// InitDB opens the PostgreSQL connection. Constraint violations come back as
// gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.DBLogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func InitRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return rdb, nil
}
