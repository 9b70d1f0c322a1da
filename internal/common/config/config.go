package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/verygoodisland/backend/internal/common/constants"
	commonerrors "github.com/verygoodisland/backend/internal/common/errors"
)

const (
	HashSchemeMD5    = "md5"
	HashSchemeBcrypt = "bcrypt"
)

type Config struct {
	HTTPPort    string
	DatabaseURL string
	JWTSecret   string

	// RedisAddr enables the account read cache when set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	UploadDir  string
	HashScheme string

	SessionTTL     time.Duration
	RequestTimeout time.Duration
	UploadTimeout  time.Duration

	StarterStampName  string
	StarterStampCount int
}

func Load() (Config, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}

	if len(jwtSecret) < constants.JWTSecretMinLength {
		return Config{}, commonerrors.ErrInvalidJWTSecret.WithCause(
			fmt.Errorf("got %d bytes", len(jwtSecret)))
	}

	hashScheme := getEnv("HASH_SCHEME", HashSchemeMD5)
	if hashScheme != HashSchemeMD5 && hashScheme != HashSchemeBcrypt {
		return Config{}, fmt.Errorf("unsupported HASH_SCHEME %q", hashScheme)
	}

	return Config{
		HTTPPort:          getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:       databaseURL,
		JWTSecret:         jwtSecret,
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getIntEnv("REDIS_DB", 0),
		UploadDir:         getEnv("UPLOAD_DIR", constants.DefaultUploadDir),
		HashScheme:        hashScheme,
		SessionTTL:        getDurationEnv("SESSION_TTL", constants.DefaultSessionTTL),
		RequestTimeout:    getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		UploadTimeout:     getDurationEnv("UPLOAD_TIMEOUT", constants.DefaultUploadTimeout),
		StarterStampName:  getEnv("STARTER_STAMP_NAME", constants.StarterStampName),
		StarterStampCount: getIntEnv("STARTER_STAMP_COUNT", constants.StarterStampCount),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("%s", key))
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
