package constants

import "time"

const (
	UsernameMinLength  = 4
	UsernameMaxLength  = 16
	PasswordMinLength  = 6
	PasswordMaxLength  = 16
	JWTSecretMinLength = 32

	StarterStampCount = 5
	StarterStampName  = "China"

	MaxAvatarSizeBytes    = 5 * 1024 * 1024
	DefaultMaxRequestSize = 10 << 20

	UserCacheTTL = 5 * time.Minute

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "8080"
	DefaultRequestTimeout = 5 * time.Second
	DefaultUploadTimeout  = 30 * time.Second
	DefaultSessionTTL     = 12 * time.Hour
	DefaultUploadDir      = "uploads"
	DefaultListPageSize   = 10
	MaxListPageSize       = 100

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
