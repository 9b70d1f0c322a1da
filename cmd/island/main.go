package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/verygoodisland/backend/internal/common/clock"
	"github.com/verygoodisland/backend/internal/common/config"
	"github.com/verygoodisland/backend/internal/common/constants"
	commoncrypto "github.com/verygoodisland/backend/internal/common/crypto"
	"github.com/verygoodisland/backend/internal/common/db"
	commonhttp "github.com/verygoodisland/backend/internal/common/http"
	"github.com/verygoodisland/backend/internal/common/logger"
	srv "github.com/verygoodisland/backend/internal/common/server"
	"github.com/verygoodisland/backend/internal/imaging"
	"github.com/verygoodisland/backend/internal/location"
	stamprepo "github.com/verygoodisland/backend/internal/stamp/repository"
	stampservice "github.com/verygoodisland/backend/internal/stamp/service"
	"github.com/verygoodisland/backend/internal/storage"
	userhttp "github.com/verygoodisland/backend/internal/user/http"
	userrepo "github.com/verygoodisland/backend/internal/user/repository"
	userservice "github.com/verygoodisland/backend/internal/user/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "island", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	var users userrepo.Repository = userrepo.NewPgRepository(pool)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		users = userrepo.NewCachedRepository(users, rdb, constants.UserCacheTTL, log)
		log.Infof("account read cache enabled at %s", cfg.RedisAddr)
	}

	var hasher commoncrypto.PasswordHasher
	switch cfg.HashScheme {
	case config.HashSchemeBcrypt:
		hasher = &commoncrypto.BcryptHasher{}
	default:
		hasher = &commoncrypto.DigestHasher{}
	}

	avatars, err := storage.NewDiskStorage(cfg.UploadDir, log)
	if err != nil {
		log.Fatalf("failed to initialize avatar storage: %v", err)
	}

	stamps := stampservice.NewStampService(stamprepo.NewPgRepository(pool), log)
	clk := clock.NewRealClock()

	userService := userservice.NewUserService(userservice.UserServiceDeps{
		Repo:              users,
		Stamps:            stamps,
		Storage:           avatars,
		Locations:         location.NewStaticValidator(location.DefaultCities()),
		Hasher:            hasher,
		Sniffer:           imaging.NewSniffer(),
		Clock:             clk,
		Log:               log,
		StarterStampName:  cfg.StarterStampName,
		StarterStampCount: cfg.StarterStampCount,
	})

	handler := userhttp.NewHandler(userService, stamps, clk, log, userhttp.Config{
		JWTSecret:      cfg.JWTSecret,
		SessionTTL:     cfg.SessionTTL,
		RequestTimeout: cfg.RequestTimeout,
		UploadTimeout:  cfg.UploadTimeout,
	})

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	server := srv.New(cfg.HTTPPort, commonhttp.BuildBaseHandler(log, mux))
	srv.StartWithGracefulShutdown(server, log)
}
