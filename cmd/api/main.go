package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"vida-plena/internal/config"
	"vida-plena/internal/db"
	"vida-plena/internal/email"
	apihttp "vida-plena/internal/http"
	"vida-plena/internal/repository"
	"vida-plena/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	var (
		store repository.AnswerStore
		users repository.UserRepository
		ping  apihttp.Pinger
	)
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		conn, err := db.OpenSQL(ctx, db.DriverSQLite, cfg.SQLitePath)
		if err != nil {
			logger.Fatal("sqlite open", zap.Error(err))
		}
		defer conn.Close()
		store = repository.NewSQLAnswerStore(conn)
		users = repository.NewSQLUserRepository(conn)
		ping = conn.PingContext
	default:
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		store = repository.NewPgAnswerStore(pool)
		users = repository.NewPgUserRepository(pool)
		ping = pool.Ping
	}

	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		logger.Warn("report timezone not found, using UTC", zap.String("tz", cfg.ReportTimezone), zap.Error(err))
		loc = time.UTC
	}

	var (
		reportLimiter service.RateLimiter
		tokenStore    service.RefreshTokenStore
		redisClient   *redis.Client
	)
	window := time.Duration(cfg.ReportRateWindowSeconds) * time.Second
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			reportLimiter = service.NewRedisRateLimiter(redisClient, window, cfg.ReportRateLimit)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}
	if reportLimiter == nil {
		reportLimiter = service.NewMemoryRateLimiter(window, cfg.ReportRateLimit)
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	authSvc := service.NewAuthService(logger, users)
	reportSvc := service.NewReportService(store, cfg.FetchChunkSize, loc, logger)
	authHandler := apihttp.NewAuthHandler(logger, authSvc, jwtSvc)
	reportMailer := service.NewReportMailer(reportSvc, newSender(cfg, logger), logger)
	reportHandler := apihttp.NewReportHandler(logger, reportSvc, reportLimiter, reportMailer)
	router := apihttp.NewRouter(logger, jwtSvc, authHandler, reportHandler, ping)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("store", cfg.StoreDriver),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newSender(cfg *config.Config, logger *zap.Logger) email.Sender {
	if cfg.SMTPHost == "" {
		return email.NewDisabledSender("SMTP_HOST not configured")
	}
	sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
	if err != nil {
		logger.Warn("smtp sender disabled", zap.Error(err))
		return email.NewDisabledSender(err.Error())
	}
	return sender
}
