package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	appattendance "github.com/staffpoint/backend/internal/application/attendance"
	appenrollment "github.com/staffpoint/backend/internal/application/enrollment"
	apppasses "github.com/staffpoint/backend/internal/application/passes"
	"github.com/staffpoint/backend/internal/domain/shared"
	"github.com/staffpoint/backend/internal/infrastructure/auth"
	"github.com/staffpoint/backend/internal/infrastructure/cache"
	"github.com/staffpoint/backend/internal/infrastructure/config"
	"github.com/staffpoint/backend/internal/infrastructure/event"
	"github.com/staffpoint/backend/internal/infrastructure/logger"
	"github.com/staffpoint/backend/internal/infrastructure/persistence"
	"github.com/staffpoint/backend/internal/infrastructure/sms"
	"github.com/staffpoint/backend/internal/interfaces/http/handler"
	"github.com/staffpoint/backend/internal/interfaces/http/middleware"
	"github.com/staffpoint/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Primary database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("connect primary database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	// Read-only registry connection
	registry, err := persistence.NewRegistryDatabase(&cfg.Registry)
	if err != nil {
		return fmt.Errorf("connect registry database: %w", err)
	}
	defer func() {
		_ = registry.Close()
	}()

	// OTP challenge store: redis when configured, in-memory otherwise
	var otpStore cache.OTPStore
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() {
			_ = redisClient.Close()
		}()
		otpStore = cache.NewRedisOTPStore(redisClient, cfg.OTP.TTL)
		log.Info("Using redis OTP store")
	} else {
		memStore := cache.NewInMemoryOTPStore(cfg.OTP.TTL)
		defer func() {
			_ = memStore.Close()
		}()
		otpStore = memStore
		log.Info("Using in-memory OTP store")
	}

	// SMS delivery: real gateway when configured, log-only otherwise
	var smsSender sms.Sender
	if cfg.SMS.Enabled {
		smsSender = sms.NewGatewaySender(cfg.SMS, log)
	} else {
		smsSender = sms.NewNoopSender(log)
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	eventBus := event.NewInMemoryEventBus(log)
	clock := shared.SystemClock{}

	// Repositories
	recordRepo := persistence.NewGormRecordRepository(db.DB)
	tokenRepo := persistence.NewGormTokenRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	directory := persistence.NewSQLPersonDirectory(registry.DB, log)

	// Application services
	tokenService := apppasses.NewTokenService(tokenRepo, directory, clock, log)
	attendanceService := appattendance.NewAttendanceService(recordRepo, tokenService, eventBus, clock, log)
	enrollmentService := appenrollment.NewEnrollmentService(
		accountRepo, directory, otpStore, smsSender, jwtService, cfg.OTP.TTL, clock, log)

	// HTTP engine and middleware
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return fmt.Errorf("set trusted proxies: %w", err)
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.JWTAuthMiddleware(jwtService))

	// Routes
	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler(db, registry))
	r.Register(handler.NewPassHandler(tokenService))
	r.Register(handler.NewAttendanceHandler(attendanceService))
	r.Register(handler.NewEnrollmentHandler(enrollmentService))
	r.Register(handler.NewAdminHandler(attendanceService))
	r.Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
