package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskdesk/api/handler"
	"github.com/fastygo/taskdesk/internal/config"
	"github.com/fastygo/taskdesk/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/taskdesk/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/taskdesk/internal/infrastructure/redis"
	"github.com/fastygo/taskdesk/internal/middleware"
	"github.com/fastygo/taskdesk/internal/router"
	"github.com/fastygo/taskdesk/internal/security"
	"github.com/fastygo/taskdesk/internal/services/lifecycle"
	"github.com/fastygo/taskdesk/pkg/httpcontext"
	"github.com/fastygo/taskdesk/pkg/logger"
	"github.com/fastygo/taskdesk/repository"
	"github.com/fastygo/taskdesk/repository/memory"
	"github.com/fastygo/taskdesk/repository/postgres"
	redisRepo "github.com/fastygo/taskdesk/repository/redis"
	authUC "github.com/fastygo/taskdesk/usecase/auth"
	profileUC "github.com/fastygo/taskdesk/usecase/profile"
)

func main() {
	cfg, err := config.Load(config.ServiceAuth)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	stopSignals := manager.CancelOnSignal(cancel)
	defer stopSignals()

	var checks []monitor.Check

	var userRepo repository.UserRepository
	if cfg.UsesPostgres() {
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(context.Context) error {
			pgInfra.Close(pool, zapLogger)
			return nil
		})
		userRepo = postgres.NewUserRepository(pool)
		checks = append(checks, monitor.PostgresCheck(pool))
	} else {
		zapLogger.Warn("user directory is in memory; accounts are lost on restart")
		userRepo = memory.NewUserRepository()
	}

	var sessionRepo repository.SessionRepository
	if cfg.Redis.URL != "" {
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.RegisterCloser("redis", redisClient)
		sessionRepo = redisRepo.NewSessionRepository(redisClient, cfg.Auth.TokenTTL)
		checks = append(checks, monitor.RedisCheck(redisClient))
	} else {
		sessionRepo = memory.NewSessionRepository(cfg.Auth.TokenTTL)
	}

	mon := monitor.New(checks, nil, cfg.Context.HealthInterval, zapLogger)
	mon.Refresh(appCtx)
	mon.Start()
	manager.Register("monitor", func(context.Context) error {
		mon.Stop()
		return nil
	})

	tokens, err := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		zapLogger.Fatal("token manager", zap.Error(err))
	}

	authUseCase := authUC.New(userRepo, sessionRepo, security.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, cfg.Auth.TokenTTL, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	errWriter := apiHandler.AuthErrorWriter(zapLogger)

	handler := router.NewAuthRouter(router.AuthHandlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, profileUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}, router.Options{
		Auth:   middleware.JWTAuth(authUseCase, errWriter, zapLogger),
		CORS:   middleware.CORS(cfg.CORS.AllowedOrigins, cfg.CORS.MaxAge),
		Errors: errWriter,
		Logger: zapLogger,
	})

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("environment", cfg.Environment),
			zap.String("user_store", cfg.Auth.UserStore),
			zap.Bool("redis_sessions", cfg.Redis.URL != ""))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
