package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskdesk/api/handler"
	"github.com/fastygo/taskdesk/internal/config"
	"github.com/fastygo/taskdesk/internal/infrastructure/buffer"
	"github.com/fastygo/taskdesk/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/taskdesk/internal/infrastructure/postgres"
	"github.com/fastygo/taskdesk/internal/middleware"
	"github.com/fastygo/taskdesk/internal/router"
	"github.com/fastygo/taskdesk/internal/security"
	"github.com/fastygo/taskdesk/internal/services"
	"github.com/fastygo/taskdesk/internal/services/lifecycle"
	"github.com/fastygo/taskdesk/pkg/httpcontext"
	"github.com/fastygo/taskdesk/pkg/logger"
	"github.com/fastygo/taskdesk/repository"
	"github.com/fastygo/taskdesk/repository/memory"
	"github.com/fastygo/taskdesk/repository/postgres"
	"github.com/fastygo/taskdesk/usecase"
	dashboardUC "github.com/fastygo/taskdesk/usecase/dashboard"
	taskUC "github.com/fastygo/taskdesk/usecase/task"
)

func main() {
	cfg, err := config.Load(config.ServiceTasks)
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

	var (
		taskRepo repository.TaskRepository
		checks   []monitor.Check
	)
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
		taskRepo = postgres.NewTaskRepository(pool)
		checks = append(checks, monitor.PostgresCheck(pool))
	} else {
		zapLogger.Warn("task store is in memory; tasks are lost on restart")
		taskRepo = memory.NewTaskRepository()
	}

	var bufferStore *buffer.Store
	if cfg.Buffer.Enabled {
		bufferStore, err = buffer.Open(cfg.Buffer.Path, "tasks", buffer.WithMaxSize(cfg.Buffer.MaxSize))
		if err != nil {
			zapLogger.Fatal("failed to open buffer store", zap.Error(err))
		}
		manager.RegisterCloser("buffer", bufferStore)
		checks = append(checks, monitor.BufferCheck(bufferStore))
	}

	mon := monitor.New(checks, bufferStore, cfg.Context.HealthInterval, zapLogger)
	mon.Refresh(appCtx)
	mon.Start()
	manager.Register("monitor", func(context.Context) error {
		mon.Stop()
		return nil
	})

	var opBuffer usecase.OperationBuffer
	if bufferStore != nil {
		processor, err := services.NewBufferProcessor(bufferStore, mon, taskRepo, zapLogger, services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  cfg.Buffer.Retention,
		})
		if err != nil {
			zapLogger.Fatal("failed to schedule buffer drain", zap.Error(err))
		}
		processor.Start()
		manager.Register("buffer_processor", func(ctx context.Context) error {
			processor.Stop(ctx)
			return nil
		})
		opBuffer = services.NewBufferBridge(processor)
	}

	taskUseCase := taskUC.New(taskRepo, opBuffer, zapLogger)
	dashboardUseCase := dashboardUC.New(taskRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	errWriter := apiHandler.TaskErrorWriter(zapLogger)

	var gate middleware.Middleware
	if cfg.Tasks.RequireAuth {
		tokens, err := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer)
		if err != nil {
			zapLogger.Fatal("token manager", zap.Error(err))
		}
		gate = middleware.JWTAuth(tokens, errWriter, zapLogger)
	}

	handler := router.NewTaskRouter(router.TaskHandlers{
		Task:      apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Dashboard: apiHandler.NewDashboardHandler(dashboardUseCase, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}, router.Options{
		Auth:   gate,
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
			zap.Bool("require_auth", cfg.Tasks.RequireAuth),
			zap.Bool("buffer", cfg.Buffer.Enabled))
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
