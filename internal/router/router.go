package router

import (
	"fmt"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskdesk/api/handler"
	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/internal/middleware"
)

// Options carries the cross-cutting pieces shared by both services.
type Options struct {
	// Auth guards protected routes. Nil leaves them open.
	Auth   middleware.Middleware
	CORS   middleware.Middleware
	Errors apiHandler.ErrorWriter
	Logger *zap.Logger
}

type TaskHandlers struct {
	Task      *apiHandler.TaskHandler
	Dashboard *apiHandler.DashboardHandler
	Health    *apiHandler.HealthHandler
}

type AuthHandlers struct {
	Auth   *apiHandler.AuthHandler
	Health *apiHandler.HealthHandler
}

// NewTaskRouter serves the task service. Every /api route except health
// goes through opts.Auth.
func NewTaskRouter(h TaskHandlers, opts Options) fasthttp.RequestHandler {
	r, guard := newRouter(opts)

	r.GET("/api/health", h.Health.Check)

	r.POST("/api/ai/extract-tasks", guard(h.Task.ExtractTasks))

	r.GET("/api/tasks", guard(h.Task.GetTasks))
	r.POST("/api/tasks", guard(h.Task.CreateTask))
	r.GET("/api/tasks/{id}", guard(h.Task.GetTask))
	r.PUT("/api/tasks/{id}", guard(h.Task.UpdateTask))
	r.DELETE("/api/tasks/{id}", guard(h.Task.DeleteTask))

	r.GET("/api/professions", guard(h.Dashboard.Professions))
	r.GET("/api/dashboard", guard(h.Dashboard.Get))
	r.GET("/api/dashboard/{profession}", guard(h.Dashboard.Get))

	return wrap(r, opts)
}

// NewAuthRouter serves the auth service. opts.Auth is required for the
// session routes.
func NewAuthRouter(h AuthHandlers, opts Options) fasthttp.RequestHandler {
	r, guard := newRouter(opts)

	r.GET("/api/health", h.Health.Check)

	r.POST("/api/auth/register", h.Auth.Register)
	r.POST("/api/auth/login", h.Auth.Login)

	r.GET("/api/auth/me", guard(h.Auth.Me))
	r.PUT("/api/auth/profession", guard(h.Auth.SelectProfession))
	r.POST("/api/auth/logout", guard(h.Auth.Logout))

	return wrap(r, opts)
}

func newRouter(opts Options) (*router.Router, func(fasthttp.RequestHandler) fasthttp.RequestHandler) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fail := opts.Errors
	if fail == nil {
		fail = apiHandler.TaskErrorWriter(logger)
	}

	r := router.New()
	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		fail(ctx, domain.NewError(domain.ErrCodeNotFound, "Route not found"))
	}
	r.MethodNotAllowed = func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
	}
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, rec interface{}) {
		logger.Error("handler panic",
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Any("panic", rec))
		fail(ctx, fmt.Errorf("panic: %v", rec))
	}

	guard := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		if opts.Auth == nil {
			return h
		}
		return opts.Auth(h)
	}
	return r, guard
}

func wrap(r *router.Router, opts Options) fasthttp.RequestHandler {
	mws := []middleware.Middleware{middleware.AccessLog(opts.Logger)}
	if opts.CORS != nil {
		mws = append(mws, opts.CORS)
	}
	return middleware.Chain(r.Handler, mws...)
}
