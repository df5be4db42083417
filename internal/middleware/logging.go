package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fastygo/taskdesk/pkg/httpcontext"
)

// AccessLog writes one line per request. 5xx responses log at error level,
// 4xx at warn, health probes at debug.
func AccessLog(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			reqID := httpcontext.RequestID(ctx)

			next(ctx)

			status := ctx.Response.StatusCode()
			level := zapcore.InfoLevel
			switch {
			case status >= fasthttp.StatusInternalServerError:
				level = zapcore.ErrorLevel
			case status >= fasthttp.StatusBadRequest:
				level = zapcore.WarnLevel
			case string(ctx.Path()) == "/api/health":
				level = zapcore.DebugLevel
			}
			if ce := logger.Check(level, "http request"); ce != nil {
				ce.Write(
					zap.String("request_id", reqID),
					zap.ByteString("method", ctx.Method()),
					zap.ByteString("path", ctx.Path()),
					zap.Int("status", status),
					zap.Duration("latency", time.Since(start)),
					zap.String("remote_ip", ctx.RemoteIP().String()),
				)
			}
		}
	}
}
