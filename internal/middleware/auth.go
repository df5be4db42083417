package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/pkg/httpcontext"
)

// Middleware wraps a fasthttp handler.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// Authenticator verifies a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Claims, error)
}

// JWTAuth rejects requests without a valid bearer token and records the
// verified claims on the request for downstream handlers.
func JWTAuth(auth Authenticator, fail func(*fasthttp.RequestCtx, error), logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				fail(ctx, domain.ErrUnauthorized)
				return
			}

			stdCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			claims, err := auth.Authenticate(stdCtx, tokenString)
			cancel()
			if err != nil {
				logger.Debug("token rejected",
					zap.String("request_id", httpcontext.RequestID(ctx)),
					zap.Error(err))
				if !domain.IsDomainError(err, domain.ErrCodeInternal) && !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
					err = domain.ErrUnauthorized
				}
				fail(ctx, err)
				return
			}

			httpcontext.SetClaims(ctx, claims)
			next(ctx)
		}
	}
}

// Chain applies mws so the first one runs outermost.
func Chain(h fasthttp.RequestHandler, mws ...Middleware) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
