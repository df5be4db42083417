package middleware

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/pkg/httpcontext"
)

type stubAuth struct {
	claims *domain.Claims
	err    error
	token  string
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*domain.Claims, error) {
	s.token = token
	return s.claims, s.err
}

func writeError(ctx *fasthttp.RequestCtx, err error) {
	status := fasthttp.StatusUnauthorized
	if domain.IsDomainError(err, domain.ErrCodeInternal) {
		status = fasthttp.StatusInternalServerError
	}
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(map[string]string{"error": domain.Message(err, "internal")})
	ctx.SetBody(body)
}

func request(method, path string, headers map[string]string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	for k, v := range headers {
		ctx.Request.Header.Set(k, v)
	}
	return ctx
}

func okHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
}

func TestJWTAuthMissingToken(t *testing.T) {
	auth := &stubAuth{}
	h := JWTAuth(auth, writeError, nil)(okHandler)

	ctx := request("GET", "/api/tasks", nil)
	h(ctx)

	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
	assert.Empty(t, auth.token)
}

func TestJWTAuthStoresClaims(t *testing.T) {
	claims := &domain.Claims{SessionID: "s1", User: domain.PublicUser{ID: "u1"}}
	auth := &stubAuth{claims: claims}

	var seen *domain.Claims
	h := JWTAuth(auth, writeError, nil)(func(ctx *fasthttp.RequestCtx) {
		seen = httpcontext.Claims(ctx)
	})

	ctx := request("GET", "/api/auth/me", map[string]string{"Authorization": "bearer abc.def"})
	h(ctx)

	assert.Equal(t, "abc.def", auth.token)
	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.User.ID)
}

func TestJWTAuthRejectsInvalidToken(t *testing.T) {
	auth := &stubAuth{err: domain.NewError(domain.ErrCodeUnauthorized, "invalid token")}
	called := false
	h := JWTAuth(auth, writeError, nil)(func(*fasthttp.RequestCtx) { called = true })

	ctx := request("GET", "/api/tasks", map[string]string{"Authorization": "Bearer nope"})
	h(ctx)

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"error":"invalid token"}`, string(ctx.Response.Body()))
}

func TestJWTAuthPassesStoreFailures(t *testing.T) {
	auth := &stubAuth{err: domain.WrapError(domain.ErrCodeInternal, "failed to load session", assert.AnError)}
	h := JWTAuth(auth, writeError, nil)(okHandler)

	ctx := request("GET", "/api/auth/me", map[string]string{"Authorization": "Bearer t"})
	h(ctx)
	assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS([]string{"*"}, 600)(func(*fasthttp.RequestCtx) { called = true })

	ctx := request("OPTIONS", "/api/tasks/123", map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "DELETE",
	})
	h(ctx)

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())
	assert.Equal(t, "http://localhost:3000", string(ctx.Response.Header.Peek(fasthttp.HeaderAccessControlAllowOrigin)))
	assert.Equal(t, "600", string(ctx.Response.Header.Peek(fasthttp.HeaderAccessControlMaxAge)))
	assert.Contains(t, string(ctx.Response.Header.Peek(fasthttp.HeaderAccessControlAllowMethods)), "DELETE")
}

func TestCORSAllowList(t *testing.T) {
	h := CORS([]string{"http://app.local"}, 0)(okHandler)

	ctx := request("GET", "/api/health", map[string]string{"Origin": "http://app.local"})
	h(ctx)
	assert.Equal(t, "http://app.local", string(ctx.Response.Header.Peek(fasthttp.HeaderAccessControlAllowOrigin)))

	ctx = request("GET", "/api/health", map[string]string{"Origin": "http://evil.local"})
	h(ctx)
	assert.Empty(t, ctx.Response.Header.Peek(fasthttp.HeaderAccessControlAllowOrigin))
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
}

func TestCORSPreflightRejectsUnknownOrigin(t *testing.T) {
	called := false
	h := CORS([]string{"http://app.local"}, 600)(func(*fasthttp.RequestCtx) { called = true })

	ctx := request("OPTIONS", "/api/tasks", map[string]string{
		"Origin":                        "http://evil.local",
		"Access-Control-Request-Method": "POST",
	})
	h(ctx)

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())
	assert.Empty(t, ctx.Response.Header.Peek(fasthttp.HeaderAccessControlAllowOrigin))
	assert.Empty(t, ctx.Response.Header.Peek(fasthttp.HeaderAccessControlMaxAge))
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := AccessLog(zap.New(core))(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	})

	ctx := request("GET", "/api/tasks/x", map[string]string{httpcontext.HeaderRequestID: "req-1"})
	h(ctx)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.EqualValues(t, 404, fields["status"])
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
			return func(ctx *fasthttp.RequestCtx) {
				order = append(order, name)
				next(ctx)
			}
		}
	}
	Chain(okHandler, mw("outer"), mw("inner"))(request("GET", "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}
