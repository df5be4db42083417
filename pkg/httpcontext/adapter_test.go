package httpcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskdesk/domain"
	appLogger "github.com/fastygo/taskdesk/pkg/logger"
)

func TestAttachPropagatesRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	rc.Request.Header.Set(HeaderRequestID, "abc-123")
	rc.Request.Header.SetUserAgent("tests/1.0")

	ctx, cancel := NewAdapter(time.Second).Attach(&rc)
	defer cancel()

	assert.Equal(t, "abc-123", appLogger.RequestID(ctx))
	assert.Equal(t, "abc-123", string(rc.Response.Header.Peek(HeaderRequestID)))
	assert.Equal(t, "tests/1.0", ctx.Value(KeyUserAgent))

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 200*time.Millisecond)
}

func TestRequestIDGeneratedOnce(t *testing.T) {
	var rc fasthttp.RequestCtx
	first := RequestID(&rc)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, RequestID(&rc))
}

func TestAttachCancel(t *testing.T) {
	var rc fasthttp.RequestCtx
	ctx, cancel := NewAdapter(0).Attach(&rc)
	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestClaims(t *testing.T) {
	var rc fasthttp.RequestCtx
	assert.Nil(t, Claims(&rc))

	claims := &domain.Claims{SessionID: "s1"}
	SetClaims(&rc, claims)
	assert.Same(t, claims, Claims(&rc))
}
