package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskdesk/api/transport"
	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/pkg/httpcontext"
)

const internalMessage = "Internal server error"

// errorShape renders an error code and message into a response body.
type errorShape func(code, message string) interface{}

func taskErrorShape(code, message string) interface{} {
	return transport.NewError(code, message)
}

func authErrorShape(code, message string) interface{} {
	return transport.NewMessage(code, message)
}

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
	shape   errorShape
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger, shape errorShape) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if shape == nil {
		shape = taskErrorShape
	}
	return baseHandler{adapter: adapter, logger: logger, shape: shape}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("encode response", zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		body = transport.Marshal(h.shape(string(domain.ErrCodeInternal), internalMessage))
	}
	ctx.SetBody(body)
}

func (h baseHandler) respondNoContent(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(http.StatusNoContent)
	ctx.ResetBody()
}

func (h baseHandler) respondFailure(ctx *fasthttp.RequestCtx, status int, code domain.ErrorCode, message string) {
	h.respondJSON(ctx, status, h.shape(string(code), message))
}

// respondError maps a domain error to its HTTP status. Unclassified errors
// are logged and hidden behind a generic message.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", httpcontext.RequestID(ctx)),
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err))
	}
	h.respondFailure(ctx, status, code, domain.Message(err, internalMessage))
}

// mapError follows the public contract: duplicate registrations are
// reported as 400, not 409.
func mapError(err error) (int, domain.ErrorCode) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, domain.ErrCodeUnauthorized
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, domain.ErrCodeForbidden
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, domain.ErrCodeInvalid
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusBadRequest, domain.ErrCodeConflict
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, domain.ErrCodeNotFound
	default:
		return http.StatusInternalServerError, domain.ErrCodeInternal
	}
}

// decode unmarshals the request body. An empty body decodes as {}.
func decode(ctx *fasthttp.RequestCtx, v interface{}) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
	}
	return nil
}

// ErrorWriter renders err in a service's error shape. Middleware uses it so
// rejections look like handler failures.
type ErrorWriter func(ctx *fasthttp.RequestCtx, err error)

func TaskErrorWriter(logger *zap.Logger) ErrorWriter {
	return newBaseHandler(nil, logger, taskErrorShape).respondError
}

func AuthErrorWriter(logger *zap.Logger) ErrorWriter {
	return newBaseHandler(nil, logger, authErrorShape).respondError
}
