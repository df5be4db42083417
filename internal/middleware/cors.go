package middleware

import (
	"github.com/AdhityaRamadhanus/fasthttpcors"
	"github.com/valyala/fasthttp"
)

var (
	corsMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
)

// CORS applies the origin allow-list to every response. Preflight requests
// stop here with 204. A "*" entry allows any origin.
func CORS(allowedOrigins []string, maxAge int) Middleware {
	cors := fasthttpcors.NewCorsHandler(fasthttpcors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: corsMethods,
		AllowedHeaders: corsHeaders,
		ExposedHeaders: []string{"X-Request-ID"},
		AllowMaxAge:    maxAge,
	})

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		handle := cors.CorsMiddleware(next)
		return func(ctx *fasthttp.RequestCtx) {
			handle(ctx)
			if ctx.IsOptions() {
				ctx.SetStatusCode(fasthttp.StatusNoContent)
			}
		}
	}
}
