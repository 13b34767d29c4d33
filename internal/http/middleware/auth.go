package middleware

import (
	"bytes"

	"github.com/valyala/fasthttp"

	"servicereg/internal/config"
)

// APIKeyAuth rejects any request whose Authorization header does not
// equal the configured API key byte-for-byte. A single shared secret
// gates the whole API surface; there is no per-caller identity.
func APIKeyAuth(cfg *config.Config) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	key := []byte(cfg.APIKey)
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			auth := ctx.Request.Header.Peek("Authorization")
			if len(auth) == 0 {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				ctx.SetBodyString("missing Authorization header")
				return
			}

			if !bytes.Equal(auth, key) {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				ctx.SetBodyString("invalid API key")
				return
			}

			next(ctx)
		}
	}
}
