package httpadapter

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// The API is read-only, so preflight only ever has to admit GET.
const (
	corsAllowMethods = "GET,OPTIONS"
	corsAllowHeaders = "Content-Type"
	corsMaxAge       = "600"
)

// corsMiddleware lets the browser renderer fetch worlds from another origin. An
// empty origin allows any; otherwise only that origin is echoed back.
func corsMiddleware(origin string) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		allowOrigin(ctx, origin)
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}

func allowOrigin(ctx *app.RequestContext, origin string) {
	h := &ctx.Response.Header
	switch {
	case origin == "" || origin == "*":
		h.Set("Access-Control-Allow-Origin", "*")
	case string(ctx.Request.Header.Peek("Origin")) == origin:
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Vary", "Origin")
	default:
		// Foreign origins get no CORS headers and the browser blocks the read.
		h.Set("Vary", "Origin")
		return
	}
	h.Set("Access-Control-Allow-Methods", corsAllowMethods)
	h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	h.Set("Access-Control-Max-Age", corsMaxAge)
}
