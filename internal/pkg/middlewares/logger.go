package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/lottopro/backend/internal/constant"
	"github.com/lottopro/backend/internal/pkg/flog"
)

// Logger installs the request scoped logger and the access log, in order.
func Logger(app *fiber.App) {
	chain := []fiber.Handler{
		flog.NewHandlerMiddleware(log.With().Logger()),
		flog.RequestIDHandler("request_id", constant.RequestIDHeader),
		flog.RemoteAddrHandler("ip"),
		flog.MethodHandler("method"),
		flog.URLHandler("url"),
		flog.UserAgentHandler("user_agent"),
		requestLogger(),
	}
	for _, handler := range chain {
		app.Use(handler)
	}
}

func requestLogger() fiber.Handler {
	return flog.AccessHandler(func(ctx *fiber.Ctx, duration time.Duration) {
		e := flog.InfoFrom(ctx)
		if ctx.Response().StatusCode() >= fiber.StatusInternalServerError {
			e = flog.WarnFrom(ctx)
		}
		e.Str("component", "httpreq").
			Int("status", ctx.Response().StatusCode()).
			Int("size", len(ctx.Response().Body())).
			Dur("duration", duration).
			Msg("served request")
	})
}
