package httpserver

import (
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/lottopro/backend/internal/constant"
	"github.com/lottopro/backend/internal/pkg/lperr"
)

func handleCustomError(ctx *fiber.Ctx, e *lperr.LottoError) error {
	log.Warn().
		Err(e).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}

	if e.Extras != nil && len(*e.Extras) > 0 {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(e.StatusCode).JSON(body)
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	if e, ok := err.(*lperr.LottoError); ok {
		return handleCustomError(ctx, e)
	}

	re := *lperr.ErrInternalError

	if e, ok := err.(*fiber.Error); ok {
		// a routing or protocol error raised by fiber itself; not reported
		re.StatusCode = e.Code
		re.ErrorCode = "UNKNOWN_ERROR"
		re.Message = e.Message
		return handleCustomError(ctx, &re)
	}

	log.Error().
		Stack().
		Err(err).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Int("status", re.StatusCode).
		Msg("Internal Server Error")

	if hub := fibersentry.GetHubFromContext(ctx); hub != nil {
		hub.Scope().SetTag("status", strconv.Itoa(re.StatusCode))
		if id, ok := ctx.Locals(constant.ContextKeyRequestID).(string); ok {
			hub.Scope().SetUser(sentry.User{ID: id})
		}
		hub.CaptureException(err)
	}

	return handleCustomError(ctx, &re)
}
