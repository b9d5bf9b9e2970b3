package middlewares

import (
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"

	"github.com/lottopro/backend/internal/constant"
)

// EnrichSentry tags the request scoped sentry hub with the request id and
// starts a transaction for every request that is not marked slim.
func EnrichSentry() fiber.Handler {
	return func(c *fiber.Ctx) error {
		hub := fibersentry.GetHubFromContext(c)
		if hub == nil {
			return c.Next()
		}
		if id, ok := c.Locals(constant.ContextKeyRequestID).(string); ok {
			hub.Scope().SetTag("request_id", id)
		}
		if c.Get(constant.SlimHeaderKey) != "" {
			return c.Next()
		}

		span := sentry.StartSpan(
			sentry.SetHubOnContext(c.UserContext(), hub),
			"http.server",
			sentry.WithTransactionName(c.Method()+" "+c.Route().Path),
			sentry.ContinueFromTrace(c.Get("sentry-trace")),
		)
		defer span.Finish()

		c.SetUserContext(span.Context())
		err := c.Next()
		span.Status = spanStatus(c.Response().StatusCode())
		return err
	}
}

func spanStatus(code int) sentry.SpanStatus {
	switch {
	case code >= fiber.StatusInternalServerError:
		return sentry.SpanStatusInternalError
	case code == fiber.StatusTooManyRequests:
		return sentry.SpanStatusResourceExhausted
	case code == fiber.StatusUnauthorized:
		return sentry.SpanStatusUnauthenticated
	case code >= fiber.StatusBadRequest:
		return sentry.SpanStatusInvalidArgument
	}
	return sentry.SpanStatusOK
}
