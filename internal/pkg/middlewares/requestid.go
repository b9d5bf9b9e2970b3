package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lottopro/backend/internal/constant"
	"github.com/lottopro/backend/internal/pkg/flog"
)

// RequestID copies the request id assigned by the logger chain into ctx.Locals.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := flog.IDFromFiberCtx(c); ok {
			c.Locals(constant.ContextKeyRequestID, id.String())
		}
		return c.Next()
	}
}
