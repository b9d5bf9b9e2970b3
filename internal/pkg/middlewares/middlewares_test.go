package middlewares

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottopro/backend/internal/constant"
)

func TestLoggerChain(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	app := fiber.New()
	Logger(app)
	app.Use(RequestID())
	app.Get("/ping", func(c *fiber.Ctx) error {
		id, _ := c.Locals(constant.ContextKeyRequestID).(string)
		return c.SendString(id)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	id := resp.Header.Get(constant.RequestIDHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, string(body))

	logged := buf.String()
	assert.Contains(t, logged, `"request_id":"`+id+`"`)
	assert.Contains(t, logged, `"method":"GET"`)
	assert.Contains(t, logged, `"component":"httpreq"`)
	assert.Contains(t, logged, `"status":200`)
}
