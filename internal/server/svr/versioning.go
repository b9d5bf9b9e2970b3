package svr

import (
	"github.com/gofiber/fiber/v2"
)

type API struct {
	fiber.Router
}

type Admin struct {
	fiber.Router
}

type Meta struct {
	fiber.Router
}

func CreateEndpointGroups(app *fiber.App) (*API, *Admin, *Meta) {
	api := app.Group("/api")
	admin := app.Group("/api/_/admin")
	meta := app.Group("/")

	return &API{Router: api}, &Admin{Router: admin}, &Meta{Router: meta}
}
