package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"github.com/lottopro/backend/internal/pkg/cachectrl"
	"github.com/lottopro/backend/internal/server/svr"
	"github.com/lottopro/backend/internal/service"
)

type Stats struct {
	fx.In

	StatsService *service.Stats
}

func RegisterStats(api *svr.API, c Stats) {
	api.Get("/stats", c.GetStats)
}

// @Summary   Get Number Statistics
// @Tags      Statistics
// @Produce   json
// @Success   200  {object}  model.StatsResult
// @Success   304  "Not Modified"
// @Router    /api/stats [GET]
func (c *Stats) GetStats(ctx *fiber.Ctx) error {
	view, err := c.StatsService.View(ctx.UserContext())
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	if cachectrl.NotModified(ctx, view.ETag) {
		return nil
	}

	return ctx.JSON(view.Result)
}
