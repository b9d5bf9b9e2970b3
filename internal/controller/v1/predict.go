package v1

import (
	"time"

	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"go.uber.org/fx"

	"github.com/lottopro/backend/internal/app/appconfig"
	"github.com/lottopro/backend/internal/model"
	"github.com/lottopro/backend/internal/pkg/cachectrl"
	"github.com/lottopro/backend/internal/pkg/fiberstore"
	"github.com/lottopro/backend/internal/pkg/flog"
	"github.com/lottopro/backend/internal/pkg/lperr"
	"github.com/lottopro/backend/internal/server/svr"
	"github.com/lottopro/backend/internal/service"
)

type Predict struct {
	fx.In

	PredictionService *service.Prediction
	Config            *appconfig.Config
	Redis             *redis.Client
}

func RegisterPredict(api *svr.API, c Predict) {
	api.Post("/predict", c.limiter(), c.Predict)
}

func (c *Predict) limiter() fiber.Handler {
	if c.Config.PredictRateLimit <= 0 {
		log.Info().Msg("prediction rate limiter is disabled")
		return func(ctx *fiber.Ctx) error {
			return ctx.Next()
		}
	}

	conf := limiter.Config{
		Max:        c.Config.PredictRateLimit,
		Expiration: time.Minute,
		LimitReached: func(ctx *fiber.Ctx) error {
			return lperr.ErrTooManyRequests.Msg("prediction is limited to %d requests per minute", c.Config.PredictRateLimit)
		},
	}
	if c.Redis != nil {
		conf.Storage = fiberstore.NewRedis(c.Redis, "lottopro:limiter:predict:")
	}
	return limiter.New(conf)
}

// @Summary   Predict Combinations
// @Tags      Prediction
// @Accept    json
// @Produce   json
// @Param     request  body      object                  false  "{\"pinned_numbers\": [1, 2]}; user_numbers is accepted as an alias"
// @Success   200      {object}  model.PredictionResult
// @Failure   429      {object}  lperr.LottoError        "Rate limit exceeded"
// @Failure   500      {object}  model.PredictionResult  "Prediction is temporarily unavailable"
// @Router    /api/predict [POST]
func (c *Predict) Predict(ctx *fiber.Ctx) error {
	pinned := PinnedFromBody(ctx.Body())

	cachectrl.OptOut(ctx)

	result, err := c.PredictionService.Predict(ctx.UserContext(), pinned)
	if err != nil {
		flog.ErrorFrom(ctx).
			Err(err).
			Str("evt.name", "prediction.unavailable").
			Msg("failed to assemble prediction result")
		if hub := fibersentry.GetHubFromContext(ctx); hub != nil {
			hub.CaptureException(err)
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(service.UnavailableResult(pinned))
	}

	return ctx.JSON(result)
}

// PinnedFromBody reads pinned numbers from a JSON body. Anything that is not a
// usable array yields no pins.
func PinnedFromBody(body []byte) model.Pinned {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return model.Pinned{}
	}

	list := gjson.GetBytes(body, "pinned_numbers")
	if !list.Exists() {
		list = gjson.GetBytes(body, "user_numbers")
	}
	if !list.IsArray() {
		return model.Pinned{}
	}

	values := make([]any, 0, model.PickCount)
	list.ForEach(func(_, v gjson.Result) bool {
		values = append(values, v.Value())
		return true
	})
	return model.NewPinned(values)
}
