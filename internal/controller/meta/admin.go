package meta

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"github.com/lottopro/backend/internal/app/appconfig"
	modelcache "github.com/lottopro/backend/internal/model/cache"
	"github.com/lottopro/backend/internal/pkg/flog"
	"github.com/lottopro/backend/internal/pkg/lperr"
	"github.com/lottopro/backend/internal/server/svr"
	"github.com/lottopro/backend/internal/service"
	"github.com/lottopro/backend/internal/util/rekuest"
)

type Admin struct {
	fx.In

	Config         *appconfig.Config
	Caches         *modelcache.Caches
	HistoryService *service.History
}

type RefreshRequest struct {
	// Resource overrides the configured history resource for this refresh only.
	Resource string `json:"resource" validate:"omitempty,max=2048,resource"`
}

type PurgeRequest struct {
	// Name of the cache to purge. Empty purges every cache.
	Name string `json:"name" validate:"omitempty,max=64,alphanum"`
}

func RegisterAdmin(admin *svr.Admin, c Admin) {
	if c.Config.AdminKey == "" {
		log.Warn().Msg("admin API is disabled due to missing admin key")
		return
	}

	admin.Use(keyauth.New(keyauth.Config{
		KeyLookup:  "header:" + fiber.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(ctx *fiber.Ctx, key string) (bool, error) {
			if subtle.ConstantTimeCompare([]byte(key), []byte(c.Config.AdminKey)) == 1 {
				return true, nil
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return lperr.ErrUnauthorized
		},
	}))

	admin.Post("/refresh", c.Refresh)
	admin.Post("/purge", c.Purge)
}

// @Summary   Reload History
// @Tags      Admin
// @Accept    json
// @Produce   json
// @Param     request  body      RefreshRequest  false  "Optional resource override"
// @Success   200      {object}  model.Provenance
// @Failure   502      {object}  lperr.LottoError  "Resource unreachable, active history kept"
// @Security  AdminKeyAuth
// @Router    /api/_/admin/refresh [POST]
func (c *Admin) Refresh(ctx *fiber.Ctx) error {
	var request RefreshRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	snap, err := c.HistoryService.RefreshFrom(ctx.UserContext(), request.Resource)
	if errors.Is(err, service.ErrRefreshDegraded) {
		return lperr.ErrBadGateway.WithExtras(lperr.Extras{
			"data_source":  snap.Provenance.Label(),
			"latest_round": snap.Latest.LatestRound,
			"version":      snap.Version,
		}).Msg("history resource unavailable, keeping %s", snap.Provenance.Label())
	} else if err != nil {
		return err
	}

	flog.InfoFrom(ctx).
		Str("evt.name", "admin.history.refreshed").
		Str("source", snap.Provenance.Label()).
		Uint64("version", snap.Version).
		Msg("history refreshed by admin")

	return ctx.JSON(fiber.Map{
		"provenance":   snap.Provenance,
		"data_source":  snap.Provenance.Label(),
		"latest_round": snap.Latest.LatestRound,
		"version":      snap.Version,
	})
}

// @Summary   Purge Derived Caches
// @Tags      Admin
// @Accept    json
// @Param     request  body  PurgeRequest  false  "Cache name; empty purges every cache"
// @Success   204
// @Failure   400  {object}  lperr.LottoError  "Unknown cache name"
// @Security  AdminKeyAuth
// @Router    /api/_/admin/purge [POST]
func (c *Admin) Purge(ctx *fiber.Ctx) error {
	var request PurgeRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	if err := c.Caches.Delete(request.Name); err != nil {
		if errors.Is(err, modelcache.ErrUnknownCache) {
			return lperr.ErrInvalidReq.WithExtras(lperr.Extras{"caches": c.Caches.Names()}).Msg("unknown cache %q", request.Name)
		}
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
