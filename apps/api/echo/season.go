package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aimelive/mcsa-awards/core/award"
	"github.com/aimelive/mcsa-awards/core/performance"
	"github.com/aimelive/mcsa-awards/core/season"
	"github.com/aimelive/mcsa-awards/core/user"
)

type seasonApi struct {
	svc      *season.Service
	perfSvc  *performance.Service
	awardSvc *award.Service
}

// seasonDetail is a season joined with its related records.
type seasonDetail struct {
	season.Detail
	Performances []performance.Performance `json:"performances"`
	Awards       []award.Award             `json:"awards"`
}

func registerSeasonAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *season.Service, perfSvc *performance.Service, awardSvc *award.Service) {
	api := seasonApi{svc: svc, perfSvc: perfSvc, awardSvc: awardSvc}

	sg := g.Group("/seasons")

	// public endpoints
	sg.GET("", api.query)
	sg.GET("/:name", api.retrieve)

	// super admin endpoints
	super := requireRole(user.RoleSuperAdmin)
	sg.POST("", api.create, jwt, super)
	sg.PATCH("/:name", api.update, jwt, super)
	sg.DELETE("/:name", api.destroy, jwt, super)
}

func (api *seasonApi) create(ctx echo.Context) error {
	var data season.NewSeason
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSeason")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, "Season created successfully", s)
}

func (api *seasonApi) query(ctx echo.Context) error {
	seasons, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Seasons retrieved successfully", seasons)
}

func (api *seasonApi) retrieve(ctx echo.Context) error {
	c := ctx.Request().Context()
	s, err := api.svc.GetByName(c, ctx.Param("name"))
	if err != nil {
		return err
	}
	performances, err := api.perfSvc.Query(c, performance.QueryFilter{SeasonName: s.Name})
	if err != nil {
		return err
	}
	awards, err := api.awardSvc.Query(c, award.QueryFilter{SeasonName: s.Name})
	if err != nil {
		return err
	}
	detail := seasonDetail{Detail: s, Performances: performances, Awards: awards}
	return respond(ctx, http.StatusOK, "Season retrieved successfully", detail)
}

func (api *seasonApi) update(ctx echo.Context) error {
	var data season.UpdateSeason
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSeason")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	s, err := api.svc.Update(ctx.Request().Context(), ctx.Param("name"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Season updated successfully", s)
}

func (api *seasonApi) destroy(ctx echo.Context) error {
	s, err := api.svc.Delete(ctx.Request().Context(), ctx.Param("name"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Season deleted successfully", s)
}
