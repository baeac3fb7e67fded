package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aimelive/mcsa-awards/core/award"
	"github.com/aimelive/mcsa-awards/core/user"
)

type awardApi struct {
	svc *award.Service
}

func registerAwardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *award.Service) {
	api := awardApi{svc: svc}

	ag := g.Group("/awards")

	// public endpoints
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.GET("/profile/:id", api.queryByProfile)
	ag.GET("/certificate/:id", api.downloadCertificate)

	// admin endpoints
	ag.POST("", api.create, jwt, requireRole(user.RoleAdmin))
	ag.PATCH("/:id", api.update, jwt, requireRole(user.RoleAdmin))
	ag.DELETE("/:id", api.destroy, jwt, requireRole(user.RoleSuperAdmin))
}

func (api *awardApi) create(ctx echo.Context) error {
	var data award.NewAward
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAward")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	a, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, "Award added successfully", a)
}

func (api *awardApi) query(ctx echo.Context) error {
	awards, err := api.svc.Query(ctx.Request().Context(), award.QueryFilter{
		SeasonName: ctx.QueryParam("seasonName"),
	})
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Awards retrieved successfully!", awards)
}

func (api *awardApi) queryByProfile(ctx echo.Context) error {
	awards, err := api.svc.Query(ctx.Request().Context(), award.QueryFilter{
		ProfileID: ctx.Param("id"),
	})
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Awards retrieved successfully", awards)
}

func (api *awardApi) retrieve(ctx echo.Context) error {
	detail, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Award retrieved successfully", detail)
}

func (api *awardApi) update(ctx echo.Context) error {
	var data award.UpdateAward
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAward")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	a, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Award updated successfully", a)
}

func (api *awardApi) downloadCertificate(ctx echo.Context) error {
	a, err := api.svc.DownloadCertificate(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Award updated successfully", a)
}

func (api *awardApi) destroy(ctx echo.Context) error {
	a, err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Award deleted successfully", a)
}
