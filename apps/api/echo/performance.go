package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aimelive/mcsa-awards/core/performance"
	"github.com/aimelive/mcsa-awards/core/user"
)

type performanceApi struct {
	svc *performance.Service
}

func registerPerformanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *performance.Service) {
	api := performanceApi{svc: svc}

	pg := g.Group("/performances")

	// public endpoints
	pg.GET("", api.query)
	pg.GET("/:id", api.retrieve)
	pg.GET("/profile/:id", api.queryByProfile)

	// admin endpoints
	admin := requireRole(user.RoleAdmin)
	pg.POST("", api.create, jwt, admin)
	pg.PATCH("/:id", api.update, jwt, admin)
	pg.PATCH("/addImage/:id", api.addImage, jwt, admin)
	pg.PATCH("/removeImage/:id", api.removeImage, jwt, admin)
	pg.DELETE("/:id", api.destroy, jwt, admin)
}

func (api *performanceApi) create(ctx echo.Context) error {
	var data performance.NewPerformance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPerformance")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	p, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, "Performance added successfully", p)
}

func (api *performanceApi) query(ctx echo.Context) error {
	perfs, err := api.svc.Query(ctx.Request().Context(), performance.QueryFilter{
		SeasonName: ctx.QueryParam("seasonName"),
	})
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Performances retrieved successfully", perfs)
}

func (api *performanceApi) queryByProfile(ctx echo.Context) error {
	perfs, err := api.svc.Query(ctx.Request().Context(), performance.QueryFilter{
		ProfileID: ctx.Param("id"),
	})
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Performances retrieved successfully", perfs)
}

func (api *performanceApi) retrieve(ctx echo.Context) error {
	detail, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Performance retrieved successfully", detail)
}

func (api *performanceApi) update(ctx echo.Context) error {
	var data performance.UpdatePerformance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePerformance")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	p, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Performance updated successfully", p)
}

func (api *performanceApi) addImage(ctx echo.Context) error {
	var data performance.ImageRef
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImageRef")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	p, err := api.svc.AddImage(ctx.Request().Context(), ctx.Param("id"), data.Image)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Image added successfully to the performance", p)
}

func (api *performanceApi) removeImage(ctx echo.Context) error {
	var data performance.ImageRef
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImageRef")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	p, err := api.svc.RemoveImage(ctx.Request().Context(), ctx.Param("id"), data.Image)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Image removed successfully from the performance.", p)
}

func (api *performanceApi) destroy(ctx echo.Context) error {
	p, err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Performance deleted successfully", p)
}
