package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aimelive/mcsa-awards/core/activity"
	"github.com/aimelive/mcsa-awards/core/user"
)

type activityApi struct {
	svc *activity.Service
}

func registerActivityAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *activity.Service) {
	api := activityApi{svc: svc}

	ag := g.Group("/activities")

	// public endpoints
	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.GET("/profile/:id", api.queryByProfile)

	// admin endpoints
	admin := requireRole(user.RoleAdmin)
	ag.POST("", api.create, jwt, admin)
	ag.PATCH("/:id", api.update, jwt, admin)
	ag.PATCH("/addImage/:id", api.addImage, jwt, admin)
	ag.PATCH("/removeImage/:id", api.removeImage, jwt, admin)
	ag.DELETE("/:id", api.destroy, jwt, admin)
}

func (api *activityApi) create(ctx echo.Context) error {
	var data activity.NewActivity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewActivity")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	act, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, "Activity added successfully", act)
}

func (api *activityApi) query(ctx echo.Context) error {
	acts, err := api.svc.Query(ctx.Request().Context(), "")
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Activities retrieved successfully", acts)
}

func (api *activityApi) queryByProfile(ctx echo.Context) error {
	acts, err := api.svc.Query(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Activities retrieved successfully", acts)
}

func (api *activityApi) retrieve(ctx echo.Context) error {
	detail, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Activity retrieved successfully", detail)
}

func (api *activityApi) update(ctx echo.Context) error {
	var data activity.UpdateActivity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateActivity")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	act, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Activity updated successfully", act)
}

func (api *activityApi) addImage(ctx echo.Context) error {
	var data activity.ImageRef
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImageRef")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	act, err := api.svc.AddImage(ctx.Request().Context(), ctx.Param("id"), data.Image)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Image added successfully to the activity", act)
}

func (api *activityApi) removeImage(ctx echo.Context) error {
	var data activity.ImageRef
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImageRef")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	act, err := api.svc.RemoveImage(ctx.Request().Context(), ctx.Param("id"), data.Image)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Image removed successfully from the activity.", act)
}

func (api *activityApi) destroy(ctx echo.Context) error {
	act, err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Activity deleted successfully", act)
}
