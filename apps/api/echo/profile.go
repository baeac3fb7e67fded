package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aimelive/mcsa-awards/core/profile"
	"github.com/aimelive/mcsa-awards/core/user"
)

type profileApi struct {
	svc *user.ProfileService
}

func registerProfileAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *user.ProfileService) {
	api := profileApi{svc: svc}

	pg := g.Group("/profile")

	// public endpoints
	pg.GET("/:id", api.retrieve)
	pg.GET("/user/:userId", api.retrieveByUser)

	// admin endpoints
	pg.POST("/:id", api.create, jwt, requireRole(user.RoleAdmin))
	pg.GET("", api.query, jwt, requireRole(user.RoleAdmin))
	pg.PATCH("/:id", api.update, jwt, requireRole(user.RoleAdmin))
}

func (api *profileApi) create(ctx echo.Context) error {
	var data profile.NewProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProfile")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	prof, err := api.svc.CreateProfile(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusCreated, "Profile created successfully!", prof)
}

func (api *profileApi) query(ctx echo.Context) error {
	profiles, err := api.svc.QueryProfiles(ctx.Request().Context())
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "User profiles retrieved successfully", profiles)
}

func (api *profileApi) retrieve(ctx echo.Context) error {
	info, err := api.svc.GetProfileByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "User info retrieved successfully", info)
}

func (api *profileApi) retrieveByUser(ctx echo.Context) error {
	info, err := api.svc.GetProfileByUserID(ctx.Request().Context(), ctx.Param("userId"))
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "User info retrieved successfully", info)
}

func (api *profileApi) update(ctx echo.Context) error {
	var data profile.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	prof, err := api.svc.UpdateProfile(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return respond(ctx, http.StatusOK, "Profile updated succesfully", prof)
}
