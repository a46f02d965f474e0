package echoapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/taufwerk/baptizo/core"
)

type settingsApi struct {
	store core.SettingsStore
}

func registerSettingsAPI(g *echo.Group, store core.SettingsStore) {
	api := settingsApi{store: store}

	sg := g.Group("/settings")
	sg.GET("/admin", api.getAdmin)
	sg.PUT("/admin", api.saveAdmin)
	sg.GET("/app", api.getApp)
	sg.PUT("/app", api.saveApp)
}

func (api *settingsApi) getAdmin(ctx echo.Context) error {
	st, err := api.store.GetAdminSettings(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading admin settings")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *settingsApi) saveAdmin(ctx echo.Context) error {
	var data core.AdminSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AdminSettings")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.store.SaveAdminSettings(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "saving admin settings")
	}
	return ctx.JSON(http.StatusOK, data)
}

func (api *settingsApi) getApp(ctx echo.Context) error {
	st, err := api.store.GetAppSettings(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading app settings")
	}
	return ctx.JSON(http.StatusOK, st)
}

// saveApp validates every template and assigns ids to newly added ones.
func (api *settingsApi) saveApp(ctx echo.Context) error {
	var data core.AppSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AppSettings")
	}
	for i, tmpl := range data.EmailTemplates {
		if err := tmpl.Validate(); err != nil {
			return err
		}
		if tmpl.ID == "" {
			data.EmailTemplates[i].ID = uuid.NewString()
		}
	}

	if err := api.store.SaveAppSettings(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "saving app settings")
	}
	return ctx.JSON(http.StatusOK, data)
}
