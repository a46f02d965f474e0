package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/taufwerk/baptizo/core"
	"github.com/taufwerk/baptizo/core/event"
)

type eventApi struct {
	svc event.Service
}

func registerEventAPI(g *echo.Group, svc event.Service) {
	api := eventApi{svc: svc}

	eg := g.Group("/events")
	eg.GET("", api.list)
	eg.POST("", api.create)
	eg.PUT("/:id", api.update)
	eg.DELETE("/:id", api.destroy)
}

func (api *eventApi) list(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Events(ctx.Request().Context()))
}

func (api *eventApi) create(ctx echo.Context) error {
	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.Create(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.NoContent(http.StatusCreated)
}

func (api *eventApi) update(ctx echo.Context) error {
	var data event.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		if errors.Cause(err) == event.ErrInvalidEventID {
			return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "invalid event id"})
		}
		return errors.Wrap(err, "updating event")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *eventApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == event.ErrInvalidEventID {
			return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "invalid event id"})
		}
		return errors.Wrap(err, "deleting event")
	}
	return ctx.NoContent(http.StatusNoContent)
}
