package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taufwerk/baptizo/core/reminder"
)

type reminderApi struct {
	svc reminder.Service
}

func registerReminderAPI(g *echo.Group, svc reminder.Service) {
	api := reminderApi{svc: svc}
	g.POST("/reminders/run", api.run)
}

func (api *reminderApi) run(ctx echo.Context) error {
	logs := api.svc.CheckAndSend(ctx.Request().Context(), time.Now())
	return ctx.JSON(http.StatusOK, echo.Map{"logs": logs})
}
