package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/taufwerk/baptizo/core"
	"github.com/taufwerk/baptizo/core/person"
)

const syncSourceAPI = "api"

type personApi struct {
	svc  person.Service
	runs RunLister
}

func registerPersonAPI(g *echo.Group, svc person.Service, runs RunLister) {
	api := personApi{svc: svc, runs: runs}

	g.POST("/sync", api.sync)
	g.POST("/migrations/onboarding", api.migrateOnboarding)
	g.GET("/runs", api.recentRuns)

	g.GET("/groups", api.groups)
	g.GET("/groups/:id", api.group)

	g.GET("/persons/search", api.search)
	pg := g.Group("/persons/:id")
	pg.PUT("", api.update)
	pg.PATCH("/fields", api.updateFields)
}

// Handlers

func (api *personApi) sync(ctx echo.Context) error {
	summary := api.svc.RunSync(ctx.Request().Context(), syncSourceAPI)
	return ctx.JSON(http.StatusOK, summary)
}

func (api *personApi) migrateOnboarding(ctx echo.Context) error {
	stats := api.svc.MigrateOnboardingDates(ctx.Request().Context(), syncSourceAPI)
	return ctx.JSON(http.StatusOK, stats)
}

func (api *personApi) recentRuns(ctx echo.Context) error {
	if api.runs == nil {
		return ctx.JSON(http.StatusOK, []person.RunRecord{})
	}
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	recs, err := api.runs.RecentRuns(ctx.Request().Context(), limit)
	if err != nil {
		return errors.Wrap(err, "querying run log")
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *personApi) groups(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Groups(ctx.Request().Context()))
}

func (api *personApi) group(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	grp, ok := api.svc.Group(ctx.Request().Context(), id)
	if !ok {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *personApi) search(ctx echo.Context) error {
	persons, err := api.svc.Search(ctx.Request().Context(), ctx.QueryParam("query"))
	if err != nil {
		if errors.Cause(err) == person.ErrQueryTooWide {
			return core.NewValidationError(nil, core.FieldError{Field: "query", Error: err.Error()})
		}
		return errors.Wrap(err, "searching persons")
	}
	return ctx.JSON(http.StatusOK, persons)
}

func (api *personApi) update(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var data person.Person
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Person")
	}
	data.ID = id

	if err := api.svc.Update(ctx.Request().Context(), data); err != nil {
		if errors.Cause(err) == person.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating person")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *personApi) updateFields(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var patch person.FieldsPatch
	if err := ctx.Bind(&patch); err != nil {
		return errors.Wrap(err, "binding to FieldsPatch")
	}
	if err := validatePatchDates(patch); err != nil {
		return err
	}

	if err := api.svc.UpdateFields(ctx.Request().Context(), id, patch); err != nil {
		if errors.Cause(err) == person.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating person fields")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// validatePatchDates checks every set (non-cleared) milestone date in the
// patch for the YYYY-MM-DD format.
func validatePatchDates(patch person.FieldsPatch) error {
	fields := []struct {
		name  string
		value *null.String
	}{
		{"seminarAttendedAt", patch.SeminarAttendedAt},
		{"baptizedAt", patch.BaptizedAt},
		{"certificateIssuedAt", patch.CertificateIssuedAt},
		{"integratedAt", patch.IntegratedAt},
		{"onboardingAt", patch.OnboardingAt},
		{"offboardingAt", patch.OffboardingAt},
	}

	var fldErrs []core.FieldError
	for _, f := range fields {
		if f.value == nil || !f.value.Valid || f.value.String == "" {
			continue
		}
		if err := core.Validate.Var(f.value.String, "isodate"); err != nil {
			fldErrs = append(fldErrs, core.FieldError{Field: f.name, Error: "must be a YYYY-MM-DD date"})
		}
	}
	if len(fldErrs) > 0 {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}
