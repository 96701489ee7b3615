package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/contribution"
)

type contributionApi struct {
	svc      *contribution.Service
	validate *validator.Validate
}

func registerContributionAPI(g *echo.Group, deps ServerDeps) {
	api := contributionApi{
		svc:      deps.ContribSvc,
		validate: deps.Validate,
	}

	cg := g.Group("/contributions")
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.GET("/quotas", api.quotas)
}

// Handlers

func (api *contributionApi) create(ctx echo.Context) error {
	var data contribution.NewContribution
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewContribution")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.RecordPayment(data)
	if err != nil {
		return errors.Wrap(err, "recording payment")
	}

	return ctx.JSON(http.StatusCreated, rec)
}

func (api *contributionApi) query(ctx echo.Context) error {
	var filter contribution.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	recs, err := api.svc.Query(filter)
	if err != nil {
		return errors.Wrap(err, "querying contributions")
	}

	return ctx.JSON(http.StatusOK, recs)
}

func (api *contributionApi) quotas(ctx echo.Context) error {
	year := time.Now().UTC().Year()
	if param := ctx.QueryParam("year"); param != "" {
		y, err := strconv.Atoi(param)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		year = y
	}

	quotas, err := api.svc.YearQuotas(year)
	if err != nil {
		return errors.Wrap(err, "computing quotas")
	}

	return ctx.JSON(http.StatusOK, quotas)
}
