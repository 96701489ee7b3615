package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/report"
)

type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (sr *SetStatusRequest) Validate(validate *validator.Validate) error {
	sr.Status = core.CleanString(sr.Status, true /* lower */)
	return validate.Struct(sr)
}

type reportApi struct {
	svc      *report.Service
	validate *validator.Validate
}

func registerReportAPI(g *echo.Group, deps ServerDeps) {
	api := reportApi{
		svc:      deps.ReportSvc,
		validate: deps.Validate,
	}

	rg := g.Group("/reports")
	rg.POST("", api.create)
	rg.GET("", api.query)

	dg := rg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.POST("/comment", api.comment)
	dg.PUT("/status", api.setStatus)
}

// Handlers

func (api *reportApi) create(ctx echo.Context) error {
	var data report.NewReport
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReport")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.Submit(data)
	if err != nil {
		return errors.Wrap(err, "submitting report")
	}

	return ctx.JSON(http.StatusCreated, r)
}

func (api *reportApi) query(ctx echo.Context) error {
	var filter report.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	reports, err := api.svc.Query(filter)
	if err != nil {
		return errors.Wrap(err, "querying reports")
	}

	return ctx.JSON(http.StatusOK, reports)
}

func (api *reportApi) retrieve(ctx echo.Context) error {
	r, err := api.svc.Get(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding report by ID")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *reportApi) update(ctx echo.Context) error {
	var data report.UpdateReport
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateReport")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating report")
	}

	return ctx.JSON(http.StatusOK, r)
}

func (api *reportApi) comment(ctx echo.Context) error {
	var data report.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.AddComment(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding comment")
	}

	return ctx.JSON(http.StatusOK, r)
}

func (api *reportApi) setStatus(ctx echo.Context) error {
	var data SetStatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetStatusRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.SetStatus(ctx.Param("id"), data.Status)
	if err != nil {
		return errors.Wrap(err, "setting report status")
	}

	return ctx.JSON(http.StatusOK, r)
}
