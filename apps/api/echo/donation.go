package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

type DonationRequest struct {
	Amount     int64  `json:"amount" validate:"required,gt=0"`
	DonorName  string `json:"donor_name"`
	DonorEmail string `json:"donor_email" validate:"omitempty,email"`
}

func (dr *DonationRequest) Validate(validate *validator.Validate) error {
	dr.DonorName = core.CleanString(dr.DonorName)
	dr.DonorEmail = core.CleanString(dr.DonorEmail, true /* lower */)
	return validate.Struct(dr)
}

type donationApi struct {
	svc      core.InvoiceService
	validate *validator.Validate
}

func registerDonationAPI(g *echo.Group, deps ServerDeps) {
	api := donationApi{
		svc:      deps.InvoiceSvc,
		validate: deps.Validate,
	}

	dg := g.Group("/donate")
	dg.POST("/local", api.donateLocal)
}

// Handlers

func (api *donationApi) donateLocal(ctx echo.Context) error {
	var data DonationRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DonationRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	inv := core.Invoice{
		OrderID:    "DON-" + uuid.New().String(),
		Amount:     data.Amount,
		DonorName:  data.DonorName,
		DonorEmail: data.DonorEmail,
	}

	checkoutURL, err := api.svc.CreateInvoice(inv)
	if err != nil {
		return errors.Wrap(err, "creating donation invoice")
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"order_id":     inv.OrderID,
		"checkout_url": checkoutURL,
	})
}
