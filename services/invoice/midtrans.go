package invoicesvc

import (
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

type midtransService struct {
	client snap.Client
}

var _ core.InvoiceService = (*midtransService)(nil)

func NewMidtransService(conf *core.Config) *midtransService {
	env := midtrans.Sandbox
	if conf.Env == "PROD" {
		env = midtrans.Production
	}
	svc := &midtransService{}
	svc.client.New(conf.Invoice.MidtransServerKey, env)
	return svc
}

func (svc *midtransService) CreateInvoice(inv core.Invoice) (string, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  inv.OrderID,
			GrossAmt: inv.Amount,
		},
	}
	if inv.DonorName != "" || inv.DonorEmail != "" {
		req.CustomerDetail = &midtrans.CustomerDetails{
			FName: inv.DonorName,
			Email: inv.DonorEmail,
		}
	}

	resp, err := svc.client.CreateTransaction(req)
	if err != nil {
		return "", errors.Wrap(err, "creating checkout transaction")
	}
	return resp.RedirectURL, nil
}
