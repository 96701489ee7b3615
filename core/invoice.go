package core

type (
	// Invoice is a request for a hosted checkout page.
	Invoice struct {
		OrderID    string
		Amount     int64
		DonorName  string
		DonorEmail string
	}

	// InvoiceService is any payment collaborator that can turn an amount into
	// a hosted checkout URL.
	InvoiceService interface {
		CreateInvoice(inv Invoice) (checkoutURL string, err error)
	}
)
