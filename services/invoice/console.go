package invoicesvc

import (
	"fmt"
	"sync"

	"github.com/trezcool/shule/core"
)

var (
	CreatedInvoices = make([]core.Invoice, 0)
	mu              sync.Mutex
)

// consoleService stands in for the payment collaborator in DEV and TEST; it
// hands back a deterministic checkout URL without any network call.
type consoleService struct {
	conf *core.Config
}

var _ core.InvoiceService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) core.InvoiceService {
	return &consoleService{conf: conf}
}

func (svc *consoleService) CreateInvoice(inv core.Invoice) (string, error) {
	mu.Lock()
	CreatedInvoices = append(CreatedInvoices, inv)
	mu.Unlock()
	return fmt.Sprintf("%s/checkout/%s", svc.conf.FrontendBaseURL, inv.OrderID), nil
}
