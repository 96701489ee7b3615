package contribution

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Record statuses
const (
	StatusPaid = "paid"
)

// Quota payment statuses
const (
	PaymentStatusFullyPaid     = "fully_paid"
	PaymentStatusPartiallyPaid = "partially_paid"
	PaymentStatusNotPaid       = "not_paid"
)

// ContributionRecord is an append-only ledger entry; never mutated once
// recorded. At most one record may exist per (student, month, year).
type ContributionRecord struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"student_id"`
	Amount        int       `json:"amount"`
	Month         string    `json:"month"` // YYYY-MM
	Year          int       `json:"year"`
	PaymentDate   time.Time `json:"payment_date"` // UTC
	PaymentMethod string    `json:"payment_method"`
	ReceiptNumber string    `json:"receipt_number"`
	RecordedBy    string    `json:"recorded_by"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"` // UTC
}

// Quota is the derived per-student summary for a year; recomputed on every
// read, never stored.
type Quota struct {
	StudentID        string   `json:"student_id"`
	StudentName      string   `json:"student_name"`
	GradeLevel       string   `json:"grade_level"`
	MonthlyAmount    int      `json:"monthly_amount"`
	YearlyQuota      int      `json:"yearly_quota"`
	TotalPaid        int      `json:"total_paid"`
	RemainingBalance int      `json:"remaining_balance"`
	PaymentStatus    string   `json:"payment_status"`
	MonthsPaid       []string `json:"months_paid"`
	MonthsUnpaid     []string `json:"months_unpaid"`
}

// NewContribution contains information needed to record a payment.
type NewContribution struct {
	StudentID     string `json:"student_id" validate:"required"`
	Amount        int    `json:"amount" validate:"required,gt=0"`
	Month         string `json:"month" validate:"required,monthlabel"`
	Year          int    `json:"year" validate:"required"`
	PaymentMethod string `json:"payment_method"`
	ReceiptNumber string `json:"receipt_number"`
	RecordedBy    string `json:"recorded_by"`
}

func (nc *NewContribution) Validate(validate *validator.Validate) error {
	nc.StudentID = core.CleanString(nc.StudentID)
	nc.Month = core.CleanString(nc.Month)
	nc.PaymentMethod = core.CleanString(nc.PaymentMethod, true /* lower */)
	nc.RecordedBy = core.CleanString(nc.RecordedBy)
	return validate.Struct(nc)
}

// QueryFilter applies AND operation on available fields.
type QueryFilter struct {
	Month     string `query:"month"`
	Year      int    `query:"year"`
	StudentID string `query:"student_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Month == "" && qf.Year == 0 && qf.StudentID == ""
}

func (qf *QueryFilter) Clean() {
	qf.Month = core.CleanString(qf.Month)
	qf.StudentID = core.CleanString(qf.StudentID)
}

// MonthLabels returns the twelve canonical "YYYY-MM" labels for year.
func MonthLabels(year int) []string {
	labels := make([]string, 0, 12)
	for m := 1; m <= 12; m++ {
		labels = append(labels, fmt.Sprintf("%04d-%02d", year, m))
	}
	return labels
}
