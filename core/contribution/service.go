package contribution

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/student"
)

var (
	// errors
	ErrNotFound         = errors.New("contribution record not found")
	ErrDuplicatePayment = errors.New("a payment for this student and month has already been recorded")
)

type (
	Repository interface {
		// CreateContribution must enforce the (student, month, year)
		// uniqueness atomically and return ErrDuplicatePayment on conflict.
		CreateContribution(rec ContributionRecord) (ContributionRecord, error)
		// FilterContributions applies AND operation on available QueryFilter
		// fields; results are sorted by payment date, most recent first.
		FilterContributions(filter QueryFilter) ([]ContributionRecord, error)
	}

	Service struct {
		repo          Repository
		studentRepo   student.Repository
		monthlyAmount int
	}
)

func NewService(repo Repository, studentRepo student.Repository, conf *core.Config) *Service {
	return &Service{
		repo:          repo,
		studentRepo:   studentRepo,
		monthlyAmount: conf.Contribution.MonthlyAmount,
	}
}

func (svc *Service) RecordPayment(nc NewContribution) (ContributionRecord, error) {
	now := time.Now().UTC()
	rec := ContributionRecord{
		StudentID:     nc.StudentID,
		Amount:        nc.Amount,
		Month:         nc.Month,
		Year:          nc.Year,
		PaymentDate:   now,
		PaymentMethod: nc.PaymentMethod,
		ReceiptNumber: nc.ReceiptNumber,
		RecordedBy:    nc.RecordedBy,
		Status:        StatusPaid,
		CreatedAt:     now,
	}
	if rec.ReceiptNumber == "" {
		rec.ReceiptNumber = newReceiptNumber(rec.Year)
	}
	return svc.repo.CreateContribution(rec)
}

func (svc *Service) Query(filter QueryFilter) ([]ContributionRecord, error) {
	return svc.repo.FilterContributions(filter)
}

// QuotaForStudent recomputes the student's quota summary for year from the
// current ledger snapshot.
func (svc *Service) QuotaForStudent(st student.Student, year int) (Quota, error) {
	recs, err := svc.repo.FilterContributions(QueryFilter{Year: year, StudentID: st.ID})
	if err != nil {
		return Quota{}, err
	}
	return ComputeQuota(st, year, svc.monthlyAmount, recs), nil
}

// YearQuotas recomputes quota summaries for the whole roster.
func (svc *Service) YearQuotas(year int) ([]Quota, error) {
	students, err := svc.studentRepo.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	recs, err := svc.repo.FilterContributions(QueryFilter{Year: year})
	if err != nil {
		return nil, err
	}

	byStudent := make(map[string][]ContributionRecord, len(students))
	for _, rec := range recs {
		byStudent[rec.StudentID] = append(byStudent[rec.StudentID], rec)
	}

	quotas := make([]Quota, 0, len(students))
	for _, st := range students {
		quotas = append(quotas, ComputeQuota(st, year, svc.monthlyAmount, byStudent[st.ID]))
	}
	return quotas, nil
}

// ComputeQuota is a pure function over a ledger snapshot. Overpayment is
// preserved: totalPaid above the yearly quota yields a negative remaining
// balance, not a capped one.
func ComputeQuota(st student.Student, year, monthlyAmount int, recs []ContributionRecord) Quota {
	labels := MonthLabels(year)
	canonical := make(map[string]bool, len(labels))
	for _, label := range labels {
		canonical[label] = true
	}

	var totalPaid int
	paidSet := make(map[string]bool)
	for _, rec := range recs {
		if rec.Year != year {
			continue
		}
		totalPaid += rec.Amount
		if canonical[rec.Month] {
			paidSet[rec.Month] = true
		}
	}

	monthsPaid := make([]string, 0, len(paidSet))
	monthsUnpaid := make([]string, 0, len(labels)-len(paidSet))
	for _, label := range labels {
		if paidSet[label] {
			monthsPaid = append(monthsPaid, label)
		} else {
			monthsUnpaid = append(monthsUnpaid, label)
		}
	}
	sort.Strings(monthsPaid)

	yearlyQuota := monthlyAmount * 12
	var status string
	switch {
	case totalPaid >= yearlyQuota && totalPaid > 0:
		status = PaymentStatusFullyPaid
	case totalPaid > 0:
		status = PaymentStatusPartiallyPaid
	default:
		status = PaymentStatusNotPaid
	}

	return Quota{
		StudentID:        st.ID,
		StudentName:      st.Name,
		GradeLevel:       st.GradeLevel,
		MonthlyAmount:    monthlyAmount,
		YearlyQuota:      yearlyQuota,
		TotalPaid:        totalPaid,
		RemainingBalance: yearlyQuota - totalPaid,
		PaymentStatus:    status,
		MonthsPaid:       monthsPaid,
		MonthsUnpaid:     monthsUnpaid,
	}
}

func newReceiptNumber(year int) string {
	return fmt.Sprintf("RCT-%d-%.8s", year, uuid.New().String())
}
