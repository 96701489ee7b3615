package contribution

import (
	"fmt"
	"strings"
	"testing"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/student"
)

type fakeRepo struct {
	recs []ContributionRecord
}

func (r *fakeRepo) CreateContribution(rec ContributionRecord) (ContributionRecord, error) {
	for _, existing := range r.recs {
		if existing.StudentID == rec.StudentID && existing.Month == rec.Month && existing.Year == rec.Year {
			return ContributionRecord{}, ErrDuplicatePayment
		}
	}
	rec.ID = fmt.Sprintf("rec-%d", len(r.recs)+1)
	r.recs = append(r.recs, rec)
	return rec, nil
}

func (r *fakeRepo) FilterContributions(filter QueryFilter) ([]ContributionRecord, error) {
	matches := make([]ContributionRecord, 0)
	for _, rec := range r.recs {
		if filter.Month != "" && rec.Month != filter.Month {
			continue
		}
		if filter.Year != 0 && rec.Year != filter.Year {
			continue
		}
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}
		matches = append(matches, rec)
	}
	return matches, nil
}

type fakeStudentRepo struct {
	students []student.Student
}

func (r *fakeStudentRepo) QueryAllStudents() ([]student.Student, error) { return r.students, nil }

func (r *fakeStudentRepo) GetStudentByID(id string) (student.Student, error) {
	for _, st := range r.students {
		if st.ID == id {
			return st, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (r *fakeStudentRepo) UpsertStudent(st student.Student) (student.Student, error) {
	r.students = append(r.students, st)
	return st, nil
}

func newTestService(students ...student.Student) (*Service, *fakeRepo) {
	repo := new(fakeRepo)
	conf := &core.Config{Contribution: core.ContributionConfig{MonthlyAmount: 500}}
	return NewService(repo, &fakeStudentRepo{students: students}, conf), repo
}

func TestService_RecordPayment(t *testing.T) {
	svc, _ := newTestService()

	rec, err := svc.RecordPayment(NewContribution{
		StudentID: "s-001", Amount: 500, Month: "2024-03", Year: 2024, PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}
	if rec.Status != StatusPaid {
		t.Errorf("Status = %q, want %q", rec.Status, StatusPaid)
	}
	if rec.PaymentDate.IsZero() || rec.CreatedAt.IsZero() {
		t.Error("timestamps not set")
	}
	if !strings.HasPrefix(rec.ReceiptNumber, "RCT-2024-") {
		t.Errorf("ReceiptNumber = %q, want RCT-2024- prefix", rec.ReceiptNumber)
	}
	if got := len(rec.ReceiptNumber); got != len("RCT-2024-")+8 {
		t.Errorf("len(ReceiptNumber) = %d, want %d", got, len("RCT-2024-")+8)
	}

	// a supplied receipt number is kept
	rec2, err := svc.RecordPayment(NewContribution{
		StudentID: "s-001", Amount: 500, Month: "2024-04", Year: 2024, ReceiptNumber: "RCT-MANUAL-1",
	})
	if err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}
	if rec2.ReceiptNumber != "RCT-MANUAL-1" {
		t.Errorf("ReceiptNumber = %q, want %q", rec2.ReceiptNumber, "RCT-MANUAL-1")
	}

	// the same month is rejected no matter the amount
	if _, err = svc.RecordPayment(NewContribution{
		StudentID: "s-001", Amount: 9999, Month: "2024-03", Year: 2024,
	}); err != ErrDuplicatePayment {
		t.Errorf("RecordPayment() error = %v, wantErr %v", err, ErrDuplicatePayment)
	}

	// other students are unaffected
	if _, err = svc.RecordPayment(NewContribution{
		StudentID: "s-002", Amount: 500, Month: "2024-03", Year: 2024,
	}); err != nil {
		t.Errorf("RecordPayment() error = %v", err)
	}
}

func TestComputeQuota(t *testing.T) {
	st := student.Student{ID: "s-001", Name: "Alice Ilunga", GradeLevel: "Grade 1"}
	rec := func(amount int, month string, year int) ContributionRecord {
		return ContributionRecord{StudentID: st.ID, Amount: amount, Month: month, Year: year}
	}

	tests := []struct {
		name            string
		recs            []ContributionRecord
		wantTotal       int
		wantRemaining   int
		wantStatus      string
		wantMonthsPaid  []string
		wantUnpaidCount int
	}{
		{
			name:            "no payments",
			wantTotal:       0,
			wantRemaining:   6000,
			wantStatus:      PaymentStatusNotPaid,
			wantMonthsPaid:  []string{},
			wantUnpaidCount: 12,
		},
		{
			name:            "single payment",
			recs:            []ContributionRecord{rec(500, "2024-03", 2024)},
			wantTotal:       500,
			wantRemaining:   5500,
			wantStatus:      PaymentStatusPartiallyPaid,
			wantMonthsPaid:  []string{"2024-03"},
			wantUnpaidCount: 11,
		},
		{
			name: "exactly paid up",
			recs: func() []ContributionRecord {
				recs := make([]ContributionRecord, 0, 12)
				for _, label := range MonthLabels(2024) {
					recs = append(recs, rec(500, label, 2024))
				}
				return recs
			}(),
			wantTotal:       6000,
			wantRemaining:   0,
			wantStatus:      PaymentStatusFullyPaid,
			wantMonthsPaid:  MonthLabels(2024),
			wantUnpaidCount: 0,
		},
		{
			name:            "overpayment keeps negative balance",
			recs:            []ContributionRecord{rec(7000, "2024-01", 2024)},
			wantTotal:       7000,
			wantRemaining:   -1000,
			wantStatus:      PaymentStatusFullyPaid,
			wantMonthsPaid:  []string{"2024-01"},
			wantUnpaidCount: 11,
		},
		{
			name:            "other year records are skipped",
			recs:            []ContributionRecord{rec(500, "2023-12", 2023)},
			wantTotal:       0,
			wantRemaining:   6000,
			wantStatus:      PaymentStatusNotPaid,
			wantMonthsPaid:  []string{},
			wantUnpaidCount: 12,
		},
		{
			name:            "non-canonical month counts towards the total only",
			recs:            []ContributionRecord{{StudentID: st.ID, Amount: 500, Month: "2024-3", Year: 2024}},
			wantTotal:       500,
			wantRemaining:   5500,
			wantStatus:      PaymentStatusPartiallyPaid,
			wantMonthsPaid:  []string{},
			wantUnpaidCount: 12,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ComputeQuota(st, 2024, 500, tt.recs)

			if q.StudentID != st.ID || q.StudentName != st.Name || q.GradeLevel != st.GradeLevel {
				t.Errorf("student fields = %v %v %v", q.StudentID, q.StudentName, q.GradeLevel)
			}
			if q.MonthlyAmount != 500 || q.YearlyQuota != 6000 {
				t.Errorf("MonthlyAmount = %d, YearlyQuota = %d", q.MonthlyAmount, q.YearlyQuota)
			}
			if q.TotalPaid != tt.wantTotal {
				t.Errorf("TotalPaid = %d, want %d", q.TotalPaid, tt.wantTotal)
			}
			if q.RemainingBalance != tt.wantRemaining {
				t.Errorf("RemainingBalance = %d, want %d", q.RemainingBalance, tt.wantRemaining)
			}
			if q.PaymentStatus != tt.wantStatus {
				t.Errorf("PaymentStatus = %q, want %q", q.PaymentStatus, tt.wantStatus)
			}
			if len(q.MonthsPaid) != len(tt.wantMonthsPaid) {
				t.Errorf("MonthsPaid = %v, want %v", q.MonthsPaid, tt.wantMonthsPaid)
			} else {
				for i, label := range tt.wantMonthsPaid {
					if q.MonthsPaid[i] != label {
						t.Errorf("MonthsPaid[%d] = %q, want %q", i, q.MonthsPaid[i], label)
					}
				}
			}
			if len(q.MonthsUnpaid) != tt.wantUnpaidCount {
				t.Errorf("len(MonthsUnpaid) = %d, want %d", len(q.MonthsUnpaid), tt.wantUnpaidCount)
			}

			// paid and unpaid partition the canonical labels
			if len(q.MonthsPaid)+len(q.MonthsUnpaid) != 12 {
				t.Errorf("MonthsPaid + MonthsUnpaid = %d labels, want 12", len(q.MonthsPaid)+len(q.MonthsUnpaid))
			}
		})
	}
}

func TestService_YearQuotas(t *testing.T) {
	svc, _ := newTestService(
		student.Student{ID: "s-001", Name: "Alice Ilunga", GradeLevel: "Grade 1"},
		student.Student{ID: "s-002", Name: "Benjamin Mwamba", GradeLevel: "Grade 2"},
	)

	if _, err := svc.RecordPayment(NewContribution{
		StudentID: "s-001", Amount: 500, Month: "2024-03", Year: 2024,
	}); err != nil {
		t.Fatalf("RecordPayment() error = %v", err)
	}

	quotas, err := svc.YearQuotas(2024)
	if err != nil {
		t.Fatalf("YearQuotas() error = %v", err)
	}
	if len(quotas) != 2 {
		t.Fatalf("len(quotas) = %d, want 2", len(quotas))
	}

	// every roster member gets a summary, paying or not
	byStudent := make(map[string]Quota, len(quotas))
	for _, q := range quotas {
		byStudent[q.StudentID] = q
	}
	if byStudent["s-001"].PaymentStatus != PaymentStatusPartiallyPaid {
		t.Errorf("s-001 PaymentStatus = %q, want %q", byStudent["s-001"].PaymentStatus, PaymentStatusPartiallyPaid)
	}
	if byStudent["s-002"].PaymentStatus != PaymentStatusNotPaid {
		t.Errorf("s-002 PaymentStatus = %q, want %q", byStudent["s-002"].PaymentStatus, PaymentStatusNotPaid)
	}
}

func TestMonthLabels(t *testing.T) {
	labels := MonthLabels(2024)
	if len(labels) != 12 {
		t.Fatalf("len(labels) = %d, want 12", len(labels))
	}
	if labels[0] != "2024-01" || labels[11] != "2024-12" {
		t.Errorf("labels = %v", labels)
	}
}
