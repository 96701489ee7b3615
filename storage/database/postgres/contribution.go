package pgrepos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/contribution"
)

type contributionRepository struct {
	db *sqlx.DB
}

func NewContributionRepository(db *sql.DB) contribution.Repository {
	return &contributionRepository{db: sqlx.NewDb(db, "postgres")}
}

type contributionRow struct {
	ID            string       `db:"id"`
	StudentID     string       `db:"student_id"`
	Amount        int          `db:"amount"`
	Month         string       `db:"month"`
	Year          int          `db:"year"`
	PaymentDate   sql.NullTime `db:"payment_date"`
	PaymentMethod string       `db:"payment_method"`
	ReceiptNumber string       `db:"receipt_number"`
	RecordedBy    string       `db:"recorded_by"`
	Status        string       `db:"status"`
	CreatedAt     sql.NullTime `db:"created_at"`
}

func (r contributionRow) toRecord() contribution.ContributionRecord {
	return contribution.ContributionRecord{
		ID:            r.ID,
		StudentID:     r.StudentID,
		Amount:        r.Amount,
		Month:         r.Month,
		Year:          r.Year,
		PaymentDate:   r.PaymentDate.Time,
		PaymentMethod: r.PaymentMethod,
		ReceiptNumber: r.ReceiptNumber,
		RecordedBy:    r.RecordedBy,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt.Time,
	}
}

// CreateContribution relies on the (student_id, month, year) UNIQUE
// constraint for the duplicate-payment guard; the check and insert are one
// atomic statement.
func (repo *contributionRepository) CreateContribution(rec contribution.ContributionRecord) (contribution.ContributionRecord, error) {
	rec.ID = uuid.New().String()
	_, err := repo.db.Exec(
		`INSERT INTO contribution
		 (id, student_id, amount, month, year, payment_date, payment_method, receipt_number, recorded_by, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.StudentID, rec.Amount, rec.Month, rec.Year, rec.PaymentDate,
		rec.PaymentMethod, rec.ReceiptNumber, rec.RecordedBy, rec.Status, rec.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return contribution.ContributionRecord{}, contribution.ErrDuplicatePayment
		}
		return contribution.ContributionRecord{}, errors.Wrap(err, "creating contribution")
	}
	return rec, nil
}

func (repo *contributionRepository) FilterContributions(filter contribution.QueryFilter) ([]contribution.ContributionRecord, error) {
	q := `SELECT id, student_id, amount, month, year, payment_date, payment_method,
	             receipt_number, recorded_by, status, created_at
	      FROM contribution WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if filter.Month != "" {
		args = append(args, filter.Month)
		q += ` AND month = $` + itoa(len(args))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		q += ` AND year = $` + itoa(len(args))
	}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		q += ` AND student_id = $` + itoa(len(args))
	}
	q += ` ORDER BY payment_date DESC`

	var rows []contributionRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying contributions")
	}
	recs := make([]contribution.ContributionRecord, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.toRecord())
	}
	return recs, nil
}
