package pgrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/report"
)

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sql.DB) report.Repository {
	return &reportRepository{db: sqlx.NewDb(db, "postgres")}
}

type reportRow struct {
	ID            string         `db:"id"`
	TeacherID     string         `db:"teacher_id"`
	Title         string         `db:"title"`
	Content       string         `db:"content"`
	WeekStartDate string         `db:"week_start_date"`
	WeekEndDate   string         `db:"week_end_date"`
	Attachments   pq.StringArray `db:"attachments"`
	Status        string         `db:"status"`
	SubmittedAt   time.Time      `db:"submitted_at"`
	LastModified  null.Time      `db:"last_modified"`
}

type commentRow struct {
	ID          string    `db:"id"`
	ReportID    string    `db:"report_id"`
	PrincipalID string    `db:"principal_id"`
	Comment     string    `db:"comment"`
	Type        string    `db:"type"`
	CreatedAt   time.Time `db:"created_at"`
}

const reportCols = `id, teacher_id, title, content, week_start_date, week_end_date, attachments, status, submitted_at, last_modified`

func (r reportRow) toReport(comments []report.PrincipalComment) report.WeeklyReport {
	if comments == nil {
		comments = []report.PrincipalComment{}
	}
	return report.WeeklyReport{
		ID:                r.ID,
		TeacherID:         r.TeacherID,
		Title:             r.Title,
		Content:           r.Content,
		WeekStartDate:     r.WeekStartDate,
		WeekEndDate:       r.WeekEndDate,
		Attachments:       []string(r.Attachments),
		Status:            r.Status,
		SubmittedAt:       r.SubmittedAt,
		LastModified:      r.LastModified.Time,
		PrincipalComments: comments,
	}
}

func (repo *reportRepository) comments(reportID string) ([]report.PrincipalComment, error) {
	var rows []commentRow
	err := repo.db.Select(&rows,
		`SELECT id, report_id, principal_id, comment, type, created_at
		 FROM report_comment WHERE report_id = $1 ORDER BY created_at`, reportID)
	if err != nil {
		return nil, errors.Wrap(err, "querying report comments")
	}
	comments := make([]report.PrincipalComment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, report.PrincipalComment{
			ID:          row.ID,
			PrincipalID: row.PrincipalID,
			Comment:     row.Comment,
			Type:        row.Type,
			CreatedAt:   row.CreatedAt,
		})
	}
	return comments, nil
}

func (repo *reportRepository) CreateReport(r report.WeeklyReport) (report.WeeklyReport, error) {
	r.ID = uuid.New().String()
	_, err := repo.db.Exec(
		`INSERT INTO report (`+reportCols+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.ID, r.TeacherID, r.Title, r.Content, r.WeekStartDate, r.WeekEndDate,
		pq.StringArray(r.Attachments), r.Status, r.SubmittedAt, null.TimeFromPtr(timePtr(r.LastModified)),
	)
	if err != nil {
		return report.WeeklyReport{}, errors.Wrap(err, "creating report")
	}
	if r.PrincipalComments == nil {
		r.PrincipalComments = []report.PrincipalComment{}
	}
	return r, nil
}

func (repo *reportRepository) GetReportByID(id string) (report.WeeklyReport, error) {
	var row reportRow
	err := repo.db.Get(&row, `SELECT `+reportCols+` FROM report WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return report.WeeklyReport{}, report.ErrNotFound
	}
	if err != nil {
		return report.WeeklyReport{}, errors.Wrap(err, "getting report")
	}
	comments, err := repo.comments(id)
	if err != nil {
		return report.WeeklyReport{}, err
	}
	return row.toReport(comments), nil
}

func (repo *reportRepository) FilterReports(filter report.QueryFilter) ([]report.WeeklyReport, error) {
	q := `SELECT ` + reportCols + ` FROM report`
	args := make([]interface{}, 0, 1)
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		q += ` WHERE teacher_id = $1`
	}
	q += ` ORDER BY submitted_at DESC`

	var rows []reportRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying reports")
	}

	reports := make([]report.WeeklyReport, 0, len(rows))
	for _, row := range rows {
		comments, err := repo.comments(row.ID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, row.toReport(comments))
	}
	return reports, nil
}

// UpdateReport overwrites the report document and inserts any comments not
// yet persisted; comments are append-only so existing rows are never touched.
func (repo *reportRepository) UpdateReport(r report.WeeklyReport) (report.WeeklyReport, error) {
	res, err := repo.db.Exec(
		`UPDATE report SET title = $2, content = $3, week_start_date = $4, week_end_date = $5,
		        attachments = $6, status = $7, last_modified = $8
		 WHERE id = $1`,
		r.ID, r.Title, r.Content, r.WeekStartDate, r.WeekEndDate,
		pq.StringArray(r.Attachments), r.Status, null.TimeFromPtr(timePtr(r.LastModified)),
	)
	if err != nil {
		return report.WeeklyReport{}, errors.Wrap(err, "updating report")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return report.WeeklyReport{}, report.ErrNotFound
	}

	for _, c := range r.PrincipalComments {
		_, err = repo.db.Exec(
			`INSERT INTO report_comment (id, report_id, principal_id, comment, type, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`,
			c.ID, r.ID, c.PrincipalID, c.Comment, c.Type, c.CreatedAt,
		)
		if err != nil {
			return report.WeeklyReport{}, errors.Wrap(err, "saving report comment")
		}
	}
	return r, nil
}
