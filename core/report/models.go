package report

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Report statuses
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Comment types. The set is open-ended; only "approval" carries workflow
// meaning.
const (
	CommentTypeApproval = "approval"
	CommentTypeRemark   = "remark"
)

var Statuses = []string{StatusPending, StatusReviewed, StatusApproved, StatusRejected}

func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type WeeklyReport struct {
	ID                string             `json:"id"`
	TeacherID         string             `json:"teacher_id"`
	Title             string             `json:"title"`
	Content           string             `json:"content"`
	WeekStartDate     string             `json:"week_start_date"` // YYYY-MM-DD
	WeekEndDate       string             `json:"week_end_date"`   // YYYY-MM-DD
	Attachments       []string           `json:"attachments"`
	Status            string             `json:"status"`
	SubmittedAt       time.Time          `json:"submitted_at"`             // UTC
	LastModified      time.Time          `json:"last_modified,omitempty"`  // UTC; zero until first edit
	PrincipalComments []PrincipalComment `json:"principal_comments"`
}

// PrincipalComment is append-only and owned by its parent report.
type PrincipalComment struct {
	ID          string    `json:"id"`
	PrincipalID string    `json:"principal_id"`
	Comment     string    `json:"comment"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// NewReport contains information needed to submit a weekly report.
type NewReport struct {
	TeacherID     string   `json:"teacher_id" validate:"required"`
	Title         string   `json:"title" validate:"required"`
	Content       string   `json:"content" validate:"required"`
	WeekStartDate string   `json:"week_start_date" validate:"required"`
	WeekEndDate   string   `json:"week_end_date" validate:"required"`
	Attachments   []string `json:"attachments"`
}

func (nr *NewReport) Validate(validate *validator.Validate) error {
	nr.TeacherID = core.CleanString(nr.TeacherID)
	nr.Title = core.CleanString(nr.Title)
	nr.Content = core.CleanString(nr.Content)
	nr.WeekStartDate = core.CleanString(nr.WeekStartDate)
	nr.WeekEndDate = core.CleanString(nr.WeekEndDate)
	return validate.Struct(nr)
}

// UpdateReport defines what report fields a teacher edit may merge in; empty
// fields keep their stored values.
type UpdateReport struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	WeekStartDate string   `json:"week_start_date"`
	WeekEndDate   string   `json:"week_end_date"`
	Attachments   []string `json:"attachments"`
}

func (ur *UpdateReport) Validate(validate *validator.Validate) error {
	ur.Title = core.CleanString(ur.Title)
	ur.Content = core.CleanString(ur.Content)
	ur.WeekStartDate = core.CleanString(ur.WeekStartDate)
	ur.WeekEndDate = core.CleanString(ur.WeekEndDate)
	return validate.Struct(ur)
}

// NewComment contains information needed to append a principal comment.
type NewComment struct {
	PrincipalID string `json:"principal_id" validate:"required"`
	Comment     string `json:"comment" validate:"required"`
	Type        string `json:"type" validate:"required"`
}

func (nc *NewComment) Validate(validate *validator.Validate) error {
	nc.PrincipalID = core.CleanString(nc.PrincipalID)
	nc.Comment = core.CleanString(nc.Comment)
	nc.Type = core.CleanString(nc.Type, true /* lower */)
	return validate.Struct(nc)
}

// QueryFilter applies AND operation on available fields.
type QueryFilter struct {
	TeacherID string `query:"teacher_id"`
}

func (qf *QueryFilter) Clean() {
	qf.TeacherID = core.CleanString(qf.TeacherID)
}
