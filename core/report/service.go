package report

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound      = errors.New("report not found")
	ErrInvalidStatus = errors.New("invalid report status")
)

type (
	Repository interface {
		CreateReport(r WeeklyReport) (WeeklyReport, error)
		GetReportByID(id string) (WeeklyReport, error)
		// FilterReports applies AND operation on available QueryFilter
		// fields; results are sorted by submission date, most recent first.
		FilterReports(filter QueryFilter) ([]WeeklyReport, error)
		// UpdateReport overwrites the stored document under the store lock;
		// last writer wins.
		UpdateReport(r WeeklyReport) (WeeklyReport, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

func (svc *Service) Submit(nr NewReport) (WeeklyReport, error) {
	r := WeeklyReport{
		TeacherID:         nr.TeacherID,
		Title:             nr.Title,
		Content:           nr.Content,
		WeekStartDate:     nr.WeekStartDate,
		WeekEndDate:       nr.WeekEndDate,
		Attachments:       nr.Attachments,
		Status:            StatusPending,
		SubmittedAt:       time.Now().UTC(),
		PrincipalComments: []PrincipalComment{},
	}
	if r.Attachments == nil {
		r.Attachments = []string{}
	}

	r, err := svc.repo.CreateReport(r)
	if err != nil {
		return WeeklyReport{}, err
	}

	svc.notifyPrincipal(r)
	return r, nil
}

func (svc *Service) Get(id string) (WeeklyReport, error) {
	return svc.repo.GetReportByID(id)
}

func (svc *Service) Query(filter QueryFilter) ([]WeeklyReport, error) {
	return svc.repo.FilterReports(filter)
}

// Update merges the patch into the stored report. No field-level
// authorization is applied here.
func (svc *Service) Update(id string, ur UpdateReport) (WeeklyReport, error) {
	r, err := svc.repo.GetReportByID(id)
	if err != nil {
		return WeeklyReport{}, err
	}

	if ur.Title != "" {
		r.Title = ur.Title
	}
	if ur.Content != "" {
		r.Content = ur.Content
	}
	if ur.WeekStartDate != "" {
		r.WeekStartDate = ur.WeekStartDate
	}
	if ur.WeekEndDate != "" {
		r.WeekEndDate = ur.WeekEndDate
	}
	if ur.Attachments != nil {
		r.Attachments = ur.Attachments
	}
	r.LastModified = time.Now().UTC()

	return svc.repo.UpdateReport(r)
}

// AddComment appends a principal comment and advances the workflow: an
// approval comment forces the approved status regardless of the current one;
// any other comment on a pending report moves it to reviewed.
func (svc *Service) AddComment(id string, nc NewComment) (WeeklyReport, error) {
	r, err := svc.repo.GetReportByID(id)
	if err != nil {
		return WeeklyReport{}, err
	}

	r.PrincipalComments = append(r.PrincipalComments, PrincipalComment{
		ID:          uuid.New().String(),
		PrincipalID: nc.PrincipalID,
		Comment:     nc.Comment,
		Type:        nc.Type,
		CreatedAt:   time.Now().UTC(),
	})

	if nc.Type == CommentTypeApproval {
		r.Status = StatusApproved
	} else if r.Status == StatusPending {
		r.Status = StatusReviewed
	}

	return svc.repo.UpdateReport(r)
}

// SetStatus overwrites the report status unconditionally; any member of the
// status enum is reachable from any state. Only the enum itself is checked.
func (svc *Service) SetStatus(id, status string) (WeeklyReport, error) {
	if !ValidStatus(status) {
		return WeeklyReport{}, core.NewValidationError(ErrInvalidStatus, core.FieldError{
			Field: "status", Error: ErrInvalidStatus.Error(),
		})
	}

	r, err := svc.repo.GetReportByID(id)
	if err != nil {
		return WeeklyReport{}, err
	}
	r.Status = status
	return svc.repo.UpdateReport(r)
}

func (svc *Service) notifyPrincipal(r WeeklyReport) {
	if svc.mailSvc == nil || svc.conf.PrincipalEmail.Address == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{svc.conf.PrincipalEmail},
		Subject:      fmt.Sprintf("New weekly report: %s", r.Title),
		TemplateName: "report-submitted",
		TemplateData: r,
		BodyStr: fmt.Sprintf(
			"A new weekly report %q (%s to %s) has been submitted and is awaiting review.",
			r.Title, r.WeekStartDate, r.WeekEndDate,
		),
	})
}
