package report

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

type fakeRepo struct {
	reports map[string]WeeklyReport
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reports: make(map[string]WeeklyReport)}
}

func (r *fakeRepo) CreateReport(rep WeeklyReport) (WeeklyReport, error) {
	rep.ID = fmt.Sprintf("rep-%d", len(r.reports)+1)
	r.reports[rep.ID] = rep
	return rep, nil
}

func (r *fakeRepo) GetReportByID(id string) (WeeklyReport, error) {
	rep, ok := r.reports[id]
	if !ok {
		return WeeklyReport{}, ErrNotFound
	}
	return rep, nil
}

func (r *fakeRepo) FilterReports(filter QueryFilter) ([]WeeklyReport, error) {
	matches := make([]WeeklyReport, 0)
	for _, rep := range r.reports {
		if filter.TeacherID != "" && rep.TeacherID != filter.TeacherID {
			continue
		}
		matches = append(matches, rep)
	}
	return matches, nil
}

func (r *fakeRepo) UpdateReport(rep WeeklyReport) (WeeklyReport, error) {
	if _, ok := r.reports[rep.ID]; !ok {
		return WeeklyReport{}, ErrNotFound
	}
	r.reports[rep.ID] = rep
	return rep, nil
}

func newTestService() *Service {
	return NewService(newFakeRepo(), nil, &core.Config{})
}

func submit(t *testing.T, svc *Service, title string) WeeklyReport {
	t.Helper()

	r, err := svc.Submit(NewReport{
		TeacherID:     "t-001",
		Title:         title,
		Content:       "We covered fractions.",
		WeekStartDate: "2024-03-04",
		WeekEndDate:   "2024-03-08",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	return r
}

func TestService_Submit(t *testing.T) {
	svc := newTestService()

	r := submit(t, svc, "Week 10")

	if r.ID == "" {
		t.Error("ID not set")
	}
	if r.Status != StatusPending {
		t.Errorf("Status = %q, want %q", r.Status, StatusPending)
	}
	if r.SubmittedAt.IsZero() {
		t.Error("SubmittedAt not set")
	}
	if !r.LastModified.IsZero() {
		t.Error("LastModified set on submission")
	}
	if r.Attachments == nil || len(r.Attachments) != 0 {
		t.Errorf("Attachments = %v, want []", r.Attachments)
	}
	if r.PrincipalComments == nil || len(r.PrincipalComments) != 0 {
		t.Errorf("PrincipalComments = %v, want []", r.PrincipalComments)
	}
}

func TestService_Update(t *testing.T) {
	svc := newTestService()

	r := submit(t, svc, "Week 10")

	updated, err := svc.Update(r.ID, UpdateReport{Title: "Week 10 (revised)"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "Week 10 (revised)" {
		t.Errorf("Title = %q, want %q", updated.Title, "Week 10 (revised)")
	}
	// empty patch fields keep their stored values
	if updated.Content != r.Content {
		t.Errorf("Content = %q, want %q", updated.Content, r.Content)
	}
	if updated.WeekStartDate != r.WeekStartDate || updated.WeekEndDate != r.WeekEndDate {
		t.Error("week dates changed")
	}
	if updated.LastModified.IsZero() {
		t.Error("LastModified not set")
	}

	// attachments replace wholesale when provided
	updated, err = svc.Update(r.ID, UpdateReport{Attachments: []string{"notes.pdf"}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(updated.Attachments) != 1 || updated.Attachments[0] != "notes.pdf" {
		t.Errorf("Attachments = %v, want [notes.pdf]", updated.Attachments)
	}

	if _, err = svc.Update("nope", UpdateReport{Title: "x"}); err != ErrNotFound {
		t.Errorf("Update() error = %v, wantErr %v", err, ErrNotFound)
	}
}

func TestService_AddComment(t *testing.T) {
	svc := newTestService()

	comment := func(t *testing.T, id, cType string) WeeklyReport {
		t.Helper()
		r, err := svc.AddComment(id, NewComment{PrincipalID: "p-001", Comment: "Noted.", Type: cType})
		if err != nil {
			t.Fatalf("AddComment() error = %v", err)
		}
		return r
	}

	t.Run("remark moves pending to reviewed", func(t *testing.T) {
		r := submit(t, svc, "Week 1")
		r = comment(t, r.ID, CommentTypeRemark)

		if r.Status != StatusReviewed {
			t.Errorf("Status = %q, want %q", r.Status, StatusReviewed)
		}
		if len(r.PrincipalComments) != 1 {
			t.Fatalf("len(PrincipalComments) = %d, want 1", len(r.PrincipalComments))
		}
		c := r.PrincipalComments[0]
		if c.ID == "" || c.CreatedAt.IsZero() {
			t.Error("comment ID or CreatedAt not set")
		}
	})

	t.Run("remark on reviewed stays reviewed", func(t *testing.T) {
		r := submit(t, svc, "Week 2")
		r = comment(t, r.ID, CommentTypeRemark)
		r = comment(t, r.ID, CommentTypeRemark)

		if r.Status != StatusReviewed {
			t.Errorf("Status = %q, want %q", r.Status, StatusReviewed)
		}
		if len(r.PrincipalComments) != 2 {
			t.Errorf("len(PrincipalComments) = %d, want 2", len(r.PrincipalComments))
		}
	})

	t.Run("approval approves regardless of status", func(t *testing.T) {
		r := submit(t, svc, "Week 3")
		r = comment(t, r.ID, CommentTypeApproval)
		if r.Status != StatusApproved {
			t.Errorf("Status = %q, want %q", r.Status, StatusApproved)
		}

		r2 := submit(t, svc, "Week 4")
		r2 = comment(t, r2.ID, CommentTypeRemark)
		r2 = comment(t, r2.ID, CommentTypeApproval)
		if r2.Status != StatusApproved {
			t.Errorf("Status = %q, want %q", r2.Status, StatusApproved)
		}
	})

	t.Run("remark on approved keeps it approved", func(t *testing.T) {
		r := submit(t, svc, "Week 5")
		r = comment(t, r.ID, CommentTypeApproval)
		r = comment(t, r.ID, CommentTypeRemark)
		if r.Status != StatusApproved {
			t.Errorf("Status = %q, want %q", r.Status, StatusApproved)
		}
	})

	t.Run("unknown report", func(t *testing.T) {
		if _, err := svc.AddComment("nope", NewComment{PrincipalID: "p-001", Comment: "x", Type: CommentTypeRemark}); err != ErrNotFound {
			t.Errorf("AddComment() error = %v, wantErr %v", err, ErrNotFound)
		}
	})
}

func TestService_SetStatus(t *testing.T) {
	svc := newTestService()

	r := submit(t, svc, "Week 10")

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.SetStatus(r.ID, "lol")
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("SetStatus() error = %v, want *core.ValidationError", err)
		}
		if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "status" {
			t.Errorf("Fields = %v, want [status]", vErr.Fields)
		}

		// stored status unchanged
		stored, err := svc.Get(r.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if stored.Status != StatusPending {
			t.Errorf("Status = %q, want %q", stored.Status, StatusPending)
		}
	})

	t.Run("any enum member from any state", func(t *testing.T) {
		for _, status := range []string{StatusRejected, StatusApproved, StatusPending, StatusReviewed} {
			updated, err := svc.SetStatus(r.ID, status)
			if err != nil {
				t.Fatalf("SetStatus(%q) error = %v", status, err)
			}
			if updated.Status != status {
				t.Errorf("Status = %q, want %q", updated.Status, status)
			}
		}
	})

	t.Run("unknown report", func(t *testing.T) {
		if _, err := svc.SetStatus("nope", StatusApproved); err != ErrNotFound {
			t.Errorf("SetStatus() error = %v, wantErr %v", err, ErrNotFound)
		}
	})
}
