package inmemdb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/report"
)

type reportRepository struct {
	db *reportTable
}

func NewReportRepository(db *DB) report.Repository {
	return &reportRepository{db: db.report}
}

func (repo *reportRepository) CreateReport(r report.WeeklyReport) (report.WeeklyReport, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	r.ID = uuid.New().String()
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *reportRepository) GetReportByID(id string) (report.WeeklyReport, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.table[id]; ok {
		return *r, nil
	}
	return report.WeeklyReport{}, report.ErrNotFound
}

func (repo *reportRepository) FilterReports(filter report.QueryFilter) ([]report.WeeklyReport, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reports := make([]report.WeeklyReport, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		if filter.TeacherID != "" && r.TeacherID != filter.TeacherID {
			continue
		}
		reports = append(reports, *r)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].SubmittedAt.After(reports[j].SubmittedAt) })
	return reports, nil
}

// UpdateReport overwrites the whole document; last writer wins.
func (repo *reportRepository) UpdateReport(r report.WeeklyReport) (report.WeeklyReport, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[r.ID]; !ok {
		return report.WeeklyReport{}, report.ErrNotFound
	}
	repo.db.table[r.ID] = &r
	return r, nil
}
