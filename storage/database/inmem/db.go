package inmemdb

import (
	"sync"

	"github.com/trezcool/shule/core/contribution"
	"github.com/trezcool/shule/core/report"
	"github.com/trezcool/shule/core/staff"
	"github.com/trezcool/shule/core/student"
)

type (
	DB struct {
		student      *studentTable
		staff        *staffTable
		contribution *contributionTable
		report       *reportTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	staffTable struct {
		sync.RWMutex
		table map[string]*staff.Staff
	}

	contributionTable struct {
		sync.RWMutex
		table map[string]*contribution.ContributionRecord
	}

	reportTable struct {
		sync.RWMutex
		table map[string]*report.WeeklyReport
	}
)

func Open() (*DB, error) {
	db := &DB{
		student:      &studentTable{table: make(map[string]*student.Student)},
		staff:        &staffTable{table: make(map[string]*staff.Staff)},
		contribution: &contributionTable{table: make(map[string]*contribution.ContributionRecord)},
		report:       &reportTable{table: make(map[string]*report.WeeklyReport)},
	}
	return db, nil
}
