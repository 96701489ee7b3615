package inmemdb

import (
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/contribution"
)

type contributionRepository struct {
	db *contributionTable
}

func NewContributionRepository(db *DB) contribution.Repository {
	return &contributionRepository{db: db.contribution}
}

// CreateContribution holds the write lock across the duplicate check and the
// insert so concurrent submissions for the same (student, month, year) cannot
// both pass the check.
func (repo *contributionRepository) CreateContribution(rec contribution.ContributionRecord) (contribution.ContributionRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.StudentID == rec.StudentID && existing.Month == rec.Month && existing.Year == rec.Year {
			return contribution.ContributionRecord{}, contribution.ErrDuplicatePayment
		}
	}

	rec.ID = uuid.New().String()
	repo.db.table[rec.ID] = &rec
	return rec, nil
}

func (repo *contributionRepository) FilterContributions(filter contribution.QueryFilter) ([]contribution.ContributionRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]contribution.ContributionRecord, 0, len(repo.db.table))
	for _, rec := range repo.db.table {
		if filter.Month != "" && rec.Month != filter.Month {
			continue
		}
		if filter.Year != 0 && rec.Year != filter.Year {
			continue
		}
		if filter.StudentID != "" && rec.StudentID != filter.StudentID {
			continue
		}
		recs = append(recs, *rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].PaymentDate.After(recs[j].PaymentDate) })
	return recs, nil
}
