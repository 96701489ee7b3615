package inmemdb

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/staff"
)

type staffRepository struct {
	db *staffTable
}

func NewStaffRepository(db *DB) staff.Repository {
	return &staffRepository{db: db.staff}
}

func (repo *staffRepository) getByEmail(email string) (*staff.Staff, bool) {
	for _, s := range repo.db.table {
		if s.Email == email {
			return s, true
		}
	}
	return nil, false
}

func (repo *staffRepository) CreateStaff(s staff.Staff) (staff.Staff, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.getByEmail(s.Email); ok {
		return staff.Staff{}, staff.ErrEmailExists
	}
	s.ID = uuid.New().String()
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *staffRepository) GetStaffByID(id string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) GetStaffByEmail(email string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.getByEmail(email); ok {
		return *s, nil
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) QueryStaffByRole(role string) ([]staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	members := make([]staff.Staff, 0)
	for _, s := range repo.db.table {
		if s.Role == role {
			members = append(members, *s)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members, nil
}

func (repo *staffRepository) UpdateOrCreateStaff(s staff.Staff) (staff.Staff, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if orig, ok := repo.getByEmail(s.Email); ok {
		s.ID = orig.ID
		s.CreatedAt = orig.CreatedAt
		repo.db.table[s.ID] = &s
		return s, nil
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *staffRepository) SetLastLogin(s staff.Staff, t time.Time) (staff.Staff, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[s.ID]
	if !ok {
		return staff.Staff{}, staff.ErrNotFound
	}
	orig.LastLogin = t
	return *orig, nil
}
