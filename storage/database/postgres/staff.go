package pgrepos

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/staff"
)

type staffRepository struct {
	db *sqlx.DB
}

func NewStaffRepository(db *sql.DB) staff.Repository {
	return &staffRepository{db: sqlx.NewDb(db, "postgres")}
}

type staffRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	Subject      string    `db:"subject"`
	IsActive     bool      `db:"is_active"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastLogin    null.Time `db:"last_login"`
}

const staffCols = `id, name, email, role, subject, is_active, password_hash, created_at, updated_at, last_login`

func (r staffRow) toStaff() staff.Staff {
	return staff.Staff{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		Subject:      r.Subject,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

func (repo *staffRepository) insert(s staff.Staff) error {
	_, err := repo.db.Exec(
		`INSERT INTO staff (`+staffCols+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.Name, s.Email, s.Role, s.Subject, s.IsActive, s.PasswordHash,
		s.CreatedAt, s.UpdatedAt, null.TimeFromPtr(timePtr(s.LastLogin)),
	)
	return err
}

func (repo *staffRepository) CreateStaff(s staff.Staff) (staff.Staff, error) {
	s.ID = uuid.New().String()
	if err := repo.insert(s); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return staff.Staff{}, staff.ErrEmailExists
		}
		return staff.Staff{}, errors.Wrap(err, "creating staff")
	}
	return s, nil
}

func (repo *staffRepository) get(q string, args ...interface{}) (staff.Staff, error) {
	var row staffRow
	err := repo.db.Get(&row, q, args...)
	if err == sql.ErrNoRows {
		return staff.Staff{}, staff.ErrNotFound
	}
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "getting staff")
	}
	return row.toStaff(), nil
}

func (repo *staffRepository) GetStaffByID(id string) (staff.Staff, error) {
	return repo.get(`SELECT `+staffCols+` FROM staff WHERE id = $1`, id)
}

func (repo *staffRepository) GetStaffByEmail(email string) (staff.Staff, error) {
	return repo.get(`SELECT `+staffCols+` FROM staff WHERE email = $1`, email)
}

func (repo *staffRepository) QueryStaffByRole(role string) ([]staff.Staff, error) {
	var rows []staffRow
	err := repo.db.Select(&rows, `SELECT `+staffCols+` FROM staff WHERE role = $1 ORDER BY name`, role)
	if err != nil {
		return nil, errors.Wrap(err, "querying staff")
	}
	members := make([]staff.Staff, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toStaff())
	}
	return members, nil
}

func (repo *staffRepository) UpdateOrCreateStaff(s staff.Staff) (staff.Staff, error) {
	orig, err := repo.GetStaffByEmail(s.Email)
	if err == staff.ErrNotFound {
		return repo.CreateStaff(s)
	}
	if err != nil {
		return staff.Staff{}, err
	}

	s.ID = orig.ID
	s.CreatedAt = orig.CreatedAt
	_, err = repo.db.Exec(
		`UPDATE staff SET name = $2, role = $3, subject = $4, is_active = $5, password_hash = $6, updated_at = $7
		 WHERE id = $1`,
		s.ID, s.Name, s.Role, s.Subject, s.IsActive, s.PasswordHash, s.UpdatedAt,
	)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "updating staff")
	}
	return s, nil
}

func (repo *staffRepository) SetLastLogin(s staff.Staff, t time.Time) (staff.Staff, error) {
	res, err := repo.db.Exec(`UPDATE staff SET last_login = $2 WHERE id = $1`, s.ID, t)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "setting last login")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.Staff{}, staff.ErrNotFound
	}
	s.LastLogin = t
	return s, nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
