package pgrepos

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sql.DB) student.Repository {
	return &studentRepository{db: sqlx.NewDb(db, "postgres")}
}

type studentRow struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	GradeLevel string `db:"grade_level"`
}

func (r studentRow) toStudent() student.Student {
	return student.Student{ID: r.ID, Name: r.Name, GradeLevel: r.GradeLevel}
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.Select(&rows, `SELECT id, name, grade_level FROM student ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toStudent())
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	var row studentRow
	err := repo.db.Get(&row, `SELECT id, name, grade_level FROM student WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return row.toStudent(), nil
}

func (repo *studentRepository) UpsertStudent(st student.Student) (student.Student, error) {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	_, err := repo.db.Exec(
		`INSERT INTO student (id, name, grade_level) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = $2, grade_level = $3`,
		st.ID, st.Name, st.GradeLevel,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "upserting student")
	}
	return st, nil
}
