package student

import "errors"

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id string) (Student, error)
		// UpsertStudent loads roster reference data; used by seeding only.
		UpsertStudent(st Student) (Student, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}
