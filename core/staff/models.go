package staff

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
)

// Roles
const (
	RoleTeacher   = "teacher"
	RolePrincipal = "principal"
)

var AllRoles = []string{RoleTeacher, RolePrincipal}

type Staff struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Subject      string    `json:"subject,omitempty"` // teachers only
	IsActive     bool      `json:"is_active"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

// SetPassword hashes and stores pwd. The portal login rule does not compare
// hashes (see Service.Authenticate) but records created via the admin CLI
// carry one so a real check can be enabled without a data migration.
func (s *Staff) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Staff) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

func (s *Staff) IsTeacher() bool   { return s.Role == RoleTeacher }
func (s *Staff) IsPrincipal() bool { return s.Role == RolePrincipal }

// NewStaff contains information needed to create a new Staff member.
type NewStaff struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,oneof=teacher principal"`
	Subject  string `json:"subject"`
	Password string `json:"password" validate:"required"`
}

func (ns *NewStaff) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Subject = core.CleanString(ns.Subject)
	return validate.Struct(ns)
}
