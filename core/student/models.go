package student

// Student is externally supplied reference data; the portal never mutates it.
type Student struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	GradeLevel string `json:"grade_level"`
}
