package main

import (
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/staff"
)

// addStaff updates or creates a staff.Staff
func (cli *commandLine) addStaff(name, email, role, subject, pwd string) error {
	var s staff.Staff
	var err error
	email = core.CleanString(email, true /* lower */)

	if s, err = cli.staffRepo.GetStaffByEmail(email); err != nil {
		if err != staff.ErrNotFound {
			return err
		}
		s = staff.Staff{
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	}
	s.Name = core.CleanString(name)
	s.Role = role
	s.Subject = core.CleanString(subject)
	s.IsActive = true
	s.UpdatedAt = time.Now().UTC()
	if err := s.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.staffRepo.UpdateOrCreateStaff(s); err != nil {
		return err
	}
	return nil
}
