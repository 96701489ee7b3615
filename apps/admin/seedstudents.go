package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/student"
)

// seedStudents loads the roster reference data from a CSV file with
// id,name,grade_level rows. A missing id gets one generated; existing ids are
// overwritten.
func (cli *commandLine) seedStudents(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening roster file")
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3

	rows, err := r.ReadAll()
	if err != nil {
		return errors.Wrap(err, "reading roster file")
	}

	var count int
	for i, row := range rows {
		st := student.Student{
			ID:         core.CleanString(row[0]),
			Name:       core.CleanString(row[1]),
			GradeLevel: core.CleanString(row[2]),
		}
		if st.Name == "" {
			return fmt.Errorf("row %d: name is required", i+1)
		}
		if st.ID == "" {
			st.ID = uuid.New().String()
		}
		if _, err := cli.studentRepo.UpsertStudent(st); err != nil {
			return errors.Wrapf(err, "upserting student %q", st.Name)
		}
		count++
	}

	fmt.Printf("seeded %d students\n", count)
	return nil
}
