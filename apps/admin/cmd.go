package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/shule/core/staff"
	"github.com/trezcool/shule/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp         = errors.New("help provided")
	errPostgresOnly = errors.New("this command requires the postgres database engine")
)

type commandLine struct {
	db          *sql.DB // nil unless the postgres engine is configured
	staffRepo   staff.Repository
	studentRepo student.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addstaff -email EMAIL -name NAME -role teacher|principal [-subject SUBJECT] - add or update a staff member")
	fmt.Println("  seedstudents -file FILE - load the student roster from a CSV file (id,name,grade_level)")
	fmt.Println("  migrate COMMAND [args] - run a goose migration command (up, down, status, ...)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addStaffCmd := flag.NewFlagSet("addstaff", flag.ExitOnError)
	addStaffEmail := addStaffCmd.String("email", "", "The staff member's email. The password will be prompted next.")
	addStaffName := addStaffCmd.String("name", "", "The staff member's full name.")
	addStaffRole := addStaffCmd.String("role", "", "The staff member's role: teacher or principal.")
	addStaffSubject := addStaffCmd.String("subject", "", "The subject taught (teachers only).")

	seedStudentsCmd := flag.NewFlagSet("seedstudents", flag.ExitOnError)
	seedStudentsFile := seedStudentsCmd.String("file", "", "Path to a CSV roster file with id,name,grade_level rows.")

	switch args[1] {
	case "addstaff":
		if err := addStaffCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStaffEmail == "" || *addStaffName == "" || !validRole(*addStaffRole) {
			addStaffCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addStaffCmd.Usage()
			return errHelp
		}
		return cli.addStaff(*addStaffName, *addStaffEmail, *addStaffRole, *addStaffSubject, string(pwd))
	case "seedstudents":
		if err := seedStudentsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedStudentsFile == "" {
			seedStudentsCmd.Usage()
			return errHelp
		}
		return cli.seedStudents(*seedStudentsFile)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		if cli.db == nil {
			return errPostgresOnly
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func validRole(role string) bool {
	for _, r := range staff.AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
