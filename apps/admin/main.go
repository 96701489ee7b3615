package main

import (
	"log"
	"os"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/storage/database"
	inmemdb "github.com/trezcool/shule/storage/database/inmem"
	pgrepos "github.com/trezcool/shule/storage/database/postgres"
)

var logger *log.Logger // todo: logger service

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	var cli commandLine
	if conf.Database.Engine == "postgres" {
		db, err := database.Open(conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(db.Ping())

		cli = commandLine{
			db:          db,
			staffRepo:   pgrepos.NewStaffRepository(db),
			studentRepo: pgrepos.NewStudentRepository(db),
		}
	} else {
		db, err := inmemdb.Open()
		errAndDie(err)

		cli = commandLine{
			staffRepo:   inmemdb.NewStaffRepository(db),
			studentRepo: inmemdb.NewStudentRepository(db),
		}
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
