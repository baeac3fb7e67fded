package main

import (
	"context"
	"log"
	"os"

	"github.com/aimelive/mcsa-awards/core"
	mongodb "github.com/aimelive/mcsa-awards/storage/database/mongo"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	ctx := context.Background()
	db, err := mongodb.Open(ctx, core.Conf)
	errAndDie(err)
	defer func() { errAndDie(db.Client().Disconnect(context.Background())) }()
	errAndDie(mongodb.EnsureIndexes(ctx, db))

	// start CLI
	cli := commandLine{
		usrRepo:    mongodb.NewUserRepository(db),
		profRepo:   mongodb.NewProfileRepository(db),
		seasonRepo: mongodb.NewSeasonRepository(db),
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
