package main

import (
	stdlog "log"
	"os"

	echoapi "github.com/taufwerk/baptizo/apps/api/echo"
	"github.com/taufwerk/baptizo/churchtools"
	"github.com/taufwerk/baptizo/core"
	"github.com/taufwerk/baptizo/core/event"
	"github.com/taufwerk/baptizo/core/person"
	"github.com/taufwerk/baptizo/core/reminder"
	emailsvc "github.com/taufwerk/baptizo/services/email"
	logsvc "github.com/taufwerk/baptizo/services/logger"
	"github.com/taufwerk/baptizo/storage/database"
	"github.com/taufwerk/baptizo/storage/inmem"
)

func main() {
	std := stdlog.New(os.Stdout, core.Conf.AppName+" ", stdlog.LstdFlags|stdlog.Lshortfile)

	var logger core.Logger
	if core.Conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	} else {
		logger = logsvc.NewStdLogger(std)
	}

	// run log: database when configured, in-memory otherwise
	var (
		runRecorder person.RunRecorder
		runLister   echoapi.RunLister
	)
	if core.Conf.Database.Enabled() {
		db, err := database.Open(core.Conf)
		errAndDie(std, err)
		defer db.Close()

		repo, err := database.NewRunRepository(db)
		errAndDie(std, err)
		runRecorder, runLister = repo, repo
	} else {
		repo := inmem.NewRunRepository()
		runRecorder, runLister = repo, repo
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	ct := churchtools.NewClient(core.Conf, logger)
	personSvc := person.NewService(ct, ct, logger, runRecorder)
	eventSvc := event.NewService(ct, ct, logger)
	reminderSvc := reminder.NewService(ct, personSvc, eventSvc, mailSvc, logger)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:     core.Conf.Server.Addr,
			PersonSvc:   personSvc,
			EventSvc:    eventSvc,
			ReminderSvc: reminderSvc,
			Settings:    ct,
			Runs:        runLister,
			Logger:      logger,
		},
	)
	app.Start()
}

func errAndDie(std *stdlog.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
