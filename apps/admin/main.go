package main

import (
	"log"
	"os"

	"github.com/taufwerk/baptizo/churchtools"
	"github.com/taufwerk/baptizo/core"
	"github.com/taufwerk/baptizo/core/event"
	"github.com/taufwerk/baptizo/core/person"
	"github.com/taufwerk/baptizo/core/reminder"
	emailsvc "github.com/taufwerk/baptizo/services/email"
	logsvc "github.com/taufwerk/baptizo/services/logger"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	svcLogger := logsvc.NewStdLogger(logger)
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(svcLogger)
	}

	ct := churchtools.NewClient(core.Conf, svcLogger)
	personSvc := person.NewService(ct, ct, svcLogger, nil)
	eventSvc := event.NewService(ct, ct, svcLogger)
	reminderSvc := reminder.NewService(ct, personSvc, eventSvc, mailSvc, svcLogger)

	// start CLI
	cli := commandLine{
		personSvc:   personSvc,
		reminderSvc: reminderSvc,
		out:         os.Stdout,
	}
	err := cli.run(os.Args)
	emailsvc.Wait() // reminder sends are async; do not exit mid-send
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
