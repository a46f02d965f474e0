package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/taufwerk/baptizo/core/person"
	"github.com/taufwerk/baptizo/core/reminder"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	personSvc   person.Service
	reminderSvc reminder.Service
	out         io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  sync                         - reconcile group memberships with the milestone fields")
	fmt.Println("  migrate-onboarding           - backfill missing onboarding dates from seminar dates")
	fmt.Println("  remind [-date YYYY-MM-DD]    - evaluate reminder templates and send the ones due")
	fmt.Println("  set-token [-url URL]         - store the ChurchTools API token (prompted next)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	syncCmd := flag.NewFlagSet("sync", flag.ExitOnError)
	migrateCmd := flag.NewFlagSet("migrate-onboarding", flag.ExitOnError)
	remindCmd := flag.NewFlagSet("remind", flag.ExitOnError)
	remindDate := remindCmd.String("date", "", "Run the check as if today were this YYYY-MM-DD date.")
	setTokenCmd := flag.NewFlagSet("set-token", flag.ExitOnError)
	setTokenURL := setTokenCmd.String("url", "", "The ChurchTools base URL, e.g. https://gemeinde.church.tools.")

	switch args[1] {
	case "sync":
		if err := syncCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.sync()
	case "migrate-onboarding":
		if err := migrateCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.migrateOnboarding()
	case "remind":
		if err := remindCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.remind(*remindDate)
	case "set-token":
		if err := setTokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		fmt.Print("Enter API token:")
		token, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(token) == 0 {
			setTokenCmd.Usage()
			return errHelp
		}
		return cli.setToken(*setTokenURL, string(token))
	default:
		cli.printUsage()
		return errHelp
	}
}
