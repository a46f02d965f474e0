package main

import (
	"context"
	"fmt"
)

const syncSourceCLI = "cli"

func (cli *commandLine) sync() error {
	summary := cli.personSvc.RunSync(context.Background(), syncSourceCLI)

	fmt.Fprintf(cli.out, "added to interest group:     %d\n", summary.AddedToInterest)
	fmt.Fprintf(cli.out, "added to baptized group:     %d\n", summary.AddedToBaptized)
	fmt.Fprintf(cli.out, "removed from interest group: %d\n", summary.RemovedFromInterest)
	fmt.Fprintf(cli.out, "failed:                      %d\n", summary.Failed)

	if summary.Failed > 0 {
		return fmt.Errorf("sync finished with %d failures", summary.Failed)
	}
	return nil
}

func (cli *commandLine) migrateOnboarding() error {
	stats := cli.personSvc.MigrateOnboardingDates(context.Background(), syncSourceCLI)

	fmt.Fprintf(cli.out, "updated: %d\n", stats.Updated)
	fmt.Fprintf(cli.out, "skipped: %d\n", stats.Skipped)
	fmt.Fprintf(cli.out, "errors:  %d\n", stats.Errors)

	if stats.Errors > 0 {
		return fmt.Errorf("migration finished with %d errors", stats.Errors)
	}
	return nil
}
