package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

func (cli *commandLine) remind(date string) error {
	now := time.Now()
	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return errors.Wrapf(err, "invalid date %q", date)
		}
		now = parsed
	}

	for _, line := range cli.reminderSvc.CheckAndSend(context.Background(), now) {
		fmt.Fprintln(cli.out, line)
	}
	return nil
}
