package reminder

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/taufwerk/baptizo/core"
	"github.com/taufwerk/baptizo/core/event"
	"github.com/taufwerk/baptizo/core/person"
)

type (
	// GroupLoader yields the current pipeline group snapshots; satisfied by
	// person.Service.
	GroupLoader interface {
		Groups(ctx context.Context) []person.Group
	}

	// EventLister yields the calendar events; satisfied by event.Service.
	EventLister interface {
		Events(ctx context.Context) []event.Event
	}

	// Service evaluates the configured reminder templates against the calendar
	// and sends the ones due. Emails only go to members whose status is active.
	Service interface {
		// CheckAndSend runs one daily reminder pass and returns a human-readable
		// decision log for the admin surface.
		CheckAndSend(ctx context.Context, now time.Time) []string
	}

	service struct {
		settings core.SettingsStore
		groups   GroupLoader
		events   EventLister
		mailSvc  core.EmailService
		log      core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(settings core.SettingsStore, groups GroupLoader, events EventLister, mailSvc core.EmailService, log core.Logger) Service {
	return &service{
		settings: settings,
		groups:   groups,
		events:   events,
		mailSvc:  mailSvc,
		log:      log,
	}
}

func (svc *service) CheckAndSend(ctx context.Context, now time.Time) []string {
	logs := []string{}

	app, err := svc.settings.GetAppSettings(ctx)
	if err != nil {
		svc.log.Warn("loading app settings", "err", err)
		return append(logs, "failed to load app settings")
	}
	if !app.EmailSendingEnabled {
		return append(logs, "email sending is disabled")
	}

	today := truncateDay(now)
	logs = append(logs, fmt.Sprintf("checking reminders for %s", today.Format("2006-01-02")))

	events := svc.events.Events(ctx)
	groups := svc.groups.Groups(ctx)

	for _, tmpl := range app.EmailTemplates {
		if tmpl.Subject == "" || tmpl.Body == "" {
			continue
		}
		for _, evt := range relevantEvents(tmpl, events) {
			trigger, ok := triggerDate(evt.Date, tmpl)
			if !ok || !trigger.Equal(today) {
				continue
			}
			logs = append(logs, fmt.Sprintf("template %q is due for event %q (%s)", tmpl.Name, evt.Title, evt.Date))

			recipients := svc.recipients(tmpl, evt, groups)
			if len(recipients) == 0 {
				logs = append(logs, "  -> no recipients found")
				continue
			}
			for _, p := range recipients {
				if p.Status != person.StatusActive {
					logs = append(logs, fmt.Sprintf("  -> skipped: %s (status not active)", p.Name()))
					continue
				}
				if p.Email == "" {
					logs = append(logs, fmt.Sprintf("  -> skipped: %s (no email address)", p.Name()))
					continue
				}
				svc.send(p, tmpl, evt)
				logs = append(logs, fmt.Sprintf("  -> sent: %s (%s)", p.Name(), p.Email))
			}
		}
	}
	return logs
}

// relevantEvents matches events to a template category by title, the same
// heuristic the event mapping uses.
func relevantEvents(tmpl core.EmailTemplate, events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, evt := range events {
		title := strings.ToLower(evt.Title)
		switch tmpl.Category {
		case core.TemplateCategorySeminar:
			if strings.Contains(title, "seminar") {
				out = append(out, evt)
			}
		case core.TemplateCategoryBaptism:
			if strings.Contains(title, "taufe") && !strings.Contains(title, "seminar") {
				out = append(out, evt)
			}
		}
	}
	return out
}

func triggerDate(eventDate string, tmpl core.EmailTemplate) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", eventDate)
	if err != nil {
		return time.Time{}, false
	}
	if tmpl.OffsetType == core.OffsetBefore {
		return date.AddDate(0, 0, -tmpl.DaysOffset), true
	}
	return date.AddDate(0, 0, tmpl.DaysOffset), true
}

// recipients picks the template's audience: the event leader, or the group
// whose members the event concerns. Candidates still awaiting baptism live in
// the interest group, so only post-baptism reminders address the baptized
// group.
func (svc *service) recipients(tmpl core.EmailTemplate, evt event.Event, groups []person.Group) []person.Person {
	if tmpl.RecipientType == core.RecipientLeader {
		return leaderRecipients(evt, groups)
	}

	wantTitle := person.InterestGroupTitle
	if tmpl.Category == core.TemplateCategoryBaptism && tmpl.OffsetType == core.OffsetAfter {
		wantTitle = person.BaptizedGroupTitle
	}
	for _, g := range groups {
		if g.Title == wantTitle {
			return g.Members
		}
	}
	return nil
}

// leaderRecipients resolves the leader's name against the group rosters; a
// leader we cannot match has no reachable email address.
func leaderRecipients(evt event.Event, groups []person.Group) []person.Person {
	if evt.Leader == "" {
		return nil
	}
	for _, g := range groups {
		for _, m := range g.Members {
			if strings.EqualFold(m.Name(), evt.Leader) {
				return []person.Person{m}
			}
		}
	}
	return nil
}

func (svc *service) send(p person.Person, tmpl core.EmailTemplate, evt event.Event) {
	r := strings.NewReplacer(
		"{{person.firstName}}", p.FirstName,
		"{{person.lastName}}", p.LastName,
		"{{event.date}}", evt.Date,
		"{{event.title}}", evt.Title,
	)
	msg := &core.EmailMessage{
		To:          []mail.Address{{Name: p.Name(), Address: p.Email}},
		Subject:     r.Replace(tmpl.Subject),
		TextContent: r.Replace(tmpl.Body),
	}
	svc.mailSvc.SendMessages(msg)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
