package reminder

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/taufwerk/baptizo/core"
	"github.com/taufwerk/baptizo/core/event"
	"github.com/taufwerk/baptizo/core/person"
	logsvc "github.com/taufwerk/baptizo/services/logger"
)

type groupsStub struct {
	groups []person.Group
}

func (s *groupsStub) Groups(context.Context) []person.Group { return s.groups }

type eventsStub struct {
	events []event.Event
}

func (s *eventsStub) Events(context.Context) []event.Event { return s.events }

type emailServiceMock struct {
	mu   sync.Mutex
	Sent []*core.EmailMessage
}

var _ core.EmailService = (*emailServiceMock)(nil)

func (m *emailServiceMock) SendMessages(messages ...*core.EmailMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, messages...)
}

func newTestSettings(enabled bool, templates ...core.EmailTemplate) *person.SettingsStoreMock {
	return &person.SettingsStoreMock{
		App: core.AppSettings{
			EmailSendingEnabled: enabled,
			EmailTemplates:      templates,
		},
	}
}

func seminarTemplate() core.EmailTemplate {
	return core.EmailTemplate{
		ID:            "seminar_invite",
		Name:          "Seminar-Einladung",
		Subject:       "Einladung: {{event.title}}",
		Body:          "Hallo {{person.firstName}}, das Seminar ist am {{event.date}}.",
		Category:      core.TemplateCategorySeminar,
		RecipientType: core.RecipientParticipant,
		DaysOffset:    3,
		OffsetType:    core.OffsetBefore,
	}
}

func interestGroup(members ...person.Person) person.Group {
	return person.Group{ID: 13, Title: person.InterestGroupTitle, Members: members}
}

func baptizedGroup(members ...person.Person) person.Group {
	return person.Group{ID: 16, Title: person.BaptizedGroupTitle, Members: members}
}

func TestCheckAndSend_disabled(t *testing.T) {
	mailSvc := &emailServiceMock{}
	svc := NewService(newTestSettings(false, seminarTemplate()), &groupsStub{}, &eventsStub{}, mailSvc, logsvc.NewNopLogger())

	logs := svc.CheckAndSend(context.Background(), time.Now())
	if len(logs) != 1 || !strings.Contains(logs[0], "disabled") {
		t.Errorf("expected single disabled log line; got %v", logs)
	}
	if len(mailSvc.Sent) != 0 {
		t.Errorf("expected no mail; got %d", len(mailSvc.Sent))
	}
}

func TestCheckAndSend_dueSeminarReminder(t *testing.T) {
	mailSvc := &emailServiceMock{}
	groups := &groupsStub{groups: []person.Group{interestGroup(
		person.Person{ID: 1, FirstName: "Anna", LastName: "Muster", Email: "anna@example.com", Status: person.StatusActive},
		person.Person{ID: 2, FirstName: "Bernd", LastName: "Beispiel", Email: "bernd@example.com", Status: person.StatusInactive},
		person.Person{ID: 3, FirstName: "Clara", LastName: "Ohnemail", Status: person.StatusActive},
	)}}
	events := &eventsStub{events: []event.Event{
		{ID: "7_2025-06-10", Title: "Taufseminar", Date: "2025-06-10", Type: event.TypeSeminar},
		{ID: "8_2025-07-01", Title: "Taufseminar", Date: "2025-07-01", Type: event.TypeSeminar},
	}}
	svc := NewService(newTestSettings(true, seminarTemplate()), groups, events, mailSvc, logsvc.NewNopLogger())

	// three days before the first seminar
	now := time.Date(2025, 6, 7, 9, 30, 0, 0, time.UTC)
	logs := svc.CheckAndSend(context.Background(), now)

	if len(mailSvc.Sent) != 1 {
		t.Fatalf("expected exactly one mail; got %d", len(mailSvc.Sent))
	}
	msg := mailSvc.Sent[0]
	if len(msg.To) != 1 || msg.To[0].Address != "anna@example.com" {
		t.Errorf("unexpected recipient: %+v", msg.To)
	}
	if msg.Subject != "Einladung: Taufseminar" {
		t.Errorf("unexpected subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.TextContent, "Hallo Anna") || !strings.Contains(msg.TextContent, "2025-06-10") {
		t.Errorf("placeholders not rendered: %q", msg.TextContent)
	}

	joined := strings.Join(logs, "\n")
	for _, want := range []string{"skipped: Bernd Beispiel", "skipped: Clara Ohnemail", "sent: Anna Muster"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected log containing %q; got:\n%s", want, joined)
		}
	}
}

func TestCheckAndSend_notDueToday(t *testing.T) {
	mailSvc := &emailServiceMock{}
	groups := &groupsStub{groups: []person.Group{interestGroup(
		person.Person{ID: 1, FirstName: "Anna", Email: "anna@example.com", Status: person.StatusActive},
	)}}
	events := &eventsStub{events: []event.Event{
		{ID: "7_2025-06-10", Title: "Taufseminar", Date: "2025-06-10", Type: event.TypeSeminar},
	}}
	svc := NewService(newTestSettings(true, seminarTemplate()), groups, events, mailSvc, logsvc.NewNopLogger())

	svc.CheckAndSend(context.Background(), time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC))
	if len(mailSvc.Sent) != 0 {
		t.Errorf("expected no mail a day late; got %d", len(mailSvc.Sent))
	}
}

func TestCheckAndSend_postBaptismAddressesBaptizedGroup(t *testing.T) {
	tmpl := core.EmailTemplate{
		ID:            "congrats",
		Name:          "Glückwunsch",
		Subject:       "Herzlichen Glückwunsch",
		Body:          "Liebe/r {{person.firstName}}!",
		Category:      core.TemplateCategoryBaptism,
		RecipientType: core.RecipientParticipant,
		DaysOffset:    5,
		OffsetType:    core.OffsetAfter,
	}
	mailSvc := &emailServiceMock{}
	groups := &groupsStub{groups: []person.Group{
		interestGroup(person.Person{ID: 1, FirstName: "Anna", Email: "anna@example.com", Status: person.StatusActive}),
		baptizedGroup(person.Person{ID: 2, FirstName: "Doro", Email: "doro@example.com", Status: person.StatusActive}),
	}}
	events := &eventsStub{events: []event.Event{
		{ID: "9_2025-06-01", Title: "Taufe am See", Date: "2025-06-01", Type: event.TypeBaptism},
	}}
	svc := NewService(newTestSettings(true, tmpl), groups, events, mailSvc, logsvc.NewNopLogger())

	svc.CheckAndSend(context.Background(), time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC))
	if len(mailSvc.Sent) != 1 {
		t.Fatalf("expected exactly one mail; got %d", len(mailSvc.Sent))
	}
	if got := mailSvc.Sent[0].To[0].Address; got != "doro@example.com" {
		t.Errorf("expected baptized group recipient; got %s", got)
	}
}

func TestCheckAndSend_leaderReminder(t *testing.T) {
	tmpl := core.EmailTemplate{
		ID:            "leader_reminder",
		Name:          "Leiter-Erinnerung",
		Subject:       "Nachbereitung {{event.title}}",
		Body:          "Bitte Taufscheine ausstellen.",
		Category:      core.TemplateCategoryBaptism,
		RecipientType: core.RecipientLeader,
		DaysOffset:    1,
		OffsetType:    core.OffsetAfter,
	}
	mailSvc := &emailServiceMock{}
	groups := &groupsStub{groups: []person.Group{baptizedGroup(
		person.Person{ID: 5, FirstName: "Eva", LastName: "Leiterin", Email: "eva@example.com", Status: person.StatusActive},
	)}}
	events := &eventsStub{events: []event.Event{
		{ID: "9_2025-06-01", Title: "Taufe", Date: "2025-06-01", Type: event.TypeBaptism, Leader: "Eva Leiterin"},
		{ID: "10_2025-06-01", Title: "Taufe ohne Leitung", Date: "2025-06-01", Type: event.TypeBaptism},
	}}
	svc := NewService(newTestSettings(true, tmpl), groups, events, mailSvc, logsvc.NewNopLogger())

	logs := svc.CheckAndSend(context.Background(), time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC))
	if len(mailSvc.Sent) != 1 {
		t.Fatalf("expected one leader mail; got %d", len(mailSvc.Sent))
	}
	if got := mailSvc.Sent[0].To[0].Address; got != "eva@example.com" {
		t.Errorf("unexpected leader recipient: %s", got)
	}
	if !strings.Contains(strings.Join(logs, "\n"), "no recipients") {
		t.Errorf("expected a no-recipients line for the leaderless event; got %v", logs)
	}
}

func TestCheckAndSend_emptyTemplateSkipped(t *testing.T) {
	tmpl := seminarTemplate()
	tmpl.Body = ""
	mailSvc := &emailServiceMock{}
	groups := &groupsStub{groups: []person.Group{interestGroup(
		person.Person{ID: 1, FirstName: "Anna", Email: "anna@example.com", Status: person.StatusActive},
	)}}
	events := &eventsStub{events: []event.Event{
		{ID: "7_2025-06-10", Title: "Taufseminar", Date: "2025-06-10", Type: event.TypeSeminar},
	}}
	svc := NewService(newTestSettings(true, tmpl), groups, events, mailSvc, logsvc.NewNopLogger())

	svc.CheckAndSend(context.Background(), time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC))
	if len(mailSvc.Sent) != 0 {
		t.Errorf("expected incomplete template to be skipped; got %d mails", len(mailSvc.Sent))
	}
}
