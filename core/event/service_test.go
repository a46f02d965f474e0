package event

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/taufwerk/baptizo/core"
	logsvc "github.com/taufwerk/baptizo/services/logger"
)

type calendarMock struct {
	calendars    []CalendarInfo
	appointments []Appointment

	listErr error

	created   []AppointmentInput
	updated   map[int]AppointmentUpdate
	deleted   []int
	createdIn int
}

var _ Calendar = (*calendarMock)(nil)

func (c *calendarMock) ListCalendars(context.Context) ([]CalendarInfo, error) {
	return c.calendars, nil
}

func (c *calendarMock) ListAppointments(_ context.Context, _ int, _, _ string) ([]Appointment, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return c.appointments, nil
}

func (c *calendarMock) CreateAppointment(_ context.Context, calendarID int, a AppointmentInput) error {
	c.createdIn = calendarID
	c.created = append(c.created, a)
	return nil
}

func (c *calendarMock) UpdateAppointment(_ context.Context, _ int, id int, a AppointmentUpdate) error {
	if c.updated == nil {
		c.updated = make(map[int]AppointmentUpdate)
	}
	c.updated[id] = a
	return nil
}

func (c *calendarMock) DeleteAppointment(_ context.Context, _ int, id int) error {
	c.deleted = append(c.deleted, id)
	return nil
}

type settingsMock struct {
	admin core.AdminSettings
}

func (s *settingsMock) GetAdminSettings(context.Context) (core.AdminSettings, error) {
	return s.admin, nil
}
func (s *settingsMock) SaveAdminSettings(context.Context, core.AdminSettings) error { return nil }
func (s *settingsMock) GetAppSettings(context.Context) (core.AppSettings, error) {
	return core.AppSettings{}, nil
}
func (s *settingsMock) SaveAppSettings(context.Context, core.AppSettings) error { return nil }

func newTestService(cal Calendar, st core.SettingsStore) Service {
	return NewService(cal, st, logsvc.NewNopLogger())
}

func TestMapAppointment(t *testing.T) {
	tests := []struct {
		name string
		appt Appointment
		want Event
	}{
		{
			name: "seminar with leader note",
			appt: Appointment{
				ID:         31,
				Base:       AppointmentData{Caption: "Taufseminar Teil 1", Note: "Leitung: Maria Schmidt"},
				Calculated: OccurrenceData{StartDate: "2025-05-31T10:00:00Z"},
			},
			want: Event{ID: "31_2025-05-31", Title: "Taufseminar Teil 1", Date: "2025-05-31", Time: "10:00", Type: TypeSeminar, Leader: "Maria Schmidt"},
		},
		{
			name: "baptism falls back to base start date",
			appt: Appointment{
				Base: AppointmentData{ID: 7, Caption: "Taufe im See", StartDate: "2025-08-02T14:30:00Z"},
			},
			want: Event{ID: "7_2025-08-02", Title: "Taufe im See", Date: "2025-08-02", Time: "14:30", Type: TypeBaptism},
		},
		{
			name: "start time from base when date has no clock",
			appt: Appointment{
				ID:   9,
				Base: AppointmentData{Caption: "Taufe", StartDate: "2025-09-01", StartTime: "11:15:00"},
			},
			want: Event{ID: "9_2025-09-01", Title: "Taufe", Date: "2025-09-01", Time: "11:15", Type: TypeBaptism},
		},
		{
			name: "untitled appointment",
			appt: Appointment{ID: 4, Calculated: OccurrenceData{StartDate: "2025-01-01T09:00:00Z"}},
			want: Event{ID: "4_2025-01-01", Title: "Unbenanntes Event", Date: "2025-01-01", Time: "09:00", Type: TypeBaptism},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapAppointment(tt.appt); got != tt.want {
				t.Errorf("mapAppointment() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEvents_calendarDiscovery(t *testing.T) {
	cal := &calendarMock{
		calendars: []CalendarInfo{
			{ID: 1, Name: "Gottesdienste"},
			{ID: 5, Name: " Taufmanager "},
		},
		appointments: []Appointment{
			{ID: 31, Base: AppointmentData{Caption: "Taufseminar"}, Calculated: OccurrenceData{StartDate: "2025-05-31T10:00:00Z"}},
		},
	}
	svc := newTestService(cal, &settingsMock{}) // no calendar id configured

	events := svc.Events(context.Background())
	if len(events) != 1 {
		t.Fatalf("Events() = %d entries, want 1", len(events))
	}
	if events[0].Type != TypeSeminar {
		t.Errorf("type = %q, want seminar", events[0].Type)
	}
}

func TestEvents_fetchFailureYieldsEmpty(t *testing.T) {
	cal := &calendarMock{listErr: errors.New("api down")}
	svc := newTestService(cal, &settingsMock{admin: core.AdminSettings{CalendarID: 5}})

	if events := svc.Events(context.Background()); len(events) != 0 {
		t.Errorf("Events() = %d entries, want none", len(events))
	}
}

func TestCreate(t *testing.T) {
	cal := &calendarMock{}
	svc := newTestService(cal, &settingsMock{admin: core.AdminSettings{CalendarID: 5}})

	err := svc.Create(context.Background(), NewEvent{Title: "Taufe im See", Date: "2025-08-02", Time: "14:00", Leader: "Jonas"})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if cal.createdIn != 5 {
		t.Errorf("calendar = %d, want 5", cal.createdIn)
	}
	if len(cal.created) != 1 {
		t.Fatalf("created = %d appointments, want 1", len(cal.created))
	}
	a := cal.created[0]
	if a.Caption != "Taufe im See" || a.Note != "Leitung: Jonas" {
		t.Errorf("payload = %+v", a)
	}
	start, _ := time.Parse(time.RFC3339, a.StartDate)
	end, _ := time.Parse(time.RFC3339, a.EndDate)
	if end.Sub(start) != 2*time.Hour {
		t.Errorf("duration = %v, want 2h", end.Sub(start))
	}
}

func TestUpdate_compositeID(t *testing.T) {
	cal := &calendarMock{}
	svc := newTestService(cal, &settingsMock{admin: core.AdminSettings{CalendarID: 5}})

	if err := svc.Update(context.Background(), "31_2025-05-31", UpdateEvent{Title: "Taufseminar Teil 2"}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if _, ok := cal.updated[31]; !ok {
		t.Errorf("updated ids = %v, want [31]", cal.updated)
	}

	if err := svc.Update(context.Background(), "lol", UpdateEvent{}); err == nil {
		t.Error("invalid composite id should fail")
	}
}

func TestDelete(t *testing.T) {
	cal := &calendarMock{}
	svc := newTestService(cal, &settingsMock{admin: core.AdminSettings{CalendarID: 5}})

	if err := svc.Delete(context.Background(), "31_2025-05-31"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if len(cal.deleted) != 1 || cal.deleted[0] != 31 {
		t.Errorf("deleted = %v, want [31]", cal.deleted)
	}
}
