package event

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/taufwerk/baptizo/core"
)

var (
	ErrCalendarNotFound = errors.New("calendar not found")
	ErrInvalidEventID   = errors.New("invalid event id")

	nowFunc = time.Now // mockable

	leaderRegex = regexp.MustCompile(`(?i)Leitung:\s*(.*)`)
)

// calendarName is matched case-insensitively when no calendar id is configured.
const calendarName = "taufmanager"

const defaultStartTime = "10:00"

// appointmentDuration: events are booked start + 2h.
const appointmentDuration = 2 * time.Hour

type (
	// Calendar is the remote appointment store.
	Calendar interface {
		ListCalendars(ctx context.Context) ([]CalendarInfo, error)
		ListAppointments(ctx context.Context, calendarID int, from, to string) ([]Appointment, error)
		CreateAppointment(ctx context.Context, calendarID int, a AppointmentInput) error
		UpdateAppointment(ctx context.Context, calendarID, appointmentID int, a AppointmentUpdate) error
		DeleteAppointment(ctx context.Context, calendarID, appointmentID int) error
	}

	Service interface {
		// Events lists upcoming and recent appointments mapped to dashboard
		// events. It never fails; fetch errors yield an empty slice.
		Events(ctx context.Context) []Event
		Create(ctx context.Context, ne NewEvent) error
		Update(ctx context.Context, id string, ue UpdateEvent) error
		Delete(ctx context.Context, id string) error
	}

	service struct {
		cal      Calendar
		settings core.SettingsStore
		log      core.Logger

		mu         sync.Mutex
		calendarID int // resolved lazily, then cached
	}
)

var _ Service = (*service)(nil)

func NewService(cal Calendar, settings core.SettingsStore, log core.Logger) Service {
	return &service{cal: cal, settings: settings, log: log}
}

// resolveCalendarID prefers the configured id and falls back to discovering a
// calendar whose name contains "taufmanager".
func (svc *service) resolveCalendarID(ctx context.Context) (int, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.calendarID > 0 {
		return svc.calendarID, nil
	}

	if st, err := svc.settings.GetAdminSettings(ctx); err == nil && st.CalendarID > 0 {
		svc.calendarID = st.CalendarID
		return svc.calendarID, nil
	}

	calendars, err := svc.cal.ListCalendars(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "listing calendars")
	}
	for _, c := range calendars {
		if strings.Contains(strings.ToLower(strings.TrimSpace(c.Name)), calendarName) {
			svc.calendarID = c.ID
			return svc.calendarID, nil
		}
	}
	return 0, ErrCalendarNotFound
}

func (svc *service) Events(ctx context.Context) []Event {
	calID, err := svc.resolveCalendarID(ctx)
	if err != nil {
		svc.log.Warn("resolving calendar", "err", err)
		return []Event{}
	}

	// one year back, two years ahead
	now := nowFunc()
	from := now.AddDate(-1, 0, 0).Format("2006-01-02")
	to := now.AddDate(2, 0, 0).Format("2006-01-02")

	appointments, err := svc.cal.ListAppointments(ctx, calID, from, to)
	if err != nil {
		svc.log.Error("fetching appointments", "calendar", calID, "err", err)
		return []Event{}
	}

	events := make([]Event, 0, len(appointments))
	for _, a := range appointments {
		events = append(events, mapAppointment(a))
	}
	return events
}

func mapAppointment(a Appointment) Event {
	title := a.Base.Caption
	if title == "" {
		title = "Unbenanntes Event"
	}

	typ := TypeBaptism
	if strings.Contains(strings.ToLower(title), "seminar") {
		typ = TypeSeminar
	}

	var leader string
	if m := leaderRegex.FindStringSubmatch(a.Base.Note); m != nil {
		leader = strings.TrimSpace(m[1])
	}

	fullDate := a.Calculated.StartDate
	if fullDate == "" {
		fullDate = a.Base.StartDate
	}
	date := strings.SplitN(fullDate, "T", 2)[0]

	var clock string
	if i := strings.IndexByte(fullDate, 'T'); i >= 0 && len(fullDate) >= i+6 {
		clock = fullDate[i+1 : i+6]
	} else if len(a.Base.StartTime) >= 5 {
		clock = a.Base.StartTime[:5]
	}

	id := a.ID
	if id == 0 {
		id = a.Base.ID
	}

	return Event{
		ID:     fmt.Sprintf("%d_%s", id, date),
		Title:  title,
		Date:   date,
		Time:   clock,
		Type:   typ,
		Leader: leader,
	}
}

func (svc *service) Create(ctx context.Context, ne NewEvent) error {
	calID, err := svc.resolveCalendarID(ctx)
	if err != nil {
		return err
	}

	start, end, err := eventTimes(ne.Date, ne.Time)
	if err != nil {
		return err
	}

	return svc.cal.CreateAppointment(ctx, calID, AppointmentInput{
		Caption:   ne.Title,
		Note:      "Leitung: " + ne.Leader,
		StartDate: start,
		EndDate:   end,
	})
}

func (svc *service) Update(ctx context.Context, id string, ue UpdateEvent) error {
	calID, err := svc.resolveCalendarID(ctx)
	if err != nil {
		return err
	}
	realID, err := realAppointmentID(id)
	if err != nil {
		return err
	}

	upd := AppointmentUpdate{Caption: ue.Title}
	if ue.Leader != "" {
		upd.Note = "Leitung: " + ue.Leader
	}
	if ue.Date != "" {
		start, end, err := eventTimes(ue.Date, ue.Time)
		if err != nil {
			return err
		}
		upd.StartDate = start
		upd.EndDate = end
	}

	return svc.cal.UpdateAppointment(ctx, calID, realID, upd)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	calID, err := svc.resolveCalendarID(ctx)
	if err != nil {
		return err
	}
	realID, err := realAppointmentID(id)
	if err != nil {
		return err
	}
	return svc.cal.DeleteAppointment(ctx, calID, realID)
}

// realAppointmentID strips the occurrence date off a composite event id.
func realAppointmentID(id string) (int, error) {
	raw := strings.SplitN(id, "_", 2)[0]
	realID, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidEventID, "%q", id)
	}
	return realID, nil
}

func eventTimes(date, clock string) (start, end string, err error) {
	if clock == "" {
		clock = defaultStartTime
	}
	startTime, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return "", "", errors.Wrapf(err, "invalid event time %s %s", date, clock)
	}
	startTime = startTime.UTC()
	return startTime.Format(time.RFC3339), startTime.Add(appointmentDuration).Format(time.RFC3339), nil
}
