package churchtools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/taufwerk/baptizo/core/event"
)

var _ event.Calendar = (*Client)(nil)

func (c *Client) ListCalendars(ctx context.Context) ([]event.CalendarInfo, error) {
	var calendars []event.CalendarInfo
	if _, err := c.get(ctx, "/calendars", nil, &calendars); err != nil {
		return nil, err
	}
	return calendars, nil
}

func (c *Client) ListAppointments(ctx context.Context, calendarID int, from, to string) ([]event.Appointment, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)

	var appointments []event.Appointment
	if _, err := c.get(ctx, fmt.Sprintf("/calendars/%d/appointments", calendarID), q, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (c *Client) CreateAppointment(ctx context.Context, calendarID int, a event.AppointmentInput) error {
	return c.send(ctx, http.MethodPost, fmt.Sprintf("/calendars/%d/appointments", calendarID), a)
}

// UpdateAppointment PUTs the partial update. The API rejects updates without
// an explicit isInternal flag, so the payload is built as a map.
func (c *Client) UpdateAppointment(ctx context.Context, calendarID, appointmentID int, a event.AppointmentUpdate) error {
	payload := map[string]interface{}{"isInternal": false}
	if a.Caption != "" {
		payload["caption"] = a.Caption
	}
	if a.Note != "" {
		payload["note"] = a.Note
	}
	if a.StartDate != "" {
		payload["startDate"] = a.StartDate
	}
	if a.EndDate != "" {
		payload["endDate"] = a.EndDate
	}
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/calendars/%d/appointments/%d", calendarID, appointmentID), payload)
}

func (c *Client) DeleteAppointment(ctx context.Context, calendarID, appointmentID int) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/calendars/%d/appointments/%d", calendarID, appointmentID), nil)
}
