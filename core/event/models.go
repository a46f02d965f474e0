package event

import (
	"github.com/taufwerk/baptizo/core"
)

// Event types: a calendar appointment is a seminar when its title says so,
// anything else counts as a baptism service.
type Type string

const (
	TypeSeminar Type = "seminar"
	TypeBaptism Type = "baptism"
)

type (
	CalendarInfo struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	// AppointmentData is the editable base of a remote appointment. Series
	// appointments share one base across all occurrences.
	AppointmentData struct {
		ID        int    `json:"id"`
		Caption   string `json:"caption"`
		Note      string `json:"note"`
		StartDate string `json:"startDate"`
		StartTime string `json:"startTime"`
	}

	// OccurrenceData carries the computed occurrence of a (possibly repeating)
	// appointment.
	OccurrenceData struct {
		StartDate string `json:"startDate"`
	}

	Appointment struct {
		ID         int             `json:"id"`
		Base       AppointmentData `json:"base"`
		Calculated OccurrenceData  `json:"calculated"`
	}

	AppointmentInput struct {
		Caption   string `json:"caption"`
		Note      string `json:"note"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		Address   string `json:"address"`
	}

	// AppointmentUpdate is a partial update; empty fields are left untouched.
	AppointmentUpdate struct {
		Caption   string `json:"caption,omitempty"`
		Note      string `json:"note,omitempty"`
		StartDate string `json:"startDate,omitempty"`
		EndDate   string `json:"endDate,omitempty"`
	}

	// Event is the dashboard's view of an appointment occurrence. ID is a
	// composite "{appointmentID}_{date}" since series occurrences share the
	// remote id.
	Event struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Date   string `json:"date"` // YYYY-MM-DD
		Time   string `json:"time,omitempty"`
		Type   Type   `json:"type"`
		Leader string `json:"leader,omitempty"`
	}

	NewEvent struct {
		Title  string `json:"title" validate:"required"`
		Date   string `json:"date" validate:"required,isodate"`
		Time   string `json:"time" validate:"omitempty,len=5"`
		Leader string `json:"leader"`
	}

	// UpdateEvent is a partial update; empty fields are left untouched.
	UpdateEvent struct {
		Title  string `json:"title"`
		Date   string `json:"date" validate:"omitempty,isodate"`
		Time   string `json:"time" validate:"omitempty,len=5"`
		Leader string `json:"leader"`
	}
)

func (ne *NewEvent) Validate() error {
	ne.Title = core.CleanString(ne.Title)
	return core.Validate.Struct(ne)
}

func (ue *UpdateEvent) Validate() error {
	ue.Title = core.CleanString(ue.Title)
	return core.Validate.Struct(ue)
}
