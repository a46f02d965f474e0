package core

import "context"

// Template categories & recipients
const (
	TemplateCategorySeminar = "seminar"
	TemplateCategoryBaptism = "baptism"

	RecipientLeader      = "leader"
	RecipientParticipant = "participant"

	OffsetBefore = "before"
	OffsetAfter  = "after"
)

type (
	// AdminSettings holds the ChurchTools entity ids the whole pipeline is keyed on.
	// Incomplete settings disable the sync and leave the dashboard empty.
	AdminSettings struct {
		InterestGroupID int `json:"interestGroupId" validate:"required,gt=0"`
		BaptizedGroupID int `json:"baptizedGroupId" validate:"required,gt=0"`
		CalendarID      int `json:"calendarId" validate:"omitempty,gt=0"`
	}

	EmailTemplate struct {
		ID            string `json:"id"`
		Name          string `json:"name" validate:"required"`
		Subject       string `json:"subject" validate:"required"`
		Body          string `json:"body" validate:"required"`
		Category      string `json:"category" validate:"required,oneof=seminar baptism"`
		RecipientType string `json:"recipientType" validate:"required,oneof=leader participant"`
		DaysOffset    int    `json:"daysOffset" validate:"gte=0"`
		OffsetType    string `json:"offsetType" validate:"required,oneof=before after"`
	}

	Campus struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	CustomFieldLabel struct {
		Key   string `json:"key"`
		Label string `json:"label"`
	}

	AppSettings struct {
		EmailSendingEnabled bool               `json:"emailSendingEnabled"`
		MultiSiteMode       bool               `json:"multiSiteMode"`
		RegistrationFormURL string             `json:"registrationFormUrl"`
		Campuses            []Campus           `json:"campuses"`
		EmailTemplates      []EmailTemplate    `json:"emailTemplates"`
		CustomFieldLabels   []CustomFieldLabel `json:"customFieldLabels"`
	}

	// SettingsStore persists admin-configured ids and app settings.
	SettingsStore interface {
		GetAdminSettings(ctx context.Context) (AdminSettings, error)
		SaveAdminSettings(ctx context.Context, s AdminSettings) error
		GetAppSettings(ctx context.Context) (AppSettings, error)
		SaveAppSettings(ctx context.Context, s AppSettings) error
	}
)

// Complete reports whether both target groups are configured; without them the
// reconciliation engine performs no work.
func (s AdminSettings) Complete() bool {
	return s.InterestGroupID > 0 && s.BaptizedGroupID > 0
}

func (s AdminSettings) Validate() error {
	return Validate.Struct(s)
}

func (t EmailTemplate) Validate() error {
	return Validate.Struct(t)
}

// DefaultAppSettings returns the stock reminder templates and field labels.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		EmailTemplates: []EmailTemplate{
			{
				ID:            "seminar_invite",
				Name:          "Seminar-Einladung",
				Subject:       "Einladung zu deinem Taufseminar 🌊",
				Body:          "Hallo {{person.firstName}}, wir freuen uns riesig, dass du dich für das Thema Taufe interessierst! In 3 Tagen startet unser Taufseminar. Komm vorbei und entdecke, was dieser Schritt für dein Leben bedeuten kann.",
				Category:      TemplateCategorySeminar,
				RecipientType: RecipientParticipant,
				DaysOffset:    3,
				OffsetType:    OffsetBefore,
			},
			{
				ID:            "baptism_info",
				Name:          "Tauf-Info",
				Subject:       "Bald ist dein großer Tag! Infos zur Taufe",
				Body:          "Hallo {{person.firstName}}, bald ist es soweit! Hier sind die letzten Infos für deine Taufe am {{event.date}}: Bitte bringe dunkle Badekleidung und ein Handtuch mit. Wir freuen uns auf dich!",
				Category:      TemplateCategoryBaptism,
				RecipientType: RecipientParticipant,
				DaysOffset:    5,
				OffsetType:    OffsetBefore,
			},
			{
				ID:            "congrats",
				Name:          "Glückwunsch",
				Subject:       "Willkommen in der Familie! 🎉",
				Body:          "Herzlichen Glückwunsch zu deiner Taufe, {{person.firstName}}! Es war ein gewaltiger Moment. Wir wollen dich ermutigen, jetzt dranzubleiben.",
				Category:      TemplateCategoryBaptism,
				RecipientType: RecipientParticipant,
				DaysOffset:    5,
				OffsetType:    OffsetAfter,
			},
			{
				ID:            "follow_up",
				Name:          "Follow-Up",
				Subject:       "Wie geht es dir nach der Taufe?",
				Body:          "Hallo {{person.firstName}}, deine Taufe ist nun einen Monat her. Wir wollten hören, wie es dir geht? Hast du schon eine Kleingruppe gefunden?",
				Category:      TemplateCategoryBaptism,
				RecipientType: RecipientParticipant,
				DaysOffset:    30,
				OffsetType:    OffsetAfter,
			},
			{
				ID:            "leader_reminder",
				Name:          "Leader-Reminder",
				Subject:       "Reminder: Bitte Taufmanager pflegen",
				Body:          "Hallo {{person.firstName}}, das Event \"{{event.title}}\" ist vorbei. Bitte logge dich jetzt in den Taufmanager ein und hake ab, wer anwesend war bzw. getauft wurde.",
				Category:      TemplateCategoryBaptism,
				RecipientType: RecipientLeader,
				DaysOffset:    1,
				OffsetType:    OffsetAfter,
			},
		},
		CustomFieldLabels: []CustomFieldLabel{
			{Key: "seminarAttendedAt", Label: "Seminar besucht"},
			{Key: "baptizedAt", Label: "Getauft am"},
			{Key: "certificateIssuedAt", Label: "Urkunde überreicht"},
			{Key: "integratedAt", Label: "Integriert"},
		},
	}
}
