package core

import "testing"

func TestAdminSettingsComplete(t *testing.T) {
	tests := []struct {
		name string
		st   AdminSettings
		want bool
	}{
		{name: "both groups set", st: AdminSettings{InterestGroupID: 13, BaptizedGroupID: 16}, want: true},
		{name: "calendar optional", st: AdminSettings{InterestGroupID: 13, BaptizedGroupID: 16, CalendarID: 0}, want: true},
		{name: "missing baptized group", st: AdminSettings{InterestGroupID: 13}, want: false},
		{name: "missing interest group", st: AdminSettings{BaptizedGroupID: 16}, want: false},
		{name: "empty", st: AdminSettings{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.st.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmailTemplateValidate(t *testing.T) {
	valid := EmailTemplate{
		Name:          "Seminar-Einladung",
		Subject:       "Einladung",
		Body:          "Hallo {{person.firstName}}",
		Category:      TemplateCategorySeminar,
		RecipientType: RecipientParticipant,
		DaysOffset:    3,
		OffsetType:    OffsetBefore,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*EmailTemplate)
	}{
		{name: "missing subject", mutate: func(tpl *EmailTemplate) { tpl.Subject = "" }},
		{name: "unknown category", mutate: func(tpl *EmailTemplate) { tpl.Category = "wedding" }},
		{name: "unknown recipient", mutate: func(tpl *EmailTemplate) { tpl.RecipientType = "everyone" }},
		{name: "negative offset", mutate: func(tpl *EmailTemplate) { tpl.DaysOffset = -1 }},
		{name: "unknown offset type", mutate: func(tpl *EmailTemplate) { tpl.OffsetType = "during" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := valid
			tt.mutate(&tpl)
			if err := tpl.Validate(); err == nil {
				t.Error("Validate() expected an error")
			}
		})
	}
}

func TestDefaultAppSettings(t *testing.T) {
	st := DefaultAppSettings()

	if st.EmailSendingEnabled {
		t.Error("email sending must be off by default")
	}
	if len(st.EmailTemplates) != 5 {
		t.Fatalf("expected 5 stock templates; got %d", len(st.EmailTemplates))
	}
	for _, tmpl := range st.EmailTemplates {
		if err := tmpl.Validate(); err != nil {
			t.Errorf("stock template %q invalid: %v", tmpl.ID, err)
		}
	}
}
