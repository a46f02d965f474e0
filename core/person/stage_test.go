package person

import (
	"testing"

	"github.com/volatiletech/null/v8"
)

func date(s string) null.String { return null.StringFrom(s) }

func TestDeriveStage(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		want   Stage
	}{
		{name: "no fields", want: StageUnknown},
		{name: "explicit nulls", fields: Fields{BaptizedAt: null.String{}}, want: StageUnknown},
		{name: "empty string is not a milestone", fields: Fields{BaptizedAt: null.StringFrom("")}, want: StageUnknown},
		{name: "seminar only", fields: Fields{SeminarAttendedAt: date("2025-02-01")}, want: StageInPipeline},
		{name: "certificate only", fields: Fields{CertificateIssuedAt: date("2025-02-01")}, want: StageInPipeline},
		{name: "integration only", fields: Fields{IntegratedAt: date("2025-02-01")}, want: StageInPipeline},
		{name: "status flag only", fields: Fields{StatusFlag: date("lead")}, want: StageInPipeline},
		{name: "baptized", fields: Fields{BaptizedAt: date("2025-01-01")}, want: StageBaptized},
		{
			name:   "baptism wins over other milestones",
			fields: Fields{SeminarAttendedAt: date("2024-12-01"), BaptizedAt: date("2025-01-01")},
			want:   StageBaptized,
		},
		{
			name:   "offboarding wins over everything",
			fields: Fields{BaptizedAt: date("2025-01-01"), OffboardingAt: date("2025-03-01")},
			want:   StageOffboarded,
		},
		{name: "onboarding alone is no milestone", fields: Fields{OnboardingAt: date("2025-01-01")}, want: StageUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStage(tt.fields); got != tt.want {
				t.Errorf("DeriveStage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanMutations(t *testing.T) {
	tests := []struct {
		name                   string
		stage                  Stage
		inInterest, inBaptized bool
		want                   Plan
	}{
		{name: "unknown stays put", stage: StageUnknown, want: Plan{}},
		{name: "unknown in interest stays put", stage: StageUnknown, inInterest: true, want: Plan{}},
		{name: "offboarded never moves", stage: StageOffboarded, inInterest: true, want: Plan{}},
		{name: "new candidate joins interest", stage: StageInPipeline, want: Plan{AddInterest: true}},
		{name: "candidate already in interest", stage: StageInPipeline, inInterest: true, want: Plan{}},
		{name: "candidate already in baptized", stage: StageInPipeline, inBaptized: true, want: Plan{}},
		{name: "baptized joins baptized group", stage: StageBaptized, want: Plan{AddBaptized: true}},
		{
			name:       "baptized leaves interest",
			stage:      StageBaptized,
			inInterest: true,
			want:       Plan{AddBaptized: true, RemoveInterest: true},
		},
		{name: "baptized already placed", stage: StageBaptized, inBaptized: true, want: Plan{}},
		{
			name:       "baptized in both groups",
			stage:      StageBaptized,
			inInterest: true,
			inBaptized: true,
			want:       Plan{RemoveInterest: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlanMutations(tt.stage, tt.inInterest, tt.inBaptized); got != tt.want {
				t.Errorf("PlanMutations() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
