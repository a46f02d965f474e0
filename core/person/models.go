package person

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Membership status of a person within a pipeline group.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusRemoved  Status = "removed"
)

// ChurchTools group-member status ids: 1 = active, 3 = inactive/passive.
const (
	memberStatusActiveID   = 1
	memberStatusInactiveID = 3
)

// leaderRoleID marks group leaders in the membership listing; only
// participant-role members belong to the pipeline.
const leaderRoleID = 1

type (
	// Fields are the milestone custom fields on a ChurchTools person record.
	// Each is a YYYY-MM-DD date string when set; the fields are the source of
	// truth the group memberships are reconciled against.
	Fields struct {
		SeminarAttendedAt   null.String `json:"seminarAttendedAt"`
		BaptizedAt          null.String `json:"baptizedAt"`
		CertificateIssuedAt null.String `json:"certificateIssuedAt"`
		IntegratedAt        null.String `json:"integratedAt"`
		StatusFlag          null.String `json:"statusFlag"`
		OnboardingAt        null.String `json:"onboardingAt"`
		OffboardingAt       null.String `json:"offboardingAt"`
	}

	// FieldsPatch is a partial milestone-field update. A nil entry leaves the
	// remote value untouched; a non-nil invalid null.String clears it.
	FieldsPatch struct {
		SeminarAttendedAt   *null.String `json:"seminarAttendedAt"`
		BaptizedAt          *null.String `json:"baptizedAt"`
		CertificateIssuedAt *null.String `json:"certificateIssuedAt"`
		IntegratedAt        *null.String `json:"integratedAt"`
		OnboardingAt        *null.String `json:"onboardingAt"`
		OffboardingAt       *null.String `json:"offboardingAt"`
	}

	Person struct {
		ID        int    `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email,omitempty"`
		Mobile    string `json:"mobile,omitempty"`
		Phone     string `json:"phone,omitempty"`
		ImageURL  string `json:"imageUrl,omitempty"`
		Status    Status `json:"status"`
		EntryDate string `json:"entryDate,omitempty"`
		Fields    Fields `json:"fields"`
	}

	// Group is a point-in-time, fully-hydrated snapshot of a pipeline group.
	Group struct {
		ID      int      `json:"id"`
		Title   string   `json:"title"`
		Members []Person `json:"members"`
	}

	// Member is one raw entry of a group-membership listing. The person object
	// it carries is a summary only; custom fields require a full person fetch.
	Member struct {
		PersonID  int
		RoleID    int
		Status    string // remote groupMemberStatus; "inactive" or anything else
		Comment   string // legacy free-text; may hold the pipeline entry date
		StartDate string // system-recorded membership start
	}

	// Summary reports the successful mutations of one reconciliation run.
	// Failed counts units (persons, pages) that errored and were skipped, so
	// partial failure is visible without reading logs.
	Summary struct {
		AddedToInterest     int `json:"addedToInterest"`
		AddedToBaptized     int `json:"addedToBaptized"`
		RemovedFromInterest int `json:"removedFromInterest"`
		Failed              int `json:"failed"`
	}

	// MigrationStats reports an onboarding-date backfill run.
	MigrationStats struct {
		Updated int `json:"updated"`
		Skipped int `json:"skipped"`
		Errors  int `json:"errors"`
	}

	// RunRecord is one persisted reconciliation or migration run.
	RunRecord struct {
		ID                  int64     `db:"id" json:"id"`
		Kind                string    `db:"kind" json:"kind"` // "sync" | "migration"
		Source              string    `db:"source" json:"source"`
		StartedAt           time.Time `db:"started_at" json:"startedAt"`
		FinishedAt          time.Time `db:"finished_at" json:"finishedAt"`
		AddedToInterest     int       `db:"added_to_interest" json:"addedToInterest"`
		AddedToBaptized     int       `db:"added_to_baptized" json:"addedToBaptized"`
		RemovedFromInterest int       `db:"removed_from_interest" json:"removedFromInterest"`
		Failed              int       `db:"failed" json:"failed"`
	}
)

func (s Summary) Zero() bool {
	return s == Summary{}
}

// Name returns "First Last" for display and search ranking.
func (p Person) Name() string {
	return p.FirstName + " " + p.LastName
}
