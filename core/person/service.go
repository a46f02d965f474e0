package person

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/volatiletech/null/v8"

	"github.com/taufwerk/baptizo/core"
)

var (
	// errors
	ErrNotFound     = errors.New("person not found")
	ErrQueryTooWide = errors.New("search query must have at least 3 characters")
)

// Well-known group display titles.
const (
	InterestGroupTitle = "Taufinteressenten"
	BaptizedGroupTitle = "Getaufte"
)

const (
	// memberPageSize matches the remote membership-listing default; a shorter
	// page terminates pagination.
	memberPageSize = 10
	// personPageSize for the full-directory scan.
	personPageSize = 500
	// searchLimit caps remote person search results.
	searchLimit = 10
)

var isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type (
	// PageMeta carries server-reported pagination metadata. LastPage == 0 means
	// the server sent none and callers fall back to short-page termination.
	PageMeta struct {
		LastPage int
	}

	// Directory is the remote church-management system. Listing responses carry
	// person summaries only; milestone fields require GetPerson.
	Directory interface {
		ListPersons(ctx context.Context, page, limit int) ([]Person, PageMeta, error)
		GetPerson(ctx context.Context, id int) (Person, error)
		PatchPerson(ctx context.Context, id int, patch FieldsPatch) error
		SearchPersons(ctx context.Context, query string, limit int) ([]Person, error)

		ListGroupMembers(ctx context.Context, groupID, page, limit int) ([]Member, PageMeta, error)
		GetGroupMember(ctx context.Context, groupID, personID int) (Member, error)
		PutGroupMember(ctx context.Context, groupID, personID, statusID int) error
		DeleteGroupMember(ctx context.Context, groupID, personID int) error
	}

	// RunRecorder persists reconciliation run summaries. Optional.
	RunRecorder interface {
		RecordRun(ctx context.Context, rec RunRecord) error
	}

	Service interface {
		// Groups returns snapshots of both configured pipeline groups. It never
		// fails: incomplete settings or fetch errors yield empty results, so an
		// empty roster may also mean "fetch failed" -- check the logs.
		Groups(ctx context.Context) []Group
		Group(ctx context.Context, id int) (Group, bool)
		// FetchGroup loads one fully-hydrated group snapshot. On failure it
		// returns a snapshot with no members rather than an error.
		FetchGroup(ctx context.Context, id int, title string) Group

		// RunSync reconciles both group memberships with the milestone-derived
		// stage across the entire person directory. It always returns a summary;
		// Summary.Failed carries the number of units that errored.
		RunSync(ctx context.Context, source string) Summary

		// UpdateFields applies a partial milestone-field update. Unlike the
		// best-effort sync this is user-initiated, so failures propagate.
		UpdateFields(ctx context.Context, id int, patch FieldsPatch) error
		Update(ctx context.Context, p Person) error

		Search(ctx context.Context, query string) ([]Person, error)

		// MigrateOnboardingDates backfills missing onboarding dates for members
		// of both groups from their seminar dates.
		MigrateOnboardingDates(ctx context.Context, source string) MigrationStats
	}

	service struct {
		dir      Directory
		settings core.SettingsStore
		log      core.Logger
		runs     RunRecorder // may be nil
	}
)

var _ Service = (*service)(nil)

func NewService(dir Directory, settings core.SettingsStore, log core.Logger, runs RunRecorder) Service {
	return &service{
		dir:      dir,
		settings: settings,
		log:      log,
		runs:     runs,
	}
}

func (svc *service) Groups(ctx context.Context) []Group {
	st, err := svc.settings.GetAdminSettings(ctx)
	if err != nil {
		svc.log.Warn("loading admin settings", "err", err)
		return []Group{}
	}
	if !st.Complete() {
		svc.log.Warn("admin settings missing or incomplete; configure group ids in the admin panel")
		return []Group{}
	}
	return []Group{
		svc.FetchGroup(ctx, st.InterestGroupID, InterestGroupTitle),
		svc.FetchGroup(ctx, st.BaptizedGroupID, BaptizedGroupTitle),
	}
}

func (svc *service) Group(ctx context.Context, id int) (Group, bool) {
	for _, g := range svc.Groups(ctx) {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

func (svc *service) FetchGroup(ctx context.Context, id int, title string) Group {
	grp := Group{ID: id, Title: title, Members: []Person{}}

	members, err := svc.listAllMembers(ctx, id)
	if err != nil {
		svc.log.Error("fetching group members", "group", id, "err", err)
		return grp
	}

	for _, m := range members {
		if m.RoleID == leaderRoleID {
			continue
		}
		p, err := svc.dir.GetPerson(ctx, m.PersonID)
		if err != nil {
			svc.log.Error("fetching person", "person", m.PersonID, "group", id, "err", err)
			continue
		}
		// offboarded persons left the pipeline
		if p.Fields.Offboarded() {
			continue
		}
		p.Status = memberStatus(m)
		p.EntryDate = entryDate(p.Fields, m)
		grp.Members = append(grp.Members, p)
	}
	return grp
}

func (svc *service) listAllMembers(ctx context.Context, groupID int) ([]Member, error) {
	var all []Member
	for page := 1; ; page++ {
		members, _, err := svc.dir.ListGroupMembers(ctx, groupID, page, memberPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, members...)
		if len(members) < memberPageSize {
			return all, nil
		}
	}
}

func memberStatus(m Member) Status {
	if m.Status == "inactive" {
		return StatusInactive
	}
	return StatusActive
}

// entryDate resolves the pipeline entry date: explicit onboarding field, then a
// legacy ISO date stored in the membership comment, then the system-recorded
// membership start.
func entryDate(f Fields, m Member) string {
	if present(f.OnboardingAt) {
		return f.OnboardingAt.String
	}
	if isoDateRegex.MatchString(m.Comment) {
		return m.Comment
	}
	return m.StartDate
}

func (svc *service) RunSync(ctx context.Context, source string) Summary {
	var sum Summary
	started := time.Now().UTC()

	st, err := svc.settings.GetAdminSettings(ctx)
	if err != nil {
		svc.log.Warn("sync: loading admin settings", "err", err)
		return sum
	}
	if !st.Complete() {
		svc.log.Warn("sync: group ids not configured; nothing to do")
		return sum
	}

	svc.log.Info("sync: starting global discovery")

	// membership baseline, loaded once up front; kept consistent with our own
	// mutations below so a later duplicate in the same scan is a no-op
	interest := svc.FetchGroup(ctx, st.InterestGroupID, InterestGroupTitle)
	baptized := svc.FetchGroup(ctx, st.BaptizedGroupID, BaptizedGroupTitle)
	inInterest := memberSet(interest)
	inBaptized := memberSet(baptized)

	for page := 1; ; page++ {
		persons, meta, err := svc.dir.ListPersons(ctx, page, personPageSize)
		if err != nil {
			// catastrophic: report what was accumulated so far
			svc.log.Error("sync: listing persons", "page", page, "err", err)
			sum.Failed++
			break
		}
		if len(persons) == 0 {
			break
		}

		for _, p := range persons {
			// listing summaries carry no custom fields
			detail, err := svc.dir.GetPerson(ctx, p.ID)
			if err != nil {
				svc.log.Error("sync: fetching person", "person", p.ID, "err", err)
				sum.Failed++
				continue
			}

			stage := DeriveStage(detail.Fields)
			plan := PlanMutations(stage, inInterest[p.ID], inBaptized[p.ID])
			if plan.Empty() {
				continue
			}

			if plan.AddBaptized {
				svc.log.Info("sync: adding baptized person", "person", p.ID, "group", st.BaptizedGroupID)
				if err := svc.dir.PutGroupMember(ctx, st.BaptizedGroupID, p.ID, memberStatusActiveID); err != nil {
					svc.log.Error("sync: adding to baptized group", "person", p.ID, "err", err)
					sum.Failed++
				} else {
					sum.AddedToBaptized++
					inBaptized[p.ID] = true
				}
			}
			if plan.RemoveInterest {
				svc.log.Info("sync: removing baptized person from interest group", "person", p.ID, "group", st.InterestGroupID)
				if err := svc.dir.DeleteGroupMember(ctx, st.InterestGroupID, p.ID); err != nil {
					svc.log.Error("sync: removing from interest group", "person", p.ID, "err", err)
					sum.Failed++
				} else {
					sum.RemovedFromInterest++
					delete(inInterest, p.ID)
				}
			}
			if plan.AddInterest {
				svc.log.Info("sync: adding discovered candidate", "person", p.ID, "group", st.InterestGroupID)
				if err := svc.dir.PutGroupMember(ctx, st.InterestGroupID, p.ID, memberStatusActiveID); err != nil {
					svc.log.Error("sync: adding to interest group", "person", p.ID, "err", err)
					sum.Failed++
				} else {
					sum.AddedToInterest++
					inInterest[p.ID] = true
				}
			}
		}

		if meta.LastPage > 0 {
			if page >= meta.LastPage {
				break
			}
		} else if len(persons) < personPageSize {
			break
		}
	}

	svc.log.Info("sync: complete",
		"addedToInterest", sum.AddedToInterest,
		"addedToBaptized", sum.AddedToBaptized,
		"removedFromInterest", sum.RemovedFromInterest,
		"failed", sum.Failed,
	)
	svc.recordRun(ctx, RunRecord{
		Kind:                "sync",
		Source:              source,
		StartedAt:           started,
		FinishedAt:          time.Now().UTC(),
		AddedToInterest:     sum.AddedToInterest,
		AddedToBaptized:     sum.AddedToBaptized,
		RemovedFromInterest: sum.RemovedFromInterest,
		Failed:              sum.Failed,
	})
	return sum
}

func memberSet(g Group) map[int]bool {
	set := make(map[int]bool, len(g.Members))
	for _, m := range g.Members {
		set[m.ID] = true
	}
	return set
}

func (svc *service) recordRun(ctx context.Context, rec RunRecord) {
	if svc.runs == nil {
		return
	}
	if err := svc.runs.RecordRun(ctx, rec); err != nil {
		svc.log.Warn("recording run", "kind", rec.Kind, "err", err)
	}
}

func (svc *service) UpdateFields(ctx context.Context, id int, patch FieldsPatch) error {
	normalizePatch(&patch)
	return svc.dir.PatchPerson(ctx, id, patch)
}

// normalizePatch folds set-but-empty values into explicit clears; an empty
// string is never a milestone (JSON null cannot reach a pointer field through
// binding, so clients clear a field by sending "").
func normalizePatch(patch *FieldsPatch) {
	for _, f := range []**null.String{
		&patch.SeminarAttendedAt,
		&patch.BaptizedAt,
		&patch.CertificateIssuedAt,
		&patch.IntegratedAt,
		&patch.OnboardingAt,
		&patch.OffboardingAt,
	} {
		if v := *f; v != nil && v.Valid && strings.TrimSpace(v.String) == "" {
			cleared := null.NewString("", false)
			*f = &cleared
		}
	}
}

// Update writes a person's milestone fields and, unless removed, their
// membership status in both configured groups.
func (svc *service) Update(ctx context.Context, p Person) error {
	patch := FieldsPatch{
		SeminarAttendedAt:   &p.Fields.SeminarAttendedAt,
		BaptizedAt:          &p.Fields.BaptizedAt,
		CertificateIssuedAt: &p.Fields.CertificateIssuedAt,
		IntegratedAt:        &p.Fields.IntegratedAt,
		OnboardingAt:        &p.Fields.OnboardingAt,
		OffboardingAt:       &p.Fields.OffboardingAt,
	}
	if err := svc.UpdateFields(ctx, p.ID, patch); err != nil {
		return err
	}
	if p.Status != "" && p.Status != StatusRemoved {
		svc.updateStatus(ctx, p.ID, p.Status)
	}
	return nil
}

// updateStatus flips the member status in whichever configured groups the
// person belongs to. Best-effort: failures are logged, not propagated.
func (svc *service) updateStatus(ctx context.Context, id int, status Status) {
	st, err := svc.settings.GetAdminSettings(ctx)
	if err != nil {
		svc.log.Warn("loading admin settings", "err", err)
		return
	}

	statusID := memberStatusActiveID
	if status == StatusInactive {
		statusID = memberStatusInactiveID
	}

	for _, groupID := range []int{st.InterestGroupID, st.BaptizedGroupID} {
		if groupID <= 0 {
			continue
		}
		if _, err := svc.dir.GetGroupMember(ctx, groupID, id); err != nil {
			if !errors.Is(err, ErrNotFound) {
				svc.log.Warn("checking group membership", "person", id, "group", groupID, "err", err)
			}
			continue
		}
		if err := svc.dir.PutGroupMember(ctx, groupID, id, statusID); err != nil {
			svc.log.Warn("updating member status", "person", id, "group", groupID, "err", err)
		}
	}
}

// Search queries the directory and ranks results by name similarity to the query.
func (svc *service) Search(ctx context.Context, query string) ([]Person, error) {
	query = core.CleanString(query)
	if len(query) < 3 {
		return nil, ErrQueryTooWide
	}
	persons, err := svc.dir.SearchPersons(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	sort.SliceStable(persons, func(i, j int) bool {
		return similarity(q, persons[i].Name()) > similarity(q, persons[j].Name())
	})
	return persons, nil
}

func similarity(query, name string) float64 {
	name = strings.ToLower(name)
	return difflib.NewMatcher(strings.Split(query, ""), strings.Split(name, "")).QuickRatio()
}

func (svc *service) MigrateOnboardingDates(ctx context.Context, source string) MigrationStats {
	var stats MigrationStats
	started := time.Now().UTC()

	st, err := svc.settings.GetAdminSettings(ctx)
	if err != nil || !st.Complete() {
		svc.log.Warn("migration: group ids not configured; nothing to do", "err", err)
		return stats
	}

	for _, groupID := range []int{st.InterestGroupID, st.BaptizedGroupID} {
		members, err := svc.listAllMembers(ctx, groupID)
		if err != nil {
			svc.log.Error("migration: fetching group members", "group", groupID, "err", err)
			stats.Errors++
			continue
		}
		for _, m := range members {
			if err := svc.migrateOnboarding(ctx, m.PersonID, &stats); err != nil {
				svc.log.Error("migration: processing person", "person", m.PersonID, "err", err)
				stats.Errors++
			}
		}
	}

	svc.log.Info("migration: complete", "updated", stats.Updated, "skipped", stats.Skipped, "errors", stats.Errors)
	svc.recordRun(ctx, RunRecord{
		Kind:       "migration",
		Source:     source,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Failed:     stats.Errors,
	})
	return stats
}

func (svc *service) migrateOnboarding(ctx context.Context, personID int, stats *MigrationStats) error {
	p, err := svc.dir.GetPerson(ctx, personID)
	if err != nil {
		return err
	}

	seminar := p.Fields.SeminarAttendedAt
	onboarding := p.Fields.OnboardingAt
	if !present(seminar) {
		stats.Skipped++
		return nil
	}
	// already customized; leave alone
	if present(onboarding) && onboarding.String != seminar.String {
		stats.Skipped++
		return nil
	}

	seminarDate, err := time.Parse("2006-01-02", seminar.String)
	if err != nil {
		stats.Skipped++
		return nil
	}
	// spread entries 2-20 days before the seminar
	daysBefore := 2 + personID%19
	newOnboarding := null.StringFrom(seminarDate.AddDate(0, 0, -daysBefore).Format("2006-01-02"))

	if err := svc.dir.PatchPerson(ctx, personID, FieldsPatch{OnboardingAt: &newOnboarding}); err != nil {
		return err
	}
	stats.Updated++
	return nil
}
