package person

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/taufwerk/baptizo/core"
)

// DirectoryMock is an in-memory Directory for tests: persons and group
// membership tables guarded by a mutex, with per-call error injection.
type DirectoryMock struct {
	mu      sync.RWMutex
	persons map[int]Person
	groups  map[int]map[int]Member

	// error injection; ListPersonsErrPage limits ListPersonsErr to one page
	// (0 fails every call)
	ListPersonsErr     error
	ListPersonsErrPage int
	GetPersonErr       map[int]error
	ListMembersErr     map[int]error
	PutErr             error
	DeleteErr          error

	// when set, ListPersons reports pagination metadata instead of relying on
	// short-page termination
	ReportLastPage bool

	// mutation counters
	PutCalls    int
	DeleteCalls int
}

var _ Directory = (*DirectoryMock)(nil)

func NewDirectoryMock() *DirectoryMock {
	return &DirectoryMock{
		persons: make(map[int]Person),
		groups:  make(map[int]map[int]Member),
	}
}

func (d *DirectoryMock) AddPerson(p Person) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.persons[p.ID] = p
}

func (d *DirectoryMock) AddMember(groupID int, m Member) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.groups[groupID] == nil {
		d.groups[groupID] = make(map[int]Member)
	}
	d.groups[groupID][m.PersonID] = m
}

func (d *DirectoryMock) IsMember(groupID, personID int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.groups[groupID][personID]
	return ok
}

func (d *DirectoryMock) ListPersons(_ context.Context, page, limit int) ([]Person, PageMeta, error) {
	if d.ListPersonsErr != nil && (d.ListPersonsErrPage == 0 || d.ListPersonsErrPage == page) {
		return nil, PageMeta{}, d.ListPersonsErr
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]int, 0, len(d.persons))
	for id := range d.persons {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var meta PageMeta
	if d.ReportLastPage {
		meta.LastPage = (len(ids) + limit - 1) / limit
		if meta.LastPage == 0 {
			meta.LastPage = 1
		}
	}

	start := (page - 1) * limit
	if start >= len(ids) {
		return []Person{}, meta, nil
	}
	end := start + limit
	if end > len(ids) {
		end = len(ids)
	}
	out := make([]Person, 0, end-start)
	for _, id := range ids[start:end] {
		p := d.persons[id]
		p.Fields = Fields{} // listing summaries carry no custom fields
		out = append(out, p)
	}
	return out, meta, nil
}

func (d *DirectoryMock) GetPerson(_ context.Context, id int) (Person, error) {
	if err := d.GetPersonErr[id]; err != nil {
		return Person{}, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.persons[id]
	if !ok {
		return Person{}, ErrNotFound
	}
	return p, nil
}

func (d *DirectoryMock) PatchPerson(_ context.Context, id int, patch FieldsPatch) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.persons[id]
	if !ok {
		return ErrNotFound
	}
	apply := func(dst *Fields, f *FieldsPatch) {
		if f.SeminarAttendedAt != nil {
			dst.SeminarAttendedAt = *f.SeminarAttendedAt
		}
		if f.BaptizedAt != nil {
			dst.BaptizedAt = *f.BaptizedAt
		}
		if f.CertificateIssuedAt != nil {
			dst.CertificateIssuedAt = *f.CertificateIssuedAt
		}
		if f.IntegratedAt != nil {
			dst.IntegratedAt = *f.IntegratedAt
		}
		if f.OnboardingAt != nil {
			dst.OnboardingAt = *f.OnboardingAt
		}
		if f.OffboardingAt != nil {
			dst.OffboardingAt = *f.OffboardingAt
		}
	}
	apply(&p.Fields, &patch)
	d.persons[id] = p
	return nil
}

func (d *DirectoryMock) SearchPersons(_ context.Context, query string, limit int) ([]Person, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]int, 0, len(d.persons))
	for id := range d.persons {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]Person, 0, limit)
	for _, id := range ids {
		if len(out) >= limit {
			break
		}
		p := d.persons[id]
		if containsFold(p.Name(), query) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (d *DirectoryMock) ListGroupMembers(_ context.Context, groupID, page, limit int) ([]Member, PageMeta, error) {
	if err := d.ListMembersErr[groupID]; err != nil {
		return nil, PageMeta{}, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	grp := d.groups[groupID]
	ids := make([]int, 0, len(grp))
	for id := range grp {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	start := (page - 1) * limit
	if start >= len(ids) {
		return []Member{}, PageMeta{}, nil
	}
	end := start + limit
	if end > len(ids) {
		end = len(ids)
	}
	out := make([]Member, 0, end-start)
	for _, id := range ids[start:end] {
		out = append(out, grp[id])
	}
	return out, PageMeta{}, nil
}

func (d *DirectoryMock) GetGroupMember(_ context.Context, groupID, personID int) (Member, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.groups[groupID][personID]
	if !ok {
		return Member{}, ErrNotFound
	}
	return m, nil
}

func (d *DirectoryMock) PutGroupMember(_ context.Context, groupID, personID, statusID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.PutCalls++
	if d.PutErr != nil {
		return d.PutErr
	}
	if d.groups[groupID] == nil {
		d.groups[groupID] = make(map[int]Member)
	}
	m := d.groups[groupID][personID]
	m.PersonID = personID
	if statusID == memberStatusInactiveID {
		m.Status = "inactive"
	} else {
		m.Status = "active"
	}
	d.groups[groupID][personID] = m
	return nil
}

func (d *DirectoryMock) DeleteGroupMember(_ context.Context, groupID, personID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.DeleteCalls++
	if d.DeleteErr != nil {
		return d.DeleteErr
	}
	if _, ok := d.groups[groupID][personID]; !ok {
		return ErrNotFound
	}
	delete(d.groups[groupID], personID)
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SettingsStoreMock is an in-memory core.SettingsStore.
type SettingsStoreMock struct {
	Admin    core.AdminSettings
	App      core.AppSettings
	AdminErr error
}

var _ core.SettingsStore = (*SettingsStoreMock)(nil)

func (s *SettingsStoreMock) GetAdminSettings(context.Context) (core.AdminSettings, error) {
	return s.Admin, s.AdminErr
}

func (s *SettingsStoreMock) SaveAdminSettings(_ context.Context, st core.AdminSettings) error {
	s.Admin = st
	return nil
}

func (s *SettingsStoreMock) GetAppSettings(context.Context) (core.AppSettings, error) {
	return s.App, nil
}

func (s *SettingsStoreMock) SaveAppSettings(_ context.Context, st core.AppSettings) error {
	s.App = st
	return nil
}
