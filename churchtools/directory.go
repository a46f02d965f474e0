package churchtools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/taufwerk/baptizo/core/person"
)

// Custom field names on a ChurchTools person record. Listing responses do not
// carry them; only the single-person endpoint does, at the top level.
const (
	fieldSeminar     = "taufmanager_seminar"
	fieldBaptism     = "taufmanager_taufe"
	fieldCertificate = "taufmanager_urkunde"
	fieldIntegration = "taufmanager_integration"
	fieldOnboarding  = "taufmanager_onboarding"
	fieldOffboarding = "taufmanager_offboarding"
)

type (
	wirePerson struct {
		ID        int    `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Mobile    string `json:"mobile"`
		Phone     string `json:"phone"`
		ImageURL  string `json:"imageUrl"`

		Seminar     null.String `json:"taufmanager_seminar"`
		Baptism     null.String `json:"taufmanager_taufe"`
		Certificate null.String `json:"taufmanager_urkunde"`
		Integration null.String `json:"taufmanager_integration"`
		StatusFlag  null.String `json:"taufmanager_status"`
		Onboarding  null.String `json:"taufmanager_onboarding"`
		Offboarding null.String `json:"taufmanager_offboarding"`
	}

	wireMember struct {
		PersonID          int    `json:"personId"`
		GroupTypeRoleID   int    `json:"groupTypeRoleId"`
		GroupMemberStatus string `json:"groupMemberStatus"`
		Comment           string `json:"comment"`
		MemberStartDate   string `json:"memberStartDate"`
	}
)

var _ person.Directory = (*Client)(nil)

func (w wirePerson) toPerson() person.Person {
	return person.Person{
		ID:        w.ID,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Email:     w.Email,
		Mobile:    w.Mobile,
		Phone:     w.Phone,
		ImageURL:  w.ImageURL,
		Status:    person.StatusActive,
		Fields: person.Fields{
			SeminarAttendedAt:   w.Seminar,
			BaptizedAt:          w.Baptism,
			CertificateIssuedAt: w.Certificate,
			IntegratedAt:        w.Integration,
			StatusFlag:          w.StatusFlag,
			OnboardingAt:        w.Onboarding,
			OffboardingAt:       w.Offboarding,
		},
	}
}

func (c *Client) ListPersons(ctx context.Context, page, limit int) ([]person.Person, person.PageMeta, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var wire []wirePerson
	lastPage, err := c.get(ctx, "/persons", q, &wire)
	if err != nil {
		return nil, person.PageMeta{}, err
	}
	persons := make([]person.Person, 0, len(wire))
	for _, w := range wire {
		persons = append(persons, w.toPerson())
	}
	return persons, person.PageMeta{LastPage: lastPage}, nil
}

func (c *Client) GetPerson(ctx context.Context, id int) (person.Person, error) {
	var wire wirePerson
	if _, err := c.get(ctx, fmt.Sprintf("/persons/%d", id), nil, &wire); err != nil {
		if IsNotFound(err) {
			return person.Person{}, person.ErrNotFound
		}
		return person.Person{}, err
	}
	return wire.toPerson(), nil
}

// PatchPerson writes the milestone custom fields. A cleared field is sent as
// an explicit JSON null; untouched fields are omitted from the payload.
func (c *Client) PatchPerson(ctx context.Context, id int, patch person.FieldsPatch) error {
	payload := map[string]interface{}{}
	put := func(key string, v *null.String) {
		if v == nil {
			return
		}
		if v.Valid {
			payload[key] = v.String
		} else {
			payload[key] = nil
		}
	}
	put(fieldSeminar, patch.SeminarAttendedAt)
	put(fieldBaptism, patch.BaptizedAt)
	put(fieldCertificate, patch.CertificateIssuedAt)
	put(fieldIntegration, patch.IntegratedAt)
	put(fieldOnboarding, patch.OnboardingAt)
	put(fieldOffboarding, patch.OffboardingAt)
	if len(payload) == 0 {
		return nil
	}

	err := c.send(ctx, http.MethodPatch, fmt.Sprintf("/persons/%d", id), payload)
	if IsNotFound(err) {
		return person.ErrNotFound
	}
	return err
}

func (c *Client) SearchPersons(ctx context.Context, query string, limit int) ([]person.Person, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(limit))

	var wire []wirePerson
	if _, err := c.get(ctx, "/persons", q, &wire); err != nil {
		return nil, err
	}
	persons := make([]person.Person, 0, len(wire))
	for _, w := range wire {
		persons = append(persons, w.toPerson())
	}
	return persons, nil
}

func (c *Client) ListGroupMembers(ctx context.Context, groupID, page, limit int) ([]person.Member, person.PageMeta, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var wire []wireMember
	lastPage, err := c.get(ctx, fmt.Sprintf("/groups/%d/members", groupID), q, &wire)
	if err != nil {
		return nil, person.PageMeta{}, err
	}
	members := make([]person.Member, 0, len(wire))
	for _, w := range wire {
		members = append(members, w.toMember())
	}
	return members, person.PageMeta{LastPage: lastPage}, nil
}

func (w wireMember) toMember() person.Member {
	return person.Member{
		PersonID:  w.PersonID,
		RoleID:    w.GroupTypeRoleID,
		Status:    w.GroupMemberStatus,
		Comment:   w.Comment,
		StartDate: w.MemberStartDate,
	}
}

func (c *Client) GetGroupMember(ctx context.Context, groupID, personID int) (person.Member, error) {
	var wire wireMember
	if _, err := c.get(ctx, fmt.Sprintf("/groups/%d/members/%d", groupID, personID), nil, &wire); err != nil {
		if IsNotFound(err) {
			return person.Member{}, person.ErrNotFound
		}
		return person.Member{}, err
	}
	return wire.toMember(), nil
}

// PutGroupMember adds the person to the group or updates their member status.
func (c *Client) PutGroupMember(ctx context.Context, groupID, personID, statusID int) error {
	payload := map[string]interface{}{"groupMemberStatusId": statusID}
	return c.send(ctx, http.MethodPut, fmt.Sprintf("/groups/%d/members/%d", groupID, personID), payload)
}

func (c *Client) DeleteGroupMember(ctx context.Context, groupID, personID int) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d/members/%d", groupID, personID), nil)
}
