package contact

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"contactly/internal/database"
)

type stubRepo struct {
	users     []database.User
	companies map[uuid.UUID]string
	clients   int
	creators  int
}

func newStubRepo() *stubRepo {
	return &stubRepo{companies: make(map[uuid.UUID]string)}
}

func (r *stubRepo) UserByID(id uuid.UUID) (*database.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			clone := r.users[i]
			return &clone, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *stubRepo) UserByEmail(email string) (*database.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			clone := r.users[i]
			return &clone, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *stubRepo) UserByResetToken(tok string) (*database.User, error) {
	return nil, database.ErrNotFound
}

func (r *stubRepo) CreateUser(user *database.User, client *database.Client, creator *database.Creator) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users = append(r.users, *user)

	if client != nil {
		client.ID = uuid.New()
		r.clients++
		r.companies[user.ID] = client.CompanyName
	}
	if creator != nil {
		creator.ID = uuid.New()
		creator.UserID = user.ID
		r.creators++
	}
	return nil
}

func (r *stubRepo) CreateTenant(user *database.User, client *database.Client, domain *database.ClientDomain) error {
	return nil
}

func (r *stubRepo) SaveUser(user *database.User) error {
	return nil
}

func (r *stubRepo) CreateSession(session *database.Session) error {
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (r *stubRepo) matchesSearch(u *database.User, search string) bool {
	if search == "" {
		return true
	}
	phone := ""
	if u.Phone != nil {
		phone = *u.Phone
	}
	return containsFold(u.FirstName, search) ||
		containsFold(u.LastName, search) ||
		containsFold(u.Email, search) ||
		containsFold(phone, search)
}

func (r *stubRepo) ListContacts(params database.ListContactsParams) ([]database.User, int64, error) {
	var matched []database.User
	for i := range r.users {
		if r.matchesSearch(&r.users[i], params.Search) {
			matched = append(matched, r.users[i])
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if strings.EqualFold(params.SortOrder, "asc") {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if params.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[params.Offset:]
	if params.Limit > 0 && params.Limit < len(matched) {
		matched = matched[:params.Limit]
	}
	return matched, total, nil
}

func (r *stubRepo) SearchContacts(filter database.SearchContactsFilter) ([]database.User, error) {
	var matched []database.User
	for i := range r.users {
		u := &r.users[i]
		if filter.FirstName != "" && !containsFold(u.FirstName, filter.FirstName) {
			continue
		}
		if filter.LastName != "" && !containsFold(u.LastName, filter.LastName) {
			continue
		}
		if filter.Company != "" && !containsFold(r.companies[u.ID], filter.Company) {
			continue
		}
		if filter.MinCreatedDate != nil && u.CreatedAt.Before(*filter.MinCreatedDate) {
			continue
		}
		if filter.MaxCreatedDate != nil && u.CreatedAt.After(*filter.MaxCreatedDate) {
			continue
		}
		matched = append(matched, *u)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

func seedContacts(repo *stubRepo, n int) {
	base := time.Now().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		repo.users = append(repo.users, database.User{
			ID:        uuid.New(),
			Email:     fmt.Sprintf("contact%02d@x.com", i),
			FirstName: fmt.Sprintf("First%02d", i),
			LastName:  fmt.Sprintf("Last%02d", i),
			Role:      database.RoleClient,
			Status:    database.StatusActive,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestCreateContact_StoresEmptyPassword(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	contact, err := svc.CreateContact(ContactInput{
		Email:     "lead@x.com",
		FirstName: "Lead",
		LastName:  "Person",
		Role:      database.RoleCreator,
	})
	if err != nil {
		t.Fatalf("CreateContact returned error: %v", err)
	}

	if repo.users[0].Password != "" {
		t.Fatalf("contact rows must carry an empty password")
	}
	if contact.Status != database.StatusActive {
		t.Fatalf("status should default to ACTIVE, got %s", contact.Status)
	}
	if repo.creators != 1 {
		t.Fatalf("CREATOR contact should get a creator profile")
	}
}

func TestCreateContact_ClientRole(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	if _, err := svc.CreateContact(ContactInput{
		Email:     "lead@x.com",
		FirstName: "Lead",
		LastName:  "Person",
		Role:      database.RoleClient,
		Status:    database.StatusPending,
	}); err != nil {
		t.Fatalf("CreateContact returned error: %v", err)
	}

	if repo.clients != 1 {
		t.Fatalf("CLIENT contact should get an empty client row")
	}
	if repo.users[0].Status != database.StatusPending {
		t.Fatalf("explicit status should be kept, got %s", repo.users[0].Status)
	}
}

func TestCreateContact_DuplicateEmail(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	seedContacts(repo, 1)

	_, err := svc.CreateContact(ContactInput{
		Email:     "contact00@x.com",
		FirstName: "Dup",
		LastName:  "Entry",
		Role:      database.RoleClient,
	})
	if err != ErrDuplicateEmail {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("duplicate must not insert a row")
	}
}

func TestContactByEmail(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	seedContacts(repo, 3)

	contact, err := svc.ContactByEmail("contact01@x.com")
	if err != nil {
		t.Fatalf("ContactByEmail returned error: %v", err)
	}
	if contact.FirstName != "First01" {
		t.Fatalf("wrong contact returned: %+v", contact)
	}

	if _, err := svc.ContactByEmail("nobody@x.com"); err != ErrContactNotFound {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}

func TestListContacts_Pagination(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	seedContacts(repo, 25)

	result, err := svc.ListContacts(ListParams{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("ListContacts returned error: %v", err)
	}

	if len(result.Contacts) != 10 {
		t.Fatalf("page 2 of 25 rows should have 10 contacts, got %d", len(result.Contacts))
	}
	p := result.Pagination
	if p.TotalContacts != 25 || p.CurrentPage != 2 || p.PageSize != 10 || p.TotalPages != 3 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}

func TestListContacts_Defaults(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	seedContacts(repo, 15)

	result, err := svc.ListContacts(ListParams{})
	if err != nil {
		t.Fatalf("ListContacts returned error: %v", err)
	}

	if len(result.Contacts) != 10 {
		t.Fatalf("default page size should be 10, got %d rows", len(result.Contacts))
	}
	if result.Pagination.CurrentPage != 1 {
		t.Fatalf("default page should be 1, got %d", result.Pagination.CurrentPage)
	}
	// Default order is newest first.
	if result.Contacts[0].Email != "contact14@x.com" {
		t.Fatalf("expected newest contact first, got %s", result.Contacts[0].Email)
	}
}

func TestListContacts_LastPartialPage(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	seedContacts(repo, 25)

	result, err := svc.ListContacts(ListParams{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("ListContacts returned error: %v", err)
	}
	if len(result.Contacts) != 5 {
		t.Fatalf("last page should have 5 contacts, got %d", len(result.Contacts))
	}
}

func TestListContacts_Search(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	seedContacts(repo, 5)

	result, err := svc.ListContacts(ListParams{Search: "first03"})
	if err != nil {
		t.Fatalf("ListContacts returned error: %v", err)
	}
	if len(result.Contacts) != 1 || result.Contacts[0].Email != "contact03@x.com" {
		t.Fatalf("search should match case-insensitively: %+v", result.Contacts)
	}
}

func TestSearchContacts_FiltersAreConjunctive(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	seedContacts(repo, 5)
	repo.users[2].FirstName = "Alice"
	repo.users[3].FirstName = "Alice"
	repo.users[3].LastName = "Brown"

	contacts, err := svc.SearchContacts(SearchFilter{FirstName: "alice", LastName: "brown"})
	if err != nil {
		t.Fatalf("SearchContacts returned error: %v", err)
	}
	if len(contacts) != 1 || contacts[0].LastName != "Brown" {
		t.Fatalf("filters must be ANDed: %+v", contacts)
	}
}

func TestSearchContacts_DateBoundsInclusive(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	seedContacts(repo, 3)

	min := repo.users[1].CreatedAt
	max := repo.users[2].CreatedAt

	contacts, err := svc.SearchContacts(SearchFilter{MinCreatedDate: &min, MaxCreatedDate: &max})
	if err != nil {
		t.Fatalf("SearchContacts returned error: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("inclusive bounds should match 2 contacts, got %d", len(contacts))
	}
	if !contacts[0].CreatedAt.After(contacts[1].CreatedAt) {
		t.Fatalf("results should be newest first")
	}
}

type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Get(key string) ([]byte, error) {
	return s.objects[key], nil
}

func (s *memStore) Set(key string, val []byte, exp time.Duration) error {
	buf := make([]byte, len(val))
	copy(buf, val)
	s.objects[key] = buf
	return nil
}

func (s *memStore) Delete(key string) error {
	delete(s.objects, key)
	return nil
}

func (s *memStore) Reset() error {
	s.objects = make(map[string][]byte)
	return nil
}

func (s *memStore) Close() error {
	return nil
}

func TestExportContacts(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	seedContacts(repo, 3)

	store := newMemStore()
	key, err := svc.ExportContacts(store, "")
	if err != nil {
		t.Fatalf("ExportContacts returned error: %v", err)
	}
	if !strings.HasPrefix(key, "exports/contacts-") || !strings.HasSuffix(key, ".csv") {
		t.Fatalf("unexpected object key: %s", key)
	}

	data, err := store.Get(key)
	if err != nil || len(data) == 0 {
		t.Fatalf("exported object missing: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d records", len(records))
	}
	if records[0][1] != "first_name" {
		t.Fatalf("unexpected header: %v", records[0])
	}
}
