package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"eventplanner/internal/domain"
)

// In-memory fakes shared by the service tests. The RSVP fake enforces the
// (user_id, event_id) uniqueness constraint under a mutex so the concurrency
// tests see the same semantics the database gives the real repository.

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	err    error
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	m := make(map[string]*domain.Event, len(events))
	for _, e := range events {
		m[e.ID] = e
	}
	return &fakeEventRepo{events: m}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event.ID == "" {
		event.ID = "event-" + strconv.Itoa(len(f.events)+1)
	}
	f.events[event.ID] = event
	return f.err
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	ev, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, f.err
}

func (f *fakeEventRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Event{}
	for _, e := range f.events {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, f.err
}

func (f *fakeEventRepo) ListByCategoryID(ctx context.Context, categoryID string) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Event{}
	for _, e := range f.events {
		if e.CategoryID == categoryID {
			out = append(out, e)
		}
	}
	return out, f.err
}

func (f *fakeEventRepo) ListByStatus(ctx context.Context, status domain.EventStatus) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Event{}
	for _, e := range f.events {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, f.err
}

func (f *fakeEventRepo) Update(ctx context.Context, event *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[event.ID]; !ok {
		return domain.ErrNotFound
	}
	f.events[event.ID] = event
	return f.err
}

func (f *fakeEventRepo) SetStatus(ctx context.Context, id string, status domain.EventStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	ev.Status = status
	return f.err
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	return f.err
}

type fakeRSVPRepo struct {
	mu    sync.Mutex
	rsvps map[string]*domain.RSVP
	seq   int
	err   error
}

func newFakeRSVPRepo(rsvps ...*domain.RSVP) *fakeRSVPRepo {
	m := make(map[string]*domain.RSVP, len(rsvps))
	for _, r := range rsvps {
		m[r.ID] = r
	}
	return &fakeRSVPRepo{rsvps: m, seq: len(rsvps)}
}

func (f *fakeRSVPRepo) Create(ctx context.Context, rsvp *domain.RSVP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.rsvps {
		if existing.UserID == rsvp.UserID && existing.EventID == rsvp.EventID {
			return domain.ErrDuplicateRSVP
		}
	}
	f.seq++
	rsvp.ID = fmt.Sprintf("rsvp-%d", f.seq)
	f.rsvps[rsvp.ID] = rsvp
	return nil
}

func (f *fakeRSVPRepo) GetByID(ctx context.Context, id string) (*domain.RSVP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.rsvps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRSVPRepo) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.RSVP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.rsvps {
		if r.UserID == userID && r.EventID == eventID {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRSVPRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.RSVP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.RSVP{}
	for _, r := range f.rsvps {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, f.err
}

func (f *fakeRSVPRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.RSVP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.RSVP{}
	for _, r := range f.rsvps {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, f.err
}

func (f *fakeRSVPRepo) CountGoingByEvent(ctx context.Context, eventID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, r := range f.rsvps {
		if r.EventID == eventID && r.Status.CountsTowardCapacity() {
			count++
		}
	}
	return count, nil
}

func (f *fakeRSVPRepo) Update(ctx context.Context, rsvp *domain.RSVP) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rsvps[rsvp.ID]; !ok {
		return domain.ErrNotFound
	}
	f.rsvps[rsvp.ID] = rsvp
	return f.err
}

func (f *fakeRSVPRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rsvps[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rsvps, id)
	return f.err
}

type fakeInviteRepo struct {
	mu      sync.Mutex
	invites map[string]*domain.Invite
	seq     int
	err     error
}

func newFakeInviteRepo(invites ...*domain.Invite) *fakeInviteRepo {
	m := make(map[string]*domain.Invite, len(invites))
	for _, i := range invites {
		m[i.ID] = i
	}
	return &fakeInviteRepo{invites: m, seq: len(invites)}
}

func (f *fakeInviteRepo) Create(ctx context.Context, invite *domain.Invite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.invites {
		if existing.InviteeID == invite.InviteeID && existing.EventID == invite.EventID {
			return domain.ErrDuplicateInvite
		}
	}
	f.seq++
	invite.ID = fmt.Sprintf("invite-%d", f.seq)
	f.invites[invite.ID] = invite
	return nil
}

func (f *fakeInviteRepo) GetByID(ctx context.Context, id string) (*domain.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	inv, ok := f.invites[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (f *fakeInviteRepo) GetByInviteeAndEvent(ctx context.Context, inviteeID, eventID string) (*domain.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, inv := range f.invites {
		if inv.InviteeID == inviteeID && inv.EventID == eventID {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInviteRepo) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Invite, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Invite{}
	for _, inv := range f.invites {
		if inv.EventID == eventID {
			out = append(out, inv)
		}
	}
	return out, len(out), f.err
}

func (f *fakeInviteRepo) ListPendingByInviteeID(ctx context.Context, inviteeID string) ([]*domain.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Invite{}
	for _, inv := range f.invites {
		if inv.InviteeID == inviteeID && inv.Status == domain.InvitePending {
			out = append(out, inv)
		}
	}
	return out, f.err
}

func (f *fakeInviteRepo) Update(ctx context.Context, invite *domain.Invite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.invites[invite.ID]; !ok {
		return domain.ErrNotFound
	}
	f.invites[invite.ID] = invite
	return f.err
}

func (f *fakeInviteRepo) MarkExpired(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invites[id]
	if !ok {
		return domain.ErrNotFound
	}
	if inv.Status == domain.InvitePending {
		inv.Status = domain.InviteExpired
	}
	return f.err
}

func (f *fakeInviteRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.invites[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.invites, id)
	return f.err
}

type fakeCategoryRepo struct {
	categories map[string]*domain.Category
	err        error
}

func newFakeCategoryRepo(categories ...*domain.Category) *fakeCategoryRepo {
	m := make(map[string]*domain.Category, len(categories))
	for _, c := range categories {
		m[c.ID] = c
	}
	return &fakeCategoryRepo{categories: m}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	if category.ID == "" {
		category.ID = "cat-" + strconv.Itoa(len(f.categories)+1)
	}
	f.categories[category.ID] = category
	return f.err
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, f.err
}

func (f *fakeCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	if _, ok := f.categories[category.ID]; !ok {
		return domain.ErrNotFound
	}
	f.categories[category.ID] = category
	return f.err
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.categories, id)
	return f.err
}

type fakeUserRepo struct {
	users map[string]*domain.User
	err   error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	m := make(map[string]*domain.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = "user-" + strconv.Itoa(len(f.users)+1)
	}
	f.users[user.ID] = user
	return f.err
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, f.err
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.users[user.ID] = user
	return f.err
}

func (f *fakeUserRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	return f.err
}

// fakeRoleRepo resolves role codes per user, so the real authorization gate
// can run in service tests.
type fakeRoleRepo struct {
	rolesByUser map[string][]string
}

func (f *fakeRoleRepo) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	return &domain.Role{ID: "role-" + code, Code: code}, nil
}

func (f *fakeRoleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	codes := f.rolesByUser[userID]
	roles := make([]*domain.Role, 0, len(codes))
	for _, code := range codes {
		roles = append(roles, &domain.Role{ID: "role-" + code, Code: code})
	}
	return roles, nil
}

func newTestGate(rolesByUser map[string][]string) domain.AuthorizationGate {
	return NewAuthorizationGate(&fakeRoleRepo{rolesByUser: rolesByUser})
}

type fakeEmailService struct {
	mu      sync.Mutex
	invites []*domain.InviteEmailData
	welcome []*domain.WelcomeMessageEmailData
	err     error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcome = append(f.welcome, data)
	return f.err
}

func (f *fakeEmailService) SendInviteNotification(ctx context.Context, data *domain.InviteEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invites = append(f.invites, data)
	return f.err
}

func futureEvent(id, ownerID string, max int, private bool) *domain.Event {
	now := time.Now()
	return &domain.Event{
		ID:              id,
		Title:           "Event " + id,
		Location:        "Main Hall",
		StartDate:       now.Add(24 * time.Hour),
		EndDate:         now.Add(26 * time.Hour),
		OwnerID:         ownerID,
		CategoryID:      "cat-1",
		MaxParticipants: max,
		IsPrivate:       private,
		Status:          domain.EventUpcoming,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
