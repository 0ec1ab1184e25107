package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"eventattendance/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	mu       sync.Mutex
	byID     map[string]*domain.Event
	rundowns map[string][]*domain.EventRundown
	nextID   int
	err      error // if set, every call returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:     make(map[string]*domain.Event),
		rundowns: make(map[string][]*domain.EventRundown),
		nextID:   1,
	}
}

// add stores an event with a fixed ID and returns it.
func (f *fakeEventRepo) add(id string, status domain.EventStatus, mode domain.AttendanceMode, capacity int) *domain.Event {
	now := time.Now()
	e := domain.NewEvent("Event "+id, "seminar", mode, now, now.Add(2*time.Hour), capacity, now, now)
	e.ID = id
	e.Status = status
	f.byID[id] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event, rundowns []*domain.EventRundown) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	f.setRundowns(e.ID, rundowns)
	return nil
}

func (f *fakeEventRepo) setRundowns(eventID string, rundowns []*domain.EventRundown) {
	for i, rd := range rundowns {
		rd.ID = fmt.Sprintf("%s-rd-%d", eventID, i+1)
		rd.EventID = eventID
	}
	f.rundowns[eventID] = rundowns
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Event
	for _, e := range f.byID {
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Mode != "" && e.AttendanceMode != filter.Mode {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeEventRepo) ListByStatuses(ctx context.Context, statuses []domain.EventStatus) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Event
	for _, e := range f.byID {
		for _, s := range statuses {
			if e.Status == s {
				out = append(out, e)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event, rundowns []*domain.EventRundown) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[e.ID] = e
	f.setRundowns(e.ID, rundowns)
	return nil
}

func (f *fakeEventRepo) UpdateStatus(ctx context.Context, id string, from, to domain.EventStatus) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok || e.Status != from {
		return nil, domain.ErrInvalidStatusTransition
	}
	e.Status = to
	e.UpdatedAt = time.Now()
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.rundowns, id)
	return nil
}

func (f *fakeEventRepo) ListRundowns(ctx context.Context, eventID string) ([]*domain.EventRundown, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rundowns[eventID], nil
}

func (f *fakeEventRepo) ReplaceRundowns(ctx context.Context, eventID string, rundowns []*domain.EventRundown) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setRundowns(eventID, rundowns)
	return nil
}

type fakeCategoryRepo struct {
	categories []*domain.EventCategory
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*domain.EventCategory, error) {
	return f.categories, nil
}

// fakeScheduleFetcher returns a canned schedule.
type fakeScheduleFetcher struct {
	data domain.ScheduleResponse
	err  error
}

func (f *fakeScheduleFetcher) Fetch(ctx context.Context, sessionizeID string) (domain.ScheduleResponse, error) {
	if f.err != nil {
		return domain.ScheduleResponse{}, f.err
	}
	return f.data, nil
}

// fakeTicketRepo enforces the same uniqueness and capacity rules as the database.
type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets []*domain.Ticket
	holders map[string]*domain.Identity
	nextID  int
	// countOffset simulates tickets issued by a concurrent request after the pre-check.
	countOffset int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{holders: make(map[string]*domain.Identity), nextID: 1}
}

func (f *fakeTicketRepo) countLocked(eventID string) int {
	n := 0
	for _, t := range f.tickets {
		if t.EventID == eventID {
			n++
		}
	}
	return n
}

func (f *fakeTicketRepo) CreateWithinCapacity(ctx context.Context, t *domain.Ticket, capacity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if capacity > 0 && f.countLocked(t.EventID)+f.countOffset >= capacity {
		return domain.ErrQuotaExceeded
	}
	for _, existing := range f.tickets {
		if existing.TicketCode == t.TicketCode {
			return fmt.Errorf("ticket code collision: %w", domain.ErrConflict)
		}
		if existing.EventID == t.EventID && existing.UserID == t.UserID {
			return domain.ErrAlreadyRegistered
		}
	}
	t.ID = fmt.Sprintf("tk-%d", f.nextID)
	f.nextID++
	f.tickets = append(f.tickets, t)
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTicketRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.EventID == eventID && t.UserID == userID {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTicketRepo) GetByEventAndCode(ctx context.Context, eventID, code string) (*domain.TicketWithHolder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.EventID == eventID && t.TicketCode == code {
			out := &domain.TicketWithHolder{Ticket: t}
			if h, ok := f.holders[t.UserID]; ok {
				out.HolderName = h.Name
				out.HolderEmail = h.Email
			}
			return out, nil
		}
	}
	return nil, domain.ErrTicketNotFound
}

func (f *fakeTicketRepo) CountByEvent(ctx context.Context, eventID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countLocked(eventID), nil
}

func (f *fakeTicketRepo) ListActiveByUser(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.TicketWithEvent, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.TicketWithEvent
	for _, t := range f.tickets {
		if t.UserID == userID {
			out = append(out, &domain.TicketWithEvent{Ticket: t})
		}
	}
	return out, len(out), nil
}

func (f *fakeTicketRepo) ListByEvent(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.TicketWithHolder, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.TicketWithHolder
	for _, t := range f.tickets {
		if t.EventID == eventID && strings.Contains(t.TicketCode, search) {
			out = append(out, &domain.TicketWithHolder{Ticket: t})
		}
	}
	return out, len(out), nil
}

// fakeAttendanceRepo mirrors the unique indexes on event_attendance.
type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records []*domain.Attendance
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{nextID: 1}
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, a *domain.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.EventID != a.EventID {
			continue
		}
		if r.ScannedValue == a.ScannedValue ||
			(r.TicketID != nil && a.TicketID != nil && *r.TicketID == *a.TicketID) ||
			(r.UserID != nil && a.UserID != nil && *r.UserID == *a.UserID) {
			return domain.ErrAlreadyCheckedIn
		}
	}
	a.ID = fmt.Sprintf("att-%d", f.nextID)
	f.nextID++
	f.records = append(f.records, a)
	return nil
}

func (f *fakeAttendanceRepo) ExistsForTicket(ctx context.Context, eventID, ticketID string) (bool, error) {
	_, err := f.GetByEventAndTicket(ctx, eventID, ticketID)
	return err == nil, nil
}

func (f *fakeAttendanceRepo) ExistsForUser(ctx context.Context, eventID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.EventID == eventID && r.UserID != nil && *r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttendanceRepo) GetByEventAndScanValue(ctx context.Context, eventID, value string) (*domain.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.EventID == eventID && r.ScannedValue == value {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAttendanceRepo) GetByEventAndTicket(ctx context.Context, eventID, ticketID string) (*domain.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.EventID == eventID && r.TicketID != nil && *r.TicketID == ticketID {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAttendanceRepo) ListByEvent(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Attendance, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Attendance
	for _, r := range f.records {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (f *fakeAttendanceRepo) ListByUser(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.AttendanceWithEvent, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.AttendanceWithEvent
	for _, r := range f.records {
		if r.UserID != nil && *r.UserID == userID {
			out = append(out, &domain.AttendanceWithEvent{Attendance: r})
		}
	}
	return out, len(out), nil
}

type fakeStaticQRRepo struct {
	mu     sync.Mutex
	byCode map[string]*domain.StaticQR
	nextID int
}

func newFakeStaticQRRepo() *fakeStaticQRRepo {
	return &fakeStaticQRRepo{byCode: make(map[string]*domain.StaticQR), nextID: 1}
}

func (f *fakeStaticQRRepo) Create(ctx context.Context, qr *domain.StaticQR) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byCode[qr.Code]; ok {
		return domain.ErrConflict
	}
	qr.ID = fmt.Sprintf("qr-%d", f.nextID)
	f.nextID++
	f.byCode[qr.Code] = qr
	return nil
}

func (f *fakeStaticQRRepo) GetByCode(ctx context.Context, code string) (*domain.StaticQR, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if qr, ok := f.byCode[code]; ok {
		return qr, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStaticQRRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.StaticQR, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.StaticQR
	for _, qr := range f.byCode {
		if qr.EventID == eventID {
			out = append(out, qr)
		}
	}
	return out, nil
}

func (f *fakeStaticQRRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for code, qr := range f.byCode {
		if qr.ID == id {
			delete(f.byCode, code)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeInstitutionRepo struct {
	items []*domain.Institution
}

func (f *fakeInstitutionRepo) List(ctx context.Context) ([]*domain.Institution, error) {
	return f.items, nil
}

func (f *fakeInstitutionRepo) GetByID(ctx context.Context, id string) (*domain.Institution, error) {
	for _, i := range f.items {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeMetrics counts recorded observations.
type fakeMetrics struct {
	mu       sync.Mutex
	issued   int
	checkIns map[string]int
	polls    map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{checkIns: make(map[string]int), polls: make(map[string]int)}
}

func (f *fakeMetrics) TicketIssued(eventID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued++
}

func (f *fakeMetrics) CheckIn(protocol, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkIns[protocol+"/"+outcome]++
}

func (f *fakeMetrics) ScanPolled(status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls[status]++
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.TicketIssuedEmailData
	err  error
}

func (f *fakeEmailService) SendTicketIssued(ctx context.Context, data *domain.TicketIssuedEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

// fakeRoleRepo implements domain.RoleRepository for tests.
type fakeRoleRepo struct {
	byCode    map[string]*domain.Role
	listByUID map[string][]*domain.Role
	perms     map[string][]domain.Permission
	err       error
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		byCode:    make(map[string]*domain.Role),
		listByUID: make(map[string][]*domain.Role),
		perms:     make(map[string][]domain.Permission),
	}
}

func (f *fakeRoleRepo) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	if r, ok := f.byCode[code]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.listByUID[userID], nil
}

func (f *fakeRoleRepo) ListPermissions(ctx context.Context, userID string) ([]domain.Permission, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.perms[userID], nil
}

func (f *fakeRoleRepo) HasPermission(ctx context.Context, userID string, perm domain.Permission) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, p := range f.perms[userID] {
		if p == perm {
			return true, nil
		}
	}
	return false, nil
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct {
	salt string
	hash string
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) { return f.salt, nil }
func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	return "hash-" + password, nil
}
func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+password && (f.hash == "" || hash != f.hash) {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	token string
	roles []string
}

func (f *fakeTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	f.roles = roles
	if f.token != "" {
		return f.token, nil
	}
	return "token-" + userID, nil
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID     map[string]*domain.User
	byEmail  map[string]*domain.User
	assigned map[string][]string
	nextID   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:     make(map[string]*domain.User),
		byEmail:  make(map[string]*domain.User),
		assigned: make(map[string][]string),
		nextID:   1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("created-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) AssignRole(ctx context.Context, userID, roleID string) error {
	f.assigned[userID] = append(f.assigned[userID], roleID)
	return nil
}
