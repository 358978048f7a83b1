package portal

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// InMemory implements Store with in-process concurrency safety. It backs the
// HTTP tests and local development without a database.
type InMemory struct {
	mu           sync.RWMutex
	nextID       int64
	companies    map[int64]*Company
	users        map[int64]*User
	employees    map[int64]*Employee
	departments  map[int64]*Department
	leave        map[int64]*LeaveRequest
	transactions map[int64]*Transaction
	events       map[int64]*Event
	media        map[int64]*MediaItem
	documents    map[int64]*Document
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{
		companies:    make(map[int64]*Company),
		users:        make(map[int64]*User),
		employees:    make(map[int64]*Employee),
		departments:  make(map[int64]*Department),
		leave:        make(map[int64]*LeaveRequest),
		transactions: make(map[int64]*Transaction),
		events:       make(map[int64]*Event),
		media:        make(map[int64]*MediaItem),
		documents:    make(map[int64]*Document),
	}
}

func (m *InMemory) id() int64 {
	m.nextID++
	return m.nextID
}

// SeedCompany inserts a tenant row for tests and local development.
func (m *InMemory) SeedCompany(c *Company) *Company {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	m.companies[c.ID] = &cp
	return c
}

// SeedUser inserts an account row.
func (m *InMemory) SeedUser(u *User) *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.id()
	u.Email = strings.ToLower(u.Email)
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	m.users[u.ID] = &cp
	return u
}

func (m *InMemory) Companies() CompanyStore { return memCompanies{m} }
func (m *InMemory) Users() UserStore { return memUsers{m} }
func (m *InMemory) Employees() EmployeeStore { return memEmployees{m} }
func (m *InMemory) Departments() DepartmentStore { return memDepartments{m} }
func (m *InMemory) Leave() LeaveStore { return memLeave{m} }
func (m *InMemory) Transactions() TransactionStore { return memTransactions{m} }
func (m *InMemory) Events() EventStore { return memEvents{m} }
func (m *InMemory) Media() MediaStore { return memMedia{m} }
func (m *InMemory) Documents() DocumentStore { return memDocuments{m} }

type memCompanies struct{ m *InMemory }

func (s memCompanies) Find(_ context.Context, id int64) (*Company, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	c, ok := s.m.companies[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

type memUsers struct{ m *InMemory }

func (s memUsers) Find(_ context.Context, id int64) (*User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	u, ok := s.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s memUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range s.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

type memEmployees struct{ m *InMemory }

func (s memEmployees) Create(_ context.Context, e *Employee) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, other := range s.m.employees {
		if other.CompanyID == e.CompanyID && other.Email == e.Email {
			return ErrConflict
		}
	}
	e.ID = s.m.id()
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	cp := *e
	s.m.employees[e.ID] = &cp
	return nil
}

func (s memEmployees) Find(_ context.Context, id int64) (*Employee, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	e, ok := s.m.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s memEmployees) FindByUserID(_ context.Context, userID int64) (*Employee, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	for _, e := range s.m.employees {
		if e.UserID != nil && *e.UserID == userID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s memEmployees) ListByCompany(_ context.Context, companyID int64) ([]*Employee, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]*Employee, 0)
	for _, e := range s.m.employees {
		if e.CompanyID == companyID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sortByID(out, func(e *Employee) int64 { return e.ID })
	return out, nil
}

func (s memEmployees) Update(_ context.Context, id int64, patch EmployeePatch) (*Employee, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	e, ok := s.m.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Email.IsSet() {
		for _, other := range s.m.employees {
			if other.ID != id && other.CompanyID == e.CompanyID && other.Email == patch.Email.Value {
				return nil, ErrConflict
			}
		}
	}
	applyString := func(f Field[string], dst *string) {
		if f.Present {
			if f.Null {
				*dst = ""
			} else {
				*dst = f.Value
			}
		}
	}
	applyString(patch.FirstName, &e.FirstName)
	applyString(patch.LastName, &e.LastName)
	applyString(patch.Email, &e.Email)
	applyString(patch.Phone, &e.Phone)
	applyString(patch.JobTitle, &e.JobTitle)
	applyString(patch.HireDate, &e.HireDate)
	applyString(patch.Address, &e.Address)
	applyString(patch.EmergencyContactName, &e.EmergencyContactName)
	applyString(patch.EmergencyContactPhone, &e.EmergencyContactPhone)
	applyString(patch.Education, &e.Education)
	if patch.DepartmentID.Present {
		if patch.DepartmentID.Null {
			e.DepartmentID = nil
		} else {
			v := patch.DepartmentID.Value
			e.DepartmentID = &v
		}
	}
	if patch.Status.IsSet() {
		e.Status = EmployeeStatus(patch.Status.Value)
	}
	e.UpdatedAt = time.Now().UTC()
	cp := *e
	return &cp, nil
}

func (s memEmployees) Delete(_ context.Context, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.employees[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.employees, id)
	return nil
}

func (s memEmployees) CountActiveByDepartment(_ context.Context, departmentID int64) (int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	n := 0
	for _, e := range s.m.employees {
		if e.DepartmentID != nil && *e.DepartmentID == departmentID && e.Status == EmployeeActive {
			n++
		}
	}
	return n, nil
}

type memDepartments struct{ m *InMemory }

func (s memDepartments) Create(_ context.Context, d *Department) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, other := range s.m.departments {
		if other.CompanyID == d.CompanyID && other.Name == d.Name {
			return ErrConflict
		}
	}
	d.ID = s.m.id()
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	cp := *d
	s.m.departments[d.ID] = &cp
	return nil
}

func (s memDepartments) Find(_ context.Context, id int64) (*Department, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	d, ok := s.m.departments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s memDepartments) FindDetail(_ context.Context, id int64) (*DepartmentDetail, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	d, ok := s.m.departments[id]
	if !ok {
		return nil, ErrNotFound
	}
	detail := &DepartmentDetail{Department: *d}
	if c, ok := s.m.companies[d.CompanyID]; ok {
		detail.CompanyName = c.Name
	}
	if d.ManagerID != nil {
		if mgr, ok := s.m.employees[*d.ManagerID]; ok {
			detail.ManagerName = mgr.FullName()
		}
	}
	return detail, nil
}

func (s memDepartments) ListByCompany(_ context.Context, companyID int64) ([]*Department, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]*Department, 0)
	for _, d := range s.m.departments {
		if d.CompanyID == companyID {
			cp := *d
			out = append(out, &cp)
		}
	}
	sortByID(out, func(d *Department) int64 { return d.ID })
	return out, nil
}

func (s memDepartments) NameExists(_ context.Context, companyID int64, name string, excludeID int64) (bool, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	for _, d := range s.m.departments {
		if d.ID != excludeID && d.CompanyID == companyID && d.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s memDepartments) Update(_ context.Context, id int64, patch DepartmentPatch) (*Department, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	d, ok := s.m.departments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Name.IsSet() {
		d.Name = patch.Name.Value
	}
	if patch.Description.Present {
		if patch.Description.Null {
			d.Description = ""
		} else {
			d.Description = patch.Description.Value
		}
	}
	if patch.ManagerID.Present {
		if patch.ManagerID.Null {
			d.ManagerID = nil
		} else {
			v := patch.ManagerID.Value
			d.ManagerID = &v
		}
	}
	d.UpdatedAt = time.Now().UTC()
	cp := *d
	return &cp, nil
}

func (s memDepartments) Delete(_ context.Context, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.departments[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.departments, id)
	return nil
}

type memLeave struct{ m *InMemory }

func (s memLeave) Create(_ context.Context, lr *LeaveRequest) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	lr.ID = s.m.id()
	now := time.Now().UTC()
	lr.CreatedAt, lr.UpdatedAt = now, now
	cp := *lr
	s.m.leave[lr.ID] = &cp
	return nil
}

func (s memLeave) Find(_ context.Context, id int64) (*LeaveRequest, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	lr, ok := s.m.leave[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *lr
	return &cp, nil
}

func (s memLeave) ListByCompany(_ context.Context, companyID, employeeID int64) ([]*LeaveRequest, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]*LeaveRequest, 0)
	for _, lr := range s.m.leave {
		if lr.CompanyID != companyID {
			continue
		}
		if employeeID != 0 && lr.EmployeeID != employeeID {
			continue
		}
		cp := *lr
		out = append(out, &cp)
	}
	sortByID(out, func(lr *LeaveRequest) int64 { return lr.ID })
	return out, nil
}

func (s memLeave) SetStatus(_ context.Context, id int64, status LeaveStatus, decidedBy int64, decidedAt time.Time) (*LeaveRequest, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	lr, ok := s.m.leave[id]
	if !ok {
		return nil, ErrNotFound
	}
	lr.Status = status
	lr.DecidedBy = &decidedBy
	lr.DecidedAt = &decidedAt
	lr.UpdatedAt = time.Now().UTC()
	cp := *lr
	return &cp, nil
}

type memTransactions struct{ m *InMemory }

func (s memTransactions) Create(_ context.Context, t *Transaction) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t.ID = s.m.id()
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	cp := *t
	s.m.transactions[t.ID] = &cp
	return nil
}

func (s memTransactions) Find(_ context.Context, id int64) (*Transaction, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	t, ok := s.m.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s memTransactions) ListByCompany(_ context.Context, companyID int64) ([]*Transaction, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]*Transaction, 0)
	for _, t := range s.m.transactions {
		if t.CompanyID == companyID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sortByID(out, func(t *Transaction) int64 { return t.ID })
	return out, nil
}

func (s memTransactions) Update(_ context.Context, id int64, patch TransactionPatch) (*Transaction, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	t, ok := s.m.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Kind.IsSet() {
		t.Kind = TransactionKind(patch.Kind.Value)
	}
	if patch.AmountCents.IsSet() {
		t.AmountCents = patch.AmountCents.Value
	}
	if patch.Currency.IsSet() {
		t.Currency = patch.Currency.Value
	}
	if patch.Description.Present {
		if patch.Description.Null {
			t.Description = ""
		} else {
			t.Description = patch.Description.Value
		}
	}
	if patch.OccurredOn.IsSet() {
		t.OccurredOn = patch.OccurredOn.Value
	}
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	return &cp, nil
}

func (s memTransactions) Delete(_ context.Context, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.transactions[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.transactions, id)
	return nil
}

type memEvents struct{ m *InMemory }

func (s memEvents) Create(_ context.Context, e *Event) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	e.ID = s.m.id()
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	cp := *e
	s.m.events[e.ID] = &cp
	return nil
}

func (s memEvents) Find(_ context.Context, id int64) (*Event, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	e, ok := s.m.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s memEvents) ListByCompany(_ context.Context, companyID int64) ([]*Event, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]*Event, 0)
	for _, e := range s.m.events {
		if e.CompanyID == companyID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sortByID(out, func(e *Event) int64 { return e.ID })
	return out, nil
}

func (s memEvents) Update(_ context.Context, id int64, patch EventPatch) (*Event, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	e, ok := s.m.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Title.IsSet() {
		e.Title = patch.Title.Value
	}
	if patch.Description.Present {
		if patch.Description.Null {
			e.Description = ""
		} else {
			e.Description = patch.Description.Value
		}
	}
	if patch.Location.Present {
		if patch.Location.Null {
			e.Location = ""
		} else {
			e.Location = patch.Location.Value
		}
	}
	if patch.StartsAt.IsSet() {
		e.StartsAt = patch.StartsAt.Value.UTC()
	}
	if patch.EndsAt.IsSet() {
		e.EndsAt = patch.EndsAt.Value.UTC()
	}
	e.UpdatedAt = time.Now().UTC()
	cp := *e
	return &cp, nil
}

func (s memEvents) Delete(_ context.Context, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.events[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.events, id)
	return nil
}

type memMedia struct{ m *InMemory }

func (s memMedia) Create(_ context.Context, item *MediaItem) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	item.ID = s.m.id()
	item.CreatedAt = time.Now().UTC()
	cp := *item
	s.m.media[item.ID] = &cp
	return nil
}

func (s memMedia) Find(_ context.Context, id int64) (*MediaItem, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	item, ok := s.m.media[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (s memMedia) ListByCompany(_ context.Context, companyID int64) ([]*MediaItem, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]*MediaItem, 0)
	for _, item := range s.m.media {
		if item.CompanyID == companyID {
			cp := *item
			out = append(out, &cp)
		}
	}
	sortByID(out, func(item *MediaItem) int64 { return item.ID })
	return out, nil
}

func (s memMedia) Delete(_ context.Context, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.media[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.media, id)
	return nil
}

type memDocuments struct{ m *InMemory }

func (s memDocuments) Create(_ context.Context, d *Document) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	d.ID = s.m.id()
	d.CreatedAt = time.Now().UTC()
	cp := *d
	s.m.documents[d.ID] = &cp
	return nil
}

func (s memDocuments) Find(_ context.Context, id int64) (*Document, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	d, ok := s.m.documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s memDocuments) ListByCompany(_ context.Context, companyID int64) ([]*Document, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	out := make([]*Document, 0)
	for _, d := range s.m.documents {
		if d.CompanyID == companyID {
			cp := *d
			out = append(out, &cp)
		}
	}
	sortByID(out, func(d *Document) int64 { return d.ID })
	return out, nil
}

func (s memDocuments) Delete(_ context.Context, id int64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.documents[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.documents, id)
	return nil
}

func sortByID[T any](items []*T, id func(*T) int64) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
