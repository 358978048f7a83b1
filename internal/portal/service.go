package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/auth"
)

const dateLayout = "2006-01-02"

// Service provides the portal's business operations over a Store. Row-level
// authorization (company ownership) is enforced here, once, via
// auth.Principal.CanAccess; module-level permission checks belong to the HTTP
// gate.
type Service struct {
	store Store
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service.
func NewService(store Store, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("portal store is required")
	}
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login authenticates credentials. All failure modes collapse into
// ErrUnauthorized so the response never reveals which check failed.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrUnauthorized
	}
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if !user.Active {
		return nil, ErrUnauthorized
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrUnauthorized
	}
	role, err := auth.ParseRole(string(user.Role))
	if err != nil {
		return nil, ErrUnauthorized
	}
	user.Role = role
	return user, nil
}

// Identify resolves a verified token subject into a principal. The user must
// exist, be active, and carry a role ParseRole accepts; legacy role values are
// folded into the canonical enum here so the policy table only ever sees
// canonical roles. A linked active employee profile is attached when present,
// and its absence is not an error.
func (s *Service) Identify(ctx context.Context, userID int64) (auth.Principal, *User, *Employee, error) {
	user, err := s.store.Users().Find(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.Principal{}, nil, nil, ErrUnauthorized
		}
		return auth.Principal{}, nil, nil, err
	}
	if !user.Active {
		return auth.Principal{}, nil, nil, ErrUnauthorized
	}
	role, err := auth.ParseRole(string(user.Role))
	if err != nil {
		return auth.Principal{}, nil, nil, ErrUnauthorized
	}
	user.Role = role
	principal := auth.Principal{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Email:     user.Email,
		Role:      role,
	}
	employee, err := s.store.Employees().FindByUserID(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return auth.Principal{}, nil, nil, err
		}
		return principal, user, nil, nil
	}
	if employee.Status != EmployeeActive {
		return principal, user, nil, nil
	}
	principal.EmployeeID = employee.ID
	return principal, user, employee, nil
}

// Departments ---------------------------------------------------------------

// CreateDepartmentInput carries fields for a new department. CompanyID zero
// defaults to the actor's company.
type CreateDepartmentInput struct {
	CompanyID   int64  `json:"company_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerID   *int64 `json:"manager_id"`
}

func (s *Service) CreateDepartment(ctx context.Context, actor auth.Principal, in CreateDepartmentInput) (*Department, error) {
	if in.CompanyID == 0 {
		in.CompanyID = actor.CompanyID
	}
	if !actor.CanAccess(in.CompanyID) {
		return nil, ErrForbidden
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: department name is required", ErrInvalidInput)
	}
	exists, err := s.store.Departments().NameExists(ctx, in.CompanyID, in.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: a department named %q already exists", ErrConflict, in.Name)
	}
	if in.ManagerID != nil {
		if err := s.validateManager(ctx, in.CompanyID, *in.ManagerID); err != nil {
			return nil, err
		}
	}
	dept := &Department{
		CompanyID:   in.CompanyID,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		ManagerID:   in.ManagerID,
	}
	if err := s.store.Departments().Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *Service) GetDepartment(ctx context.Context, actor auth.Principal, id int64) (*DepartmentDetail, error) {
	detail, err := s.store.Departments().FindDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(detail.CompanyID) {
		return nil, ErrForbidden
	}
	return detail, nil
}

func (s *Service) ListDepartments(ctx context.Context, actor auth.Principal, companyID int64) ([]*Department, error) {
	if companyID == 0 {
		companyID = actor.CompanyID
	}
	if !actor.CanAccess(companyID) {
		return nil, ErrForbidden
	}
	return s.store.Departments().ListByCompany(ctx, companyID)
}

// UpdateDepartment applies a partial update and returns the previous and
// updated rows so the caller can audit both snapshots.
func (s *Service) UpdateDepartment(ctx context.Context, actor auth.Principal, id int64, patch DepartmentPatch) (*Department, *Department, error) {
	old, err := s.store.Departments().Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.CanAccess(old.CompanyID) {
		return nil, nil, ErrForbidden
	}
	if !patch.HasFields() {
		return nil, nil, fmt.Errorf("%w: no valid fields to update", ErrInvalidInput)
	}
	if patch.Name.Present {
		if patch.Name.Null {
			return nil, nil, fmt.Errorf("%w: department name cannot be null", ErrInvalidInput)
		}
		name := strings.TrimSpace(patch.Name.Value)
		if name == "" {
			return nil, nil, fmt.Errorf("%w: department name is required", ErrInvalidInput)
		}
		patch.Name.Value = name
		if name != old.Name {
			exists, err := s.store.Departments().NameExists(ctx, old.CompanyID, name, id)
			if err != nil {
				return nil, nil, err
			}
			if exists {
				return nil, nil, fmt.Errorf("%w: a department named %q already exists", ErrConflict, name)
			}
		}
	}
	if patch.ManagerID.IsSet() {
		if err := s.validateManager(ctx, old.CompanyID, patch.ManagerID.Value); err != nil {
			return nil, nil, err
		}
	}
	updated, err := s.store.Departments().Update(ctx, id, patch)
	if err != nil {
		return nil, nil, err
	}
	return old, updated, nil
}

// DeleteDepartment refuses to remove a department while active employees
// remain assigned; the client is told to reassign them first.
func (s *Service) DeleteDepartment(ctx context.Context, actor auth.Principal, id int64) (*Department, error) {
	old, err := s.store.Departments().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(old.CompanyID) {
		return nil, ErrForbidden
	}
	count, err := s.store.Employees().CountActiveByDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: department has %d active employees; reassign them before deleting", ErrInvalidInput, count)
	}
	if err := s.store.Departments().Delete(ctx, id); err != nil {
		return nil, err
	}
	return old, nil
}

// validateManager requires the referenced manager to be an active employee of
// the same company.
func (s *Service) validateManager(ctx context.Context, companyID, managerID int64) error {
	manager, err := s.store.Employees().Find(ctx, managerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: manager does not exist", ErrInvalidInput)
		}
		return err
	}
	if manager.CompanyID != companyID {
		return fmt.Errorf("%w: manager must belong to the same company", ErrInvalidInput)
	}
	if manager.Status != EmployeeActive {
		return fmt.Errorf("%w: manager must be an active employee", ErrInvalidInput)
	}
	return nil
}

// Employees ------------------------------------------------------------------

// CreateEmployeeInput carries fields for a new HR profile.
type CreateEmployeeInput struct {
	CompanyID             int64  `json:"company_id"`
	UserID                *int64 `json:"user_id"`
	DepartmentID          *int64 `json:"department_id"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	JobTitle              string `json:"job_title"`
	HireDate              string `json:"hire_date"`
	Address               string `json:"address"`
	EmergencyContactName  string `json:"emergency_contact_name"`
	EmergencyContactPhone string `json:"emergency_contact_phone"`
	Education             string `json:"education"`
}

func (s *Service) CreateEmployee(ctx context.Context, actor auth.Principal, in CreateEmployeeInput) (*Employee, error) {
	if in.CompanyID == 0 {
		in.CompanyID = actor.CompanyID
	}
	if !actor.CanAccess(in.CompanyID) {
		return nil, ErrForbidden
	}
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.FirstName == "" || in.LastName == "" {
		return nil, fmt.Errorf("%w: first_name and last_name are required", ErrInvalidInput)
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if in.HireDate != "" {
		if _, err := time.Parse(dateLayout, in.HireDate); err != nil {
			return nil, fmt.Errorf("%w: hire_date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	if in.DepartmentID != nil {
		if err := s.validateDepartmentRef(ctx, in.CompanyID, *in.DepartmentID); err != nil {
			return nil, err
		}
	}
	emp := &Employee{
		CompanyID:             in.CompanyID,
		UserID:                in.UserID,
		DepartmentID:          in.DepartmentID,
		FirstName:             in.FirstName,
		LastName:              in.LastName,
		Email:                 in.Email,
		Phone:                 strings.TrimSpace(in.Phone),
		JobTitle:              strings.TrimSpace(in.JobTitle),
		HireDate:              in.HireDate,
		Address:               strings.TrimSpace(in.Address),
		EmergencyContactName:  strings.TrimSpace(in.EmergencyContactName),
		EmergencyContactPhone: strings.TrimSpace(in.EmergencyContactPhone),
		Education:             strings.TrimSpace(in.Education),
		Status:                EmployeeActive,
	}
	if err := s.store.Employees().Create(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *Service) GetEmployee(ctx context.Context, actor auth.Principal, id int64) (*Employee, error) {
	emp, err := s.store.Employees().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(emp.CompanyID) {
		return nil, ErrForbidden
	}
	return emp, nil
}

// GetOwnEmployee serves the staff self-info path.
func (s *Service) GetOwnEmployee(ctx context.Context, actor auth.Principal) (*Employee, error) {
	emp, err := s.store.Employees().FindByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *Service) ListEmployees(ctx context.Context, actor auth.Principal, companyID int64) ([]*Employee, error) {
	if companyID == 0 {
		companyID = actor.CompanyID
	}
	if !actor.CanAccess(companyID) {
		return nil, ErrForbidden
	}
	return s.store.Employees().ListByCompany(ctx, companyID)
}

func (s *Service) UpdateEmployee(ctx context.Context, actor auth.Principal, id int64, patch EmployeePatch) (*Employee, *Employee, error) {
	old, err := s.store.Employees().Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.CanAccess(old.CompanyID) {
		return nil, nil, ErrForbidden
	}
	if !patch.HasFields() {
		return nil, nil, fmt.Errorf("%w: no valid fields to update", ErrInvalidInput)
	}
	if patch.FirstName.Present && (patch.FirstName.Null || strings.TrimSpace(patch.FirstName.Value) == "") {
		return nil, nil, fmt.Errorf("%w: first_name cannot be empty", ErrInvalidInput)
	}
	if patch.LastName.Present && (patch.LastName.Null || strings.TrimSpace(patch.LastName.Value) == "") {
		return nil, nil, fmt.Errorf("%w: last_name cannot be empty", ErrInvalidInput)
	}
	if patch.Email.Present {
		if patch.Email.Null {
			return nil, nil, fmt.Errorf("%w: email cannot be null", ErrInvalidInput)
		}
		email := strings.TrimSpace(strings.ToLower(patch.Email.Value))
		if email == "" || !strings.Contains(email, "@") {
			return nil, nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
		}
		patch.Email.Value = email
	}
	if patch.HireDate.IsSet() && patch.HireDate.Value != "" {
		if _, err := time.Parse(dateLayout, patch.HireDate.Value); err != nil {
			return nil, nil, fmt.Errorf("%w: hire_date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	if patch.Status.Present {
		if patch.Status.Null {
			return nil, nil, fmt.Errorf("%w: status cannot be null", ErrInvalidInput)
		}
		if _, ok := ParseEmployeeStatus(patch.Status.Value); !ok {
			return nil, nil, fmt.Errorf("%w: unsupported status %q", ErrInvalidInput, patch.Status.Value)
		}
	}
	if patch.DepartmentID.IsSet() {
		if err := s.validateDepartmentRef(ctx, old.CompanyID, patch.DepartmentID.Value); err != nil {
			return nil, nil, err
		}
	}
	updated, err := s.store.Employees().Update(ctx, id, patch)
	if err != nil {
		return nil, nil, err
	}
	return old, updated, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, actor auth.Principal, id int64) (*Employee, error) {
	old, err := s.store.Employees().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(old.CompanyID) {
		return nil, ErrForbidden
	}
	if err := s.store.Employees().Delete(ctx, id); err != nil {
		return nil, err
	}
	return old, nil
}

func (s *Service) validateDepartmentRef(ctx context.Context, companyID, departmentID int64) error {
	dept, err := s.store.Departments().Find(ctx, departmentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: department does not exist", ErrInvalidInput)
		}
		return err
	}
	if dept.CompanyID != companyID {
		return fmt.Errorf("%w: department must belong to the same company", ErrInvalidInput)
	}
	return nil
}

// Leave ----------------------------------------------------------------------

// CreateLeaveInput carries fields for a new leave request. Staff may only file
// for themselves; EmployeeID zero resolves to the actor's own profile.
type CreateLeaveInput struct {
	EmployeeID int64  `json:"employee_id"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

func (s *Service) CreateLeaveRequest(ctx context.Context, actor auth.Principal, in CreateLeaveInput) (*LeaveRequest, error) {
	if in.EmployeeID == 0 {
		in.EmployeeID = actor.EmployeeID
	}
	if in.EmployeeID == 0 {
		return nil, fmt.Errorf("%w: employee_id is required", ErrInvalidInput)
	}
	if actor.Role == auth.RoleStaff && in.EmployeeID != actor.EmployeeID {
		return nil, ErrForbidden
	}
	emp, err := s.store.Employees().Find(ctx, in.EmployeeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: employee does not exist", ErrInvalidInput)
		}
		return nil, err
	}
	if !actor.CanAccess(emp.CompanyID) {
		return nil, ErrForbidden
	}
	in.Type = strings.TrimSpace(in.Type)
	if in.Type == "" {
		return nil, fmt.Errorf("%w: leave type is required", ErrInvalidInput)
	}
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD", ErrInvalidInput)
	}
	end, err := time.Parse(dateLayout, in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date precedes start_date", ErrInvalidInput)
	}
	lr := &LeaveRequest{
		CompanyID:  emp.CompanyID,
		EmployeeID: emp.ID,
		Type:       in.Type,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Reason:     strings.TrimSpace(in.Reason),
		Status:     LeavePending,
	}
	if err := s.store.Leave().Create(ctx, lr); err != nil {
		return nil, err
	}
	return lr, nil
}

func (s *Service) GetLeaveRequest(ctx context.Context, actor auth.Principal, id int64) (*LeaveRequest, error) {
	lr, err := s.store.Leave().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(lr.CompanyID) {
		return nil, ErrForbidden
	}
	if actor.Role == auth.RoleStaff && lr.EmployeeID != actor.EmployeeID {
		return nil, ErrForbidden
	}
	return lr, nil
}

func (s *Service) ListLeaveRequests(ctx context.Context, actor auth.Principal, employeeID int64) ([]*LeaveRequest, error) {
	if actor.Role == auth.RoleStaff {
		if actor.EmployeeID == 0 {
			return nil, nil
		}
		employeeID = actor.EmployeeID
	}
	return s.store.Leave().ListByCompany(ctx, actor.CompanyID, employeeID)
}

// DecideLeaveRequest moves a pending request to approved or rejected. Any
// other starting state conflicts.
func (s *Service) DecideLeaveRequest(ctx context.Context, actor auth.Principal, id int64, approve bool) (*LeaveRequest, *LeaveRequest, error) {
	old, err := s.store.Leave().Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.CanAccess(old.CompanyID) {
		return nil, nil, ErrForbidden
	}
	if old.Status != LeavePending {
		return nil, nil, fmt.Errorf("%w: leave request already %s", ErrConflict, old.Status)
	}
	status := LeaveRejected
	if approve {
		status = LeaveApproved
	}
	updated, err := s.store.Leave().SetStatus(ctx, id, status, actor.UserID, s.now().UTC())
	if err != nil {
		return nil, nil, err
	}
	return old, updated, nil
}

// Transactions ---------------------------------------------------------------

type CreateTransactionInput struct {
	CompanyID   int64  `json:"company_id"`
	Kind        string `json:"kind"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	OccurredOn  string `json:"occurred_on"`
}

func (s *Service) CreateTransaction(ctx context.Context, actor auth.Principal, in CreateTransactionInput) (*Transaction, error) {
	if in.CompanyID == 0 {
		in.CompanyID = actor.CompanyID
	}
	if !actor.CanAccess(in.CompanyID) {
		return nil, ErrForbidden
	}
	kind := TransactionKind(strings.TrimSpace(strings.ToLower(in.Kind)))
	if kind != TransactionIncome && kind != TransactionExpense {
		return nil, fmt.Errorf("%w: kind must be income or expense", ErrInvalidInput)
	}
	if in.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amount_cents must be > 0", ErrInvalidInput)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" || len(currency) > 8 {
		return nil, fmt.Errorf("%w: currency is required", ErrInvalidInput)
	}
	if _, err := time.Parse(dateLayout, in.OccurredOn); err != nil {
		return nil, fmt.Errorf("%w: occurred_on must be YYYY-MM-DD", ErrInvalidInput)
	}
	tx := &Transaction{
		CompanyID:   in.CompanyID,
		Kind:        kind,
		AmountCents: in.AmountCents,
		Currency:    currency,
		Description: strings.TrimSpace(in.Description),
		OccurredOn:  in.OccurredOn,
		CreatedBy:   actor.UserID,
	}
	if err := s.store.Transactions().Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *Service) GetTransaction(ctx context.Context, actor auth.Principal, id int64) (*Transaction, error) {
	tx, err := s.store.Transactions().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(tx.CompanyID) {
		return nil, ErrForbidden
	}
	return tx, nil
}

func (s *Service) ListTransactions(ctx context.Context, actor auth.Principal, companyID int64) ([]*Transaction, error) {
	if companyID == 0 {
		companyID = actor.CompanyID
	}
	if !actor.CanAccess(companyID) {
		return nil, ErrForbidden
	}
	return s.store.Transactions().ListByCompany(ctx, companyID)
}

func (s *Service) UpdateTransaction(ctx context.Context, actor auth.Principal, id int64, patch TransactionPatch) (*Transaction, *Transaction, error) {
	old, err := s.store.Transactions().Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.CanAccess(old.CompanyID) {
		return nil, nil, ErrForbidden
	}
	if !patch.HasFields() {
		return nil, nil, fmt.Errorf("%w: no valid fields to update", ErrInvalidInput)
	}
	if patch.Kind.Present {
		kind := TransactionKind(strings.TrimSpace(strings.ToLower(patch.Kind.Value)))
		if patch.Kind.Null || (kind != TransactionIncome && kind != TransactionExpense) {
			return nil, nil, fmt.Errorf("%w: kind must be income or expense", ErrInvalidInput)
		}
		patch.Kind.Value = string(kind)
	}
	if patch.AmountCents.Present && (patch.AmountCents.Null || patch.AmountCents.Value <= 0) {
		return nil, nil, fmt.Errorf("%w: amount_cents must be > 0", ErrInvalidInput)
	}
	if patch.Currency.Present {
		currency := strings.ToUpper(strings.TrimSpace(patch.Currency.Value))
		if patch.Currency.Null || currency == "" || len(currency) > 8 {
			return nil, nil, fmt.Errorf("%w: currency is required", ErrInvalidInput)
		}
		patch.Currency.Value = currency
	}
	if patch.OccurredOn.Present {
		if patch.OccurredOn.Null {
			return nil, nil, fmt.Errorf("%w: occurred_on cannot be null", ErrInvalidInput)
		}
		if _, err := time.Parse(dateLayout, patch.OccurredOn.Value); err != nil {
			return nil, nil, fmt.Errorf("%w: occurred_on must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	updated, err := s.store.Transactions().Update(ctx, id, patch)
	if err != nil {
		return nil, nil, err
	}
	return old, updated, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, actor auth.Principal, id int64) (*Transaction, error) {
	old, err := s.store.Transactions().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(old.CompanyID) {
		return nil, ErrForbidden
	}
	if err := s.store.Transactions().Delete(ctx, id); err != nil {
		return nil, err
	}
	return old, nil
}

// Events ---------------------------------------------------------------------

type CreateEventInput struct {
	CompanyID   int64     `json:"company_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

func (s *Service) CreateEvent(ctx context.Context, actor auth.Principal, in CreateEventInput) (*Event, error) {
	if in.CompanyID == 0 {
		in.CompanyID = actor.CompanyID
	}
	if !actor.CanAccess(in.CompanyID) {
		return nil, ErrForbidden
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: event title is required", ErrInvalidInput)
	}
	if in.StartsAt.IsZero() || in.EndsAt.IsZero() {
		return nil, fmt.Errorf("%w: starts_at and ends_at are required", ErrInvalidInput)
	}
	if in.EndsAt.Before(in.StartsAt) {
		return nil, fmt.Errorf("%w: ends_at precedes starts_at", ErrInvalidInput)
	}
	event := &Event{
		CompanyID:   in.CompanyID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		StartsAt:    in.StartsAt.UTC(),
		EndsAt:      in.EndsAt.UTC(),
		CreatedBy:   actor.UserID,
	}
	if err := s.store.Events().Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *Service) GetEvent(ctx context.Context, actor auth.Principal, id int64) (*Event, error) {
	event, err := s.store.Events().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(event.CompanyID) {
		return nil, ErrForbidden
	}
	return event, nil
}

func (s *Service) ListEvents(ctx context.Context, actor auth.Principal, companyID int64) ([]*Event, error) {
	if companyID == 0 {
		companyID = actor.CompanyID
	}
	if !actor.CanAccess(companyID) {
		return nil, ErrForbidden
	}
	return s.store.Events().ListByCompany(ctx, companyID)
}

func (s *Service) UpdateEvent(ctx context.Context, actor auth.Principal, id int64, patch EventPatch) (*Event, *Event, error) {
	old, err := s.store.Events().Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.CanAccess(old.CompanyID) {
		return nil, nil, ErrForbidden
	}
	if !patch.HasFields() {
		return nil, nil, fmt.Errorf("%w: no valid fields to update", ErrInvalidInput)
	}
	if patch.Title.Present && (patch.Title.Null || strings.TrimSpace(patch.Title.Value) == "") {
		return nil, nil, fmt.Errorf("%w: event title cannot be empty", ErrInvalidInput)
	}
	starts := old.StartsAt
	ends := old.EndsAt
	if patch.StartsAt.IsSet() {
		starts = patch.StartsAt.Value
	}
	if patch.EndsAt.IsSet() {
		ends = patch.EndsAt.Value
	}
	if ends.Before(starts) {
		return nil, nil, fmt.Errorf("%w: ends_at precedes starts_at", ErrInvalidInput)
	}
	updated, err := s.store.Events().Update(ctx, id, patch)
	if err != nil {
		return nil, nil, err
	}
	return old, updated, nil
}

func (s *Service) DeleteEvent(ctx context.Context, actor auth.Principal, id int64) (*Event, error) {
	old, err := s.store.Events().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(old.CompanyID) {
		return nil, ErrForbidden
	}
	if err := s.store.Events().Delete(ctx, id); err != nil {
		return nil, err
	}
	return old, nil
}

// Media ----------------------------------------------------------------------

type CreateMediaInput struct {
	CompanyID int64  `json:"company_id"`
	Title     string `json:"title"`
	Kind      string `json:"kind"`
	URL       string `json:"url"`
	SizeBytes int64  `json:"size_bytes"`
}

func (s *Service) CreateMediaItem(ctx context.Context, actor auth.Principal, in CreateMediaInput) (*MediaItem, error) {
	if in.CompanyID == 0 {
		in.CompanyID = actor.CompanyID
	}
	if !actor.CanAccess(in.CompanyID) {
		return nil, ErrForbidden
	}
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	if in.Title == "" || in.URL == "" {
		return nil, fmt.Errorf("%w: title and url are required", ErrInvalidInput)
	}
	if in.SizeBytes < 0 {
		return nil, fmt.Errorf("%w: size_bytes must be >= 0", ErrInvalidInput)
	}
	item := &MediaItem{
		CompanyID:  in.CompanyID,
		Title:      in.Title,
		Kind:       strings.TrimSpace(in.Kind),
		URL:        in.URL,
		SizeBytes:  in.SizeBytes,
		UploadedBy: actor.UserID,
	}
	if err := s.store.Media().Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) GetMediaItem(ctx context.Context, actor auth.Principal, id int64) (*MediaItem, error) {
	item, err := s.store.Media().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(item.CompanyID) {
		return nil, ErrForbidden
	}
	return item, nil
}

func (s *Service) ListMediaItems(ctx context.Context, actor auth.Principal, companyID int64) ([]*MediaItem, error) {
	if companyID == 0 {
		companyID = actor.CompanyID
	}
	if !actor.CanAccess(companyID) {
		return nil, ErrForbidden
	}
	return s.store.Media().ListByCompany(ctx, companyID)
}

func (s *Service) DeleteMediaItem(ctx context.Context, actor auth.Principal, id int64) (*MediaItem, error) {
	old, err := s.store.Media().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(old.CompanyID) {
		return nil, ErrForbidden
	}
	if err := s.store.Media().Delete(ctx, id); err != nil {
		return nil, err
	}
	return old, nil
}

// Documents ------------------------------------------------------------------

type CreateDocumentInput struct {
	CompanyID       int64  `json:"company_id"`
	Title           string `json:"title"`
	Category        string `json:"category"`
	URL             string `json:"url"`
	OwnerEmployeeID *int64 `json:"owner_employee_id"`
}

func (s *Service) CreateDocument(ctx context.Context, actor auth.Principal, in CreateDocumentInput) (*Document, error) {
	if in.CompanyID == 0 {
		in.CompanyID = actor.CompanyID
	}
	if !actor.CanAccess(in.CompanyID) {
		return nil, ErrForbidden
	}
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	if in.Title == "" || in.URL == "" {
		return nil, fmt.Errorf("%w: title and url are required", ErrInvalidInput)
	}
	if in.OwnerEmployeeID != nil {
		owner, err := s.store.Employees().Find(ctx, *in.OwnerEmployeeID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: owner employee does not exist", ErrInvalidInput)
			}
			return nil, err
		}
		if owner.CompanyID != in.CompanyID {
			return nil, fmt.Errorf("%w: owner must belong to the same company", ErrInvalidInput)
		}
	}
	doc := &Document{
		CompanyID:       in.CompanyID,
		Title:           in.Title,
		Category:        strings.TrimSpace(in.Category),
		URL:             in.URL,
		OwnerEmployeeID: in.OwnerEmployeeID,
		UploadedBy:      actor.UserID,
	}
	if err := s.store.Documents().Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) GetDocument(ctx context.Context, actor auth.Principal, id int64) (*Document, error) {
	doc, err := s.store.Documents().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(doc.CompanyID) {
		return nil, ErrForbidden
	}
	return doc, nil
}

func (s *Service) ListDocuments(ctx context.Context, actor auth.Principal, companyID int64) ([]*Document, error) {
	if companyID == 0 {
		companyID = actor.CompanyID
	}
	if !actor.CanAccess(companyID) {
		return nil, ErrForbidden
	}
	return s.store.Documents().ListByCompany(ctx, companyID)
}

func (s *Service) DeleteDocument(ctx context.Context, actor auth.Principal, id int64) (*Document, error) {
	old, err := s.store.Documents().Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(old.CompanyID) {
		return nil, ErrForbidden
	}
	if err := s.store.Documents().Delete(ctx, id); err != nil {
		return nil, err
	}
	return old, nil
}
