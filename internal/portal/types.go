package portal

import (
	"errors"
	"time"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/auth"
)

var (
	ErrNotFound     = errors.New("portal: not found")
	ErrConflict     = errors.New("portal: conflict")
	ErrInvalidInput = errors.New("portal: invalid input")
	ErrForbidden    = errors.New("portal: forbidden")
	ErrUnauthorized = errors.New("portal: unauthorized")
)

// Company is the tenant aggregate root.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is an account that can sign in. At most one Employee profile links back
// to a user; most non-HR roles have none.
type User struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"company_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EmployeeStatus enumerates employment states.
type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "active"
	EmployeeInactive   EmployeeStatus = "inactive"
	EmployeeTerminated EmployeeStatus = "terminated"
	EmployeeOnLeave    EmployeeStatus = "on_leave"
)

// ParseEmployeeStatus validates a stored or submitted status value.
func ParseEmployeeStatus(raw string) (EmployeeStatus, bool) {
	switch EmployeeStatus(raw) {
	case EmployeeActive, EmployeeInactive, EmployeeTerminated, EmployeeOnLeave:
		return EmployeeStatus(raw), true
	}
	return "", false
}

// Employee is the HR profile owned by the company/department aggregate.
type Employee struct {
	ID                    int64          `json:"id"`
	UserID                *int64         `json:"user_id,omitempty"`
	CompanyID             int64          `json:"company_id"`
	DepartmentID          *int64         `json:"department_id,omitempty"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
	Email                 string         `json:"email"`
	Phone                 string         `json:"phone,omitempty"`
	JobTitle              string         `json:"job_title,omitempty"`
	HireDate              string         `json:"hire_date,omitempty"` // YYYY-MM-DD
	Address               string         `json:"address,omitempty"`
	EmergencyContactName  string         `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string         `json:"emergency_contact_phone,omitempty"`
	Education             string         `json:"education,omitempty"`
	Status                EmployeeStatus `json:"status"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// FullName is used when enriching department payloads.
func (e *Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// Department belongs to a company; name is unique within the company.
type Department struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ManagerID   *int64    `json:"manager_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DepartmentDetail is a department row enriched with manager and company names.
type DepartmentDetail struct {
	Department
	ManagerName string `json:"manager_name,omitempty"`
	CompanyName string `json:"company_name"`
}

// LeaveStatus is the three-state leave workflow field. The only transitions
// are pending to approved and pending to rejected.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveRequest is an employee absence request.
type LeaveRequest struct {
	ID         int64       `json:"id"`
	CompanyID  int64       `json:"company_id"`
	EmployeeID int64       `json:"employee_id"`
	Type       string      `json:"type"`
	StartDate  string      `json:"start_date"` // YYYY-MM-DD
	EndDate    string      `json:"end_date"`   // YYYY-MM-DD
	Reason     string      `json:"reason,omitempty"`
	Status     LeaveStatus `json:"status"`
	DecidedBy  *int64      `json:"decided_by,omitempty"`
	DecidedAt  *time.Time  `json:"decided_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// TransactionKind enumerates finance entry directions.
type TransactionKind string

const (
	TransactionIncome  TransactionKind = "income"
	TransactionExpense TransactionKind = "expense"
)

// Transaction is a finance ledger entry. Amounts are minor units; no floats.
type Transaction struct {
	ID          int64           `json:"id"`
	CompanyID   int64           `json:"company_id"`
	Kind        TransactionKind `json:"kind"`
	AmountCents int64           `json:"amount_cents"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
	OccurredOn  string          `json:"occurred_on"` // YYYY-MM-DD
	CreatedBy   int64           `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Event is a company calendar entry.
type Event struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"company_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MediaItem is library metadata; byte storage lives elsewhere.
type MediaItem struct {
	ID         int64     `json:"id"`
	CompanyID  int64     `json:"company_id"`
	Title      string    `json:"title"`
	Kind       string    `json:"kind,omitempty"`
	URL        string    `json:"url"`
	SizeBytes  int64     `json:"size_bytes,omitempty"`
	UploadedBy int64     `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// Document is filed paperwork metadata, optionally tied to an employee.
type Document struct {
	ID              int64     `json:"id"`
	CompanyID       int64     `json:"company_id"`
	Title           string    `json:"title"`
	Category        string    `json:"category,omitempty"`
	URL             string    `json:"url"`
	OwnerEmployeeID *int64    `json:"owner_employee_id,omitempty"`
	UploadedBy      int64     `json:"uploaded_by"`
	CreatedAt       time.Time `json:"created_at"`
}
