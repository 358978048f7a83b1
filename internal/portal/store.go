package portal

import (
	"context"
	"time"
)

// Store describes persistence operations required by the portal.
type Store interface {
	Companies() CompanyStore
	Users() UserStore
	Employees() EmployeeStore
	Departments() DepartmentStore
	Leave() LeaveStore
	Transactions() TransactionStore
	Events() EventStore
	Media() MediaStore
	Documents() DocumentStore
}

// CompanyStore reads tenant rows.
type CompanyStore interface {
	Find(ctx context.Context, id int64) (*Company, error)
}

// UserStore reads account rows. Accounts are provisioned by migration seeds
// and admin tooling, not through the portal API.
type UserStore interface {
	Find(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// EmployeeStore manages HR profiles.
type EmployeeStore interface {
	Create(ctx context.Context, e *Employee) error
	Find(ctx context.Context, id int64) (*Employee, error)
	FindByUserID(ctx context.Context, userID int64) (*Employee, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*Employee, error)
	Update(ctx context.Context, id int64, patch EmployeePatch) (*Employee, error)
	Delete(ctx context.Context, id int64) error
	CountActiveByDepartment(ctx context.Context, departmentID int64) (int, error)
}

// DepartmentStore manages departments.
type DepartmentStore interface {
	Create(ctx context.Context, d *Department) error
	Find(ctx context.Context, id int64) (*Department, error)
	FindDetail(ctx context.Context, id int64) (*DepartmentDetail, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*Department, error)
	NameExists(ctx context.Context, companyID int64, name string, excludeID int64) (bool, error)
	Update(ctx context.Context, id int64, patch DepartmentPatch) (*Department, error)
	Delete(ctx context.Context, id int64) error
}

// LeaveStore manages leave requests.
type LeaveStore interface {
	Create(ctx context.Context, lr *LeaveRequest) error
	Find(ctx context.Context, id int64) (*LeaveRequest, error)
	// ListByCompany filters to one employee when employeeID is non-zero.
	ListByCompany(ctx context.Context, companyID, employeeID int64) ([]*LeaveRequest, error)
	SetStatus(ctx context.Context, id int64, status LeaveStatus, decidedBy int64, decidedAt time.Time) (*LeaveRequest, error)
}

// TransactionStore manages finance entries.
type TransactionStore interface {
	Create(ctx context.Context, t *Transaction) error
	Find(ctx context.Context, id int64) (*Transaction, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*Transaction, error)
	Update(ctx context.Context, id int64, patch TransactionPatch) (*Transaction, error)
	Delete(ctx context.Context, id int64) error
}

// EventStore manages calendar entries.
type EventStore interface {
	Create(ctx context.Context, e *Event) error
	Find(ctx context.Context, id int64) (*Event, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*Event, error)
	Update(ctx context.Context, id int64, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, id int64) error
}

// MediaStore manages media library metadata.
type MediaStore interface {
	Create(ctx context.Context, m *MediaItem) error
	Find(ctx context.Context, id int64) (*MediaItem, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*MediaItem, error)
	Delete(ctx context.Context, id int64) error
}

// DocumentStore manages document metadata.
type DocumentStore interface {
	Create(ctx context.Context, d *Document) error
	Find(ctx context.Context, id int64) (*Document, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*Document, error)
	Delete(ctx context.Context, id int64) error
}
