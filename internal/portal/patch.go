package portal

import (
	"encoding/json"
	"time"
)

// Field distinguishes "absent from the request body" from "present and null"
// from "present with a value", which plain pointer fields cannot express.
type Field[T any] struct {
	Present bool
	Null    bool
	Value   T
}

// UnmarshalJSON is only invoked for keys that appear in the body, so Present
// is true whenever it runs.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if string(data) == "null" {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// IsSet reports a non-null value was supplied.
func (f Field[T]) IsSet() bool { return f.Present && !f.Null }

// DepartmentPatch is a partial update; only present fields are written.
type DepartmentPatch struct {
	Name        Field[string] `json:"name"`
	Description Field[string] `json:"description"`
	ManagerID   Field[int64]  `json:"manager_id"`
}

// HasFields reports whether any recognized field was supplied.
func (p DepartmentPatch) HasFields() bool {
	return p.Name.Present || p.Description.Present || p.ManagerID.Present
}

type EmployeePatch struct {
	FirstName             Field[string] `json:"first_name"`
	LastName              Field[string] `json:"last_name"`
	Email                 Field[string] `json:"email"`
	Phone                 Field[string] `json:"phone"`
	JobTitle              Field[string] `json:"job_title"`
	HireDate              Field[string] `json:"hire_date"`
	Address               Field[string] `json:"address"`
	EmergencyContactName  Field[string] `json:"emergency_contact_name"`
	EmergencyContactPhone Field[string] `json:"emergency_contact_phone"`
	Education             Field[string] `json:"education"`
	DepartmentID          Field[int64]  `json:"department_id"`
	Status                Field[string] `json:"status"`
}

func (p EmployeePatch) HasFields() bool {
	return p.FirstName.Present || p.LastName.Present || p.Email.Present ||
		p.Phone.Present || p.JobTitle.Present || p.HireDate.Present ||
		p.Address.Present || p.EmergencyContactName.Present ||
		p.EmergencyContactPhone.Present || p.Education.Present ||
		p.DepartmentID.Present || p.Status.Present
}

type TransactionPatch struct {
	Kind        Field[string] `json:"kind"`
	AmountCents Field[int64]  `json:"amount_cents"`
	Currency    Field[string] `json:"currency"`
	Description Field[string] `json:"description"`
	OccurredOn  Field[string] `json:"occurred_on"`
}

func (p TransactionPatch) HasFields() bool {
	return p.Kind.Present || p.AmountCents.Present || p.Currency.Present ||
		p.Description.Present || p.OccurredOn.Present
}

type EventPatch struct {
	Title       Field[string]    `json:"title"`
	Description Field[string]    `json:"description"`
	Location    Field[string]    `json:"location"`
	StartsAt    Field[time.Time] `json:"starts_at"`
	EndsAt      Field[time.Time] `json:"ends_at"`
}

func (p EventPatch) HasFields() bool {
	return p.Title.Present || p.Description.Present || p.Location.Present ||
		p.StartsAt.Present || p.EndsAt.Present
}
