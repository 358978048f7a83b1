package auth

import (
	"fmt"
	"strings"
)

// Role is the canonical role enum. The legacy server-side values "manager" and
// "employee" are accepted on input and reconciled in ParseRole.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleHRManager       Role = "hr_manager"
	RoleFinanceManager  Role = "finance_manager"
	RoleBusinessManager Role = "business_manager"
	RoleTalentManager   Role = "talent_manager"
	RoleCommsManager    Role = "comms_manager"
	RoleStaff           Role = "staff"
)

// Permission keys, one per discrete capability. The *_module_access keys gate
// read access to a functional area; the manage_* keys gate mutations.
const (
	PermHRModule           = "hr_module_access"
	PermManageEmployees    = "manage_employees"
	PermManageDepartments  = "manage_departments"
	PermManageLeave        = "manage_leave"
	PermFinanceModule      = "finance_module_access"
	PermManageTransactions = "manage_transactions"
	PermBusinessModule     = "business_module_access"
	PermManageEvents       = "manage_events"
	PermTalentModule       = "talent_module_access"
	PermCommsModule        = "comms_module_access"
	PermManageMedia        = "manage_media"
	PermManageDocuments    = "manage_documents"
	PermViewOwnProfile     = "view_own_profile"
	PermRequestLeave       = "request_leave"
)

// ParseRole normalizes a stored role value, folding the legacy enum into the
// canonical one. Unknown values are rejected.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleHRManager:
		return RoleHRManager, nil
	case RoleFinanceManager:
		return RoleFinanceManager, nil
	case RoleBusinessManager, "manager":
		return RoleBusinessManager, nil
	case RoleTalentManager:
		return RoleTalentManager, nil
	case RoleCommsManager:
		return RoleCommsManager, nil
	case RoleStaff, "employee":
		return RoleStaff, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Policy is an immutable role-to-permission table, built once at startup and
// injected into the authorization gate.
type Policy struct {
	grants map[Role][]string
}

// DefaultPolicy returns the built-in permission table. Every role maps to a
// non-empty set; admin additionally passes every check regardless of its list.
func DefaultPolicy() *Policy {
	return NewPolicy(map[Role][]string{
		RoleAdmin: {
			PermHRModule, PermManageEmployees, PermManageDepartments, PermManageLeave,
			PermFinanceModule, PermManageTransactions,
			PermBusinessModule, PermManageEvents,
			PermTalentModule, PermCommsModule, PermManageMedia, PermManageDocuments,
		},
		RoleHRManager:       {PermHRModule, PermManageEmployees, PermManageDepartments, PermManageLeave},
		RoleFinanceManager:  {PermFinanceModule, PermManageTransactions},
		RoleBusinessManager: {PermBusinessModule, PermManageEvents, PermManageDocuments},
		RoleTalentManager:   {PermTalentModule, PermManageDocuments},
		RoleCommsManager:    {PermCommsModule, PermManageMedia},
		RoleStaff:           {PermViewOwnProfile, PermRequestLeave},
	})
}

// NewPolicy copies the provided grants so later mutation of the input cannot
// change authorization behavior.
func NewPolicy(grants map[Role][]string) *Policy {
	copied := make(map[Role][]string, len(grants))
	for role, perms := range grants {
		list := make([]string, len(perms))
		copy(list, perms)
		copied[role] = list
	}
	return &Policy{grants: copied}
}

// Permissions returns the permission set for a role. The result is a copy.
func (p *Policy) Permissions(role Role) []string {
	perms := p.grants[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// Allows reports whether the role holds the permission. Admin always does.
func (p *Policy) Allows(role Role, perm string) bool {
	if role == RoleAdmin {
		return true
	}
	for _, granted := range p.grants[role] {
		if granted == perm {
			return true
		}
	}
	return false
}

// AllowsAny reports whether the role holds at least one of the permissions.
func (p *Policy) AllowsAny(role Role, perms ...string) bool {
	for _, perm := range perms {
		if p.Allows(role, perm) {
			return true
		}
	}
	return false
}
