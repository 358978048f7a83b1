package auth

import "context"

// Principal is the resolved identity attached to each authenticated request.
// EmployeeID is zero when the user has no linked employee profile; many roles
// legitimately do not.
type Principal struct {
	UserID     int64
	CompanyID  int64
	Email      string
	Role       Role
	EmployeeID int64
}

// CanAccess is the shared row-level authorization rule: admins reach every
// company, everyone else only their own.
func (p Principal) CanAccess(companyID int64) bool {
	return p.Role == RoleAdmin || p.CompanyID == companyID
}

type principalContextKey struct{}

// ContextWithPrincipal attaches the authenticated principal to the context.
func ContextWithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, &principal)
}

// PrincipalFromContext extracts the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || v == nil {
		return Principal{}, false
	}
	return *v, true
}
