package auth

import "testing"

func TestParseRoleReconcilesLegacyValues(t *testing.T) {
	cases := map[string]Role{
		"admin":            RoleAdmin,
		"HR_Manager":       RoleHRManager,
		"manager":          RoleBusinessManager,
		"business_manager": RoleBusinessManager,
		"employee":         RoleStaff,
		"staff":            RoleStaff,
		"comms_manager":    RoleCommsManager,
	}
	for raw, expected := range cases {
		role, err := ParseRole(raw)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", raw, err)
		}
		if role != expected {
			t.Fatalf("ParseRole(%q)=%q, want %q", raw, role, expected)
		}
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestDefaultPolicyEveryRoleNonEmpty(t *testing.T) {
	policy := DefaultPolicy()
	roles := []Role{
		RoleAdmin, RoleHRManager, RoleFinanceManager, RoleBusinessManager,
		RoleTalentManager, RoleCommsManager, RoleStaff,
	}
	for _, role := range roles {
		if len(policy.Permissions(role)) == 0 {
			t.Fatalf("role %s has an empty permission set", role)
		}
	}
}

func TestAdminPassesEveryCheck(t *testing.T) {
	policy := NewPolicy(map[Role][]string{
		RoleAdmin: {PermHRModule},
		RoleStaff: {PermViewOwnProfile},
	})
	// Admin passes even for permissions absent from its explicit list.
	if !policy.Allows(RoleAdmin, PermManageTransactions) {
		t.Fatal("admin must satisfy every permission check")
	}
	if policy.Allows(RoleStaff, PermManageTransactions) {
		t.Fatal("staff must not hold manage_transactions")
	}
	if !policy.Allows(RoleStaff, PermViewOwnProfile) {
		t.Fatal("staff must hold view_own_profile")
	}
}

func TestPolicyIsInsulatedFromInput(t *testing.T) {
	grants := map[Role][]string{RoleStaff: {PermViewOwnProfile}}
	policy := NewPolicy(grants)
	grants[RoleStaff][0] = PermManageTransactions
	if policy.Allows(RoleStaff, PermManageTransactions) {
		t.Fatal("policy must copy grants at construction")
	}
}

func TestAllowsAny(t *testing.T) {
	policy := DefaultPolicy()
	if !policy.AllowsAny(RoleCommsManager, PermTalentModule, PermCommsModule) {
		t.Fatal("comms manager should match comms_module_access")
	}
	if policy.AllowsAny(RoleStaff, PermTalentModule, PermCommsModule) {
		t.Fatal("staff should match neither module")
	}
}

func TestCanAccess(t *testing.T) {
	admin := Principal{UserID: 1, CompanyID: 1, Role: RoleAdmin}
	manager := Principal{UserID: 2, CompanyID: 1, Role: RoleHRManager}

	if !admin.CanAccess(99) {
		t.Fatal("admin reaches every company")
	}
	if !manager.CanAccess(1) {
		t.Fatal("manager reaches own company")
	}
	if manager.CanAccess(2) {
		t.Fatal("manager must not reach another company")
	}
}
