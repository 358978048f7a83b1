package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/audit"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/auth"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/feed"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
}

type apiClient struct {
	baseURL string
	client  *http.Client
	t       *testing.T

	store   *portal.InMemory
	sink    *audit.MemorySink
	company *portal.Company
	other   *portal.Company
	staff   *portal.Employee
}

const testPassword = "portal-pass-1"

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()

	t.Setenv("RIGHTSEAT_AUTH_SECRET", "test-secret")
	auth.ResetSecretForTests()

	store := portal.NewInMemory()
	company := store.SeedCompany(&portal.Company{Name: "Rightseat Ltd"})
	other := store.SeedCompany(&portal.Company{Name: "Other Co"})

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	seed := func(email string, companyID int64, role auth.Role) *portal.User {
		return store.SeedUser(&portal.User{
			CompanyID:    companyID,
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			Active:       true,
		})
	}
	seed("admin@rightseat.example", company.ID, auth.RoleAdmin)
	seed("hr@rightseat.example", company.ID, auth.RoleHRManager)
	seed("finance@rightseat.example", company.ID, auth.RoleFinanceManager)
	staffUser := seed("staff@rightseat.example", company.ID, auth.RoleStaff)
	seed("hr@other.example", other.ID, auth.RoleHRManager)

	staffEmp := &portal.Employee{
		CompanyID: company.ID,
		UserID:    &staffUser.ID,
		FirstName: "Sam",
		LastName:  "Staff",
		Email:     "staff@rightseat.example",
		Status:    portal.EmployeeActive,
	}
	if err := store.Employees().Create(t.Context(), staffEmp); err != nil {
		t.Fatalf("seed staff employee: %v", err)
	}

	svc, err := portal.NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	sink := audit.NewMemorySink()
	api, err := New(Options{
		Portal:        svc,
		Recorder:      audit.NewRecorder(sink),
		Feed:          feed.New(),
		Version:       "test",
		RateBurst:     100,
		RatePerSecond: 100,
	})
	if err != nil {
		t.Fatalf("new api: %v", err)
	}

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &apiClient{
		baseURL: srv.URL,
		client:  srv.Client(),
		t:       t,
		store:   store,
		sink:    sink,
		company: company,
		other:   other,
		staff:   staffEmp,
	}
}

func (c *apiClient) do(method, path string, body any, token string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) get(path, token string) *http.Response {
	return c.do(http.MethodGet, path, nil, token)
}

func (c *apiClient) login(email string) string {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    email,
		"password": testPassword,
	}, "")
	env := decodeEnvelope(c.t, resp, http.StatusOK)
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		c.t.Fatalf("login produced no token: %v %s", err, env.Data)
	}
	return data.Token
}

func decodeEnvelope(t *testing.T, resp *http.Response, wantStatus int) envelope {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("status = %d, want %d", resp.StatusCode, wantStatus)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return v
}

func TestLoginAndMe(t *testing.T) {
	c := newTestAPI(t)

	token := c.login("hr@rightseat.example")

	env := decodeEnvelope(t, c.get("/v1/auth/me", token), http.StatusOK)
	me := decodeData[meResponse](t, env)
	if me.User == nil || me.User.Email != "hr@rightseat.example" {
		t.Fatalf("unexpected user: %+v", me.User)
	}
	if len(me.Perms) == 0 {
		t.Fatal("expected hr permissions")
	}

	// Wrong password and unknown email fail with the same message.
	for _, body := range []map[string]string{
		{"email": "hr@rightseat.example", "password": "wrong"},
		{"email": "ghost@rightseat.example", "password": testPassword},
	} {
		env := decodeEnvelope(t, c.do(http.MethodPost, "/v1/auth/login", body, ""), http.StatusUnauthorized)
		if env.Message != "Invalid credentials" {
			t.Fatalf("message = %q", env.Message)
		}
	}
}

func TestAuthenticationRequired(t *testing.T) {
	c := newTestAPI(t)

	cases := map[string]string{
		"no token":      "",
		"garbage token": "not-a-jwt",
	}
	for name, token := range cases {
		env := decodeEnvelope(t, c.get("/v1/departments", token), http.StatusUnauthorized)
		if env.Success || env.Message != "Authentication required" {
			t.Fatalf("%s: envelope = %+v", name, env)
		}
		if env.RequestID == "" {
			t.Fatalf("%s: missing request_id", name)
		}
	}

	// Public endpoints stay open.
	resp := c.get("/healthz", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}
}

func TestDepartmentLifecycle(t *testing.T) {
	c := newTestAPI(t)
	token := c.login("hr@rightseat.example")

	env := decodeEnvelope(t, c.do(http.MethodPost, "/v1/departments", map[string]any{
		"name":        "Engineering",
		"description": "builds things",
	}, token), http.StatusCreated)
	dept := decodeData[portal.Department](t, env)
	if dept.ID == 0 || dept.Name != "Engineering" {
		t.Fatalf("unexpected department: %+v", dept)
	}

	// Duplicate name conflicts; the match is exact, so a recased name passes.
	decodeEnvelope(t, c.do(http.MethodPost, "/v1/departments", map[string]any{
		"name": "Engineering",
	}, token), http.StatusConflict)
	decodeEnvelope(t, c.do(http.MethodPost, "/v1/departments", map[string]any{
		"name": "engineering",
	}, token), http.StatusCreated)

	// Non-numeric id is a bad request, not a missing route.
	decodeEnvelope(t, c.get("/v1/departments/abc", token), http.StatusBadRequest)
	// Missing row is 404.
	decodeEnvelope(t, c.get("/v1/departments/9999", token), http.StatusNotFound)

	detailEnv := decodeEnvelope(t, c.get("/v1/departments/"+itoa64(dept.ID), token), http.StatusOK)
	detail := decodeData[portal.DepartmentDetail](t, detailEnv)
	if detail.CompanyName != "Rightseat Ltd" {
		t.Fatalf("company name = %q", detail.CompanyName)
	}

	// Partial update touches only supplied fields.
	updEnv := decodeEnvelope(t, c.do(http.MethodPut, "/v1/departments/"+itoa64(dept.ID), map[string]any{
		"description": "ships things",
	}, token), http.StatusOK)
	updated := decodeData[portal.Department](t, updEnv)
	if updated.Name != "Engineering" || updated.Description != "ships things" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	// Empty patch is rejected before any write.
	emptyEnv := decodeEnvelope(t, c.do(http.MethodPut, "/v1/departments/"+itoa64(dept.ID), map[string]any{}, token), http.StatusBadRequest)
	if emptyEnv.Message != "no valid fields to update" {
		t.Fatalf("message = %q", emptyEnv.Message)
	}

	// Unknown fields are rejected.
	decodeEnvelope(t, c.do(http.MethodPut, "/v1/departments/"+itoa64(dept.ID), map[string]any{
		"nmae": "typo",
	}, token), http.StatusBadRequest)

	// Audit trail captured the mutations with old/new snapshots.
	var sawUpdate bool
	for _, e := range c.sink.Entries() {
		if e.Action == "department.update" {
			sawUpdate = true
			if len(e.OldValues) == 0 || len(e.NewValues) == 0 {
				t.Fatalf("update entry missing snapshots: %+v", e)
			}
		}
	}
	if !sawUpdate {
		t.Fatal("department.update not audited")
	}
}

func TestDeleteDepartmentBlockedByEmployees(t *testing.T) {
	c := newTestAPI(t)
	token := c.login("hr@rightseat.example")

	env := decodeEnvelope(t, c.do(http.MethodPost, "/v1/departments", map[string]any{"name": "Support"}, token), http.StatusCreated)
	dept := decodeData[portal.Department](t, env)

	empEnv := decodeEnvelope(t, c.do(http.MethodPost, "/v1/employees", map[string]any{
		"first_name":    "Grace",
		"last_name":     "I",
		"email":         "grace@rightseat.example",
		"department_id": dept.ID,
	}, token), http.StatusCreated)
	emp := decodeData[portal.Employee](t, empEnv)

	blocked := decodeEnvelope(t, c.do(http.MethodDelete, "/v1/departments/"+itoa64(dept.ID), nil, token), http.StatusBadRequest)
	if blocked.Success {
		t.Fatalf("delete should be blocked: %+v", blocked)
	}

	decodeEnvelope(t, c.do(http.MethodPut, "/v1/employees/"+itoa64(emp.ID), map[string]any{
		"department_id": nil,
	}, token), http.StatusOK)

	done := decodeEnvelope(t, c.do(http.MethodDelete, "/v1/departments/"+itoa64(dept.ID), nil, token), http.StatusOK)
	if !done.Success || done.Message == "" {
		t.Fatalf("unexpected delete response: %+v", done)
	}
}

func TestCrossTenantRowsForbidden(t *testing.T) {
	c := newTestAPI(t)

	foreign := &portal.Department{CompanyID: c.other.ID, Name: "Foreign Ops"}
	if err := c.store.Departments().Create(t.Context(), foreign); err != nil {
		t.Fatalf("seed: %v", err)
	}

	hr := c.login("hr@rightseat.example")
	decodeEnvelope(t, c.get("/v1/departments/"+itoa64(foreign.ID), hr), http.StatusForbidden)

	admin := c.login("admin@rightseat.example")
	decodeEnvelope(t, c.get("/v1/departments/"+itoa64(foreign.ID), admin), http.StatusOK)
}

func TestModuleGates(t *testing.T) {
	c := newTestAPI(t)

	finance := c.login("finance@rightseat.example")
	decodeEnvelope(t, c.get("/v1/departments", finance), http.StatusForbidden)
	decodeEnvelope(t, c.get("/v1/transactions", finance), http.StatusOK)

	staff := c.login("staff@rightseat.example")
	decodeEnvelope(t, c.get("/v1/employees", staff), http.StatusForbidden)
	meEnv := decodeEnvelope(t, c.get("/v1/employees/me", staff), http.StatusOK)
	me := decodeData[portal.Employee](t, meEnv)
	if me.ID != c.staff.ID {
		t.Fatalf("own profile = %+v", me)
	}

	hr := c.login("hr@rightseat.example")
	decodeEnvelope(t, c.get("/v1/transactions", hr), http.StatusForbidden)
}

func TestLegacyRolesReconciled(t *testing.T) {
	c := newTestAPI(t)

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	legacy := c.store.SeedUser(&portal.User{
		CompanyID:    c.company.ID,
		Email:        "legacy@rightseat.example",
		PasswordHash: hash,
		Role:         auth.Role("employee"),
		Active:       true,
	})
	emp := &portal.Employee{
		CompanyID: c.company.ID,
		UserID:    &legacy.ID,
		FirstName: "Lee",
		LastName:  "Legacy",
		Email:     "legacy@rightseat.example",
		Status:    portal.EmployeeActive,
	}
	if err := c.store.Employees().Create(t.Context(), emp); err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	c.store.SeedUser(&portal.User{
		CompanyID:    c.company.ID,
		Email:        "oldmanager@rightseat.example",
		PasswordHash: hash,
		Role:         auth.Role("manager"),
		Active:       true,
	})
	c.store.SeedUser(&portal.User{
		CompanyID:    c.company.ID,
		Email:        "mangled@rightseat.example",
		PasswordHash: hash,
		Role:         auth.Role("superuser"),
		Active:       true,
	})

	// "employee" folds into staff, keeping the self-profile carve-out.
	token := c.login("legacy@rightseat.example")
	meEnv := decodeEnvelope(t, c.get("/v1/employees/me", token), http.StatusOK)
	me := decodeData[portal.Employee](t, meEnv)
	if me.ID != emp.ID {
		t.Fatalf("own profile = %+v", me)
	}
	whoEnv := decodeEnvelope(t, c.get("/v1/auth/me", token), http.StatusOK)
	who := decodeData[struct {
		User portal.User `json:"user"`
	}](t, whoEnv)
	if who.User.Role != auth.RoleStaff {
		t.Fatalf("role = %q, want %q", who.User.Role, auth.RoleStaff)
	}

	// "manager" folds into business_manager and reaches the events module.
	manager := c.login("oldmanager@rightseat.example")
	decodeEnvelope(t, c.get("/v1/events", manager), http.StatusOK)

	// A role ParseRole does not know is refused outright.
	resp := c.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "mangled@rightseat.example",
		"password": testPassword,
	}, "")
	decodeEnvelope(t, resp, http.StatusUnauthorized)
}

func TestLeaveApprovalEndpoints(t *testing.T) {
	c := newTestAPI(t)
	staff := c.login("staff@rightseat.example")
	hr := c.login("hr@rightseat.example")

	env := decodeEnvelope(t, c.do(http.MethodPost, "/v1/leave-requests", map[string]any{
		"type":       "annual",
		"start_date": "2025-09-01",
		"end_date":   "2025-09-05",
	}, staff), http.StatusCreated)
	lr := decodeData[portal.LeaveRequest](t, env)
	if lr.Status != portal.LeavePending {
		t.Fatalf("status = %s", lr.Status)
	}

	// Staff cannot decide, hr can.
	decodeEnvelope(t, c.do(http.MethodPost, "/v1/leave-requests/"+itoa64(lr.ID)+"/approve", nil, staff), http.StatusForbidden)
	approved := decodeData[portal.LeaveRequest](t, decodeEnvelope(t, c.do(http.MethodPost, "/v1/leave-requests/"+itoa64(lr.ID)+"/approve", nil, hr), http.StatusOK))
	if approved.Status != portal.LeaveApproved {
		t.Fatalf("status = %s", approved.Status)
	}

	// A second decision conflicts.
	decodeEnvelope(t, c.do(http.MethodPost, "/v1/leave-requests/"+itoa64(lr.ID)+"/reject", nil, hr), http.StatusConflict)
}

func TestAuditFailureDoesNotBreakMutations(t *testing.T) {
	c := newTestAPI(t)
	token := c.login("hr@rightseat.example")

	c.sink.FailWith(errSinkDown)

	env := decodeEnvelope(t, c.do(http.MethodPost, "/v1/departments", map[string]any{"name": "Resilient"}, token), http.StatusCreated)
	dept := decodeData[portal.Department](t, env)
	if dept.ID == 0 {
		t.Fatalf("mutation failed alongside audit: %+v", env)
	}
}

var errSinkDown = &sinkDownError{}

type sinkDownError struct{}

func (*sinkDownError) Error() string { return "audit sink down" }

func itoa64(id int64) string {
	return strconv.FormatInt(id, 10)
}
