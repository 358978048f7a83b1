package httpapi

import (
	"net/http"
	"strings"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/auth"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

func (a *API) handleEmployeesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listEmployees(w, r)
	case http.MethodPost:
		a.createEmployee(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleEmployeeResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/employees/")
	// Staff see their own profile here; everything else needs HR access.
	if rest == "me" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.getOwnEmployee(w, r)
		return
	}
	id, err := pathID(rest)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getEmployee(w, r, id)
	case http.MethodPut:
		a.updateEmployee(w, r, id)
	case http.MethodDelete:
		a.deleteEmployee(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listEmployees(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermHRModule, auth.PermManageEmployees)
	if !ok {
		return
	}
	list, err := a.portal.ListEmployees(r.Context(), p, 0)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func (a *API) createEmployee(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermManageEmployees)
	if !ok {
		return
	}
	var in portal.CreateEmployeeInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	emp, err := a.portal.CreateEmployee(r.Context(), p, in)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "employee.create", "employee", emp.ID, nil, emp)
	respond(w, http.StatusCreated, emp)
}

func (a *API) getOwnEmployee(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermViewOwnProfile, auth.PermHRModule)
	if !ok {
		return
	}
	emp, err := a.portal.GetOwnEmployee(r.Context(), p)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, emp)
}

func (a *API) getEmployee(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermHRModule, auth.PermManageEmployees)
	if !ok {
		return
	}
	emp, err := a.portal.GetEmployee(r.Context(), p, id)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, emp)
}

func (a *API) updateEmployee(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermManageEmployees)
	if !ok {
		return
	}
	var patch portal.EmployeePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	old, updated, err := a.portal.UpdateEmployee(r.Context(), p, id, patch)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "employee.update", "employee", id, old, updated)
	respond(w, http.StatusOK, updated)
}

func (a *API) deleteEmployee(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermManageEmployees)
	if !ok {
		return
	}
	old, err := a.portal.DeleteEmployee(r.Context(), p, id)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "employee.delete", "employee", id, old, nil)
	respondMessage(w, http.StatusOK, "Employee deleted successfully")
}

// --- leave requests ---

func (a *API) handleLeaveCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listLeave(w, r)
	case http.MethodPost:
		a.createLeave(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleLeaveResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/leave-requests/")
	if decision, found := strings.CutSuffix(rest, "/approve"); found {
		a.decideLeave(w, r, decision, true)
		return
	}
	if decision, found := strings.CutSuffix(rest, "/reject"); found {
		a.decideLeave(w, r, decision, false)
		return
	}
	id, err := pathID(rest)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getLeave(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet)
	}
}

func (a *API) listLeave(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermManageLeave, auth.PermRequestLeave)
	if !ok {
		return
	}
	list, err := a.portal.ListLeaveRequests(r.Context(), p, 0)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func (a *API) createLeave(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermManageLeave, auth.PermRequestLeave)
	if !ok {
		return
	}
	var in portal.CreateLeaveInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	lr, err := a.portal.CreateLeaveRequest(r.Context(), p, in)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "leave_request.create", "leave_request", lr.ID, nil, lr)
	respond(w, http.StatusCreated, lr)
}

func (a *API) getLeave(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermManageLeave, auth.PermRequestLeave)
	if !ok {
		return
	}
	lr, err := a.portal.GetLeaveRequest(r.Context(), p, id)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, lr)
}

func (a *API) decideLeave(w http.ResponseWriter, r *http.Request, rawID string, approve bool) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	p, ok := a.requirePermission(w, r, auth.PermManageLeave)
	if !ok {
		return
	}
	id, err := pathID(rawID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	old, updated, err := a.portal.DecideLeaveRequest(r.Context(), p, id, approve)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	action := "leave_request.reject"
	if approve {
		action = "leave_request.approve"
	}
	a.audit(r, p, action, "leave_request", id, old, updated)
	respond(w, http.StatusOK, updated)
}
