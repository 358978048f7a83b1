package httpapi

import (
	"net/http"
	"strings"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/auth"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

func (a *API) handleDepartmentsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listDepartments(w, r)
	case http.MethodPost:
		a.createDepartment(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleDepartmentResource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(strings.TrimPrefix(r.URL.Path, "/v1/departments/"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getDepartment(w, r, id)
	case http.MethodPut:
		a.updateDepartment(w, r, id)
	case http.MethodDelete:
		a.deleteDepartment(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listDepartments(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermHRModule, auth.PermManageDepartments)
	if !ok {
		return
	}
	list, err := a.portal.ListDepartments(r.Context(), p, 0)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func (a *API) createDepartment(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermManageDepartments)
	if !ok {
		return
	}
	var in portal.CreateDepartmentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	dept, err := a.portal.CreateDepartment(r.Context(), p, in)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "department.create", "department", dept.ID, nil, dept)
	respond(w, http.StatusCreated, dept)
}

func (a *API) getDepartment(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermHRModule, auth.PermManageDepartments)
	if !ok {
		return
	}
	detail, err := a.portal.GetDepartment(r.Context(), p, id)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, detail)
}

func (a *API) updateDepartment(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermManageDepartments)
	if !ok {
		return
	}
	var patch portal.DepartmentPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	old, updated, err := a.portal.UpdateDepartment(r.Context(), p, id, patch)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "department.update", "department", id, old, updated)
	respond(w, http.StatusOK, updated)
}

func (a *API) deleteDepartment(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermManageDepartments)
	if !ok {
		return
	}
	old, err := a.portal.DeleteDepartment(r.Context(), p, id)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "department.delete", "department", id, old, nil)
	respondMessage(w, http.StatusOK, "Department deleted successfully")
}
