package httpapi

import (
	"net/http"
	"strings"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/auth"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

func (a *API) handleEventsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listEvents(w, r)
	case http.MethodPost:
		a.createEvent(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleEventResource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(strings.TrimPrefix(r.URL.Path, "/v1/events/"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getEvent(w, r, id)
	case http.MethodPut:
		a.updateEvent(w, r, id)
	case http.MethodDelete:
		a.deleteEvent(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listEvents(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermBusinessModule, auth.PermManageEvents)
	if !ok {
		return
	}
	list, err := a.portal.ListEvents(r.Context(), p, 0)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func (a *API) createEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermManageEvents)
	if !ok {
		return
	}
	var in portal.CreateEventInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	event, err := a.portal.CreateEvent(r.Context(), p, in)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "event.create", "event", event.ID, nil, event)
	respond(w, http.StatusCreated, event)
}

func (a *API) getEvent(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermBusinessModule, auth.PermManageEvents)
	if !ok {
		return
	}
	event, err := a.portal.GetEvent(r.Context(), p, id)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, event)
}

func (a *API) updateEvent(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermManageEvents)
	if !ok {
		return
	}
	var patch portal.EventPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	old, updated, err := a.portal.UpdateEvent(r.Context(), p, id, patch)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "event.update", "event", id, old, updated)
	respond(w, http.StatusOK, updated)
}

func (a *API) deleteEvent(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermManageEvents)
	if !ok {
		return
	}
	old, err := a.portal.DeleteEvent(r.Context(), p, id)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "event.delete", "event", id, old, nil)
	respondMessage(w, http.StatusOK, "Event deleted successfully")
}

// --- documents (shared by business and talent modules) ---

func (a *API) handleDocumentsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listDocuments(w, r)
	case http.MethodPost:
		a.createDocument(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleDocumentResource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(strings.TrimPrefix(r.URL.Path, "/v1/documents/"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getDocument(w, r, id)
	case http.MethodDelete:
		a.deleteDocument(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

func (a *API) listDocuments(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermBusinessModule, auth.PermTalentModule, auth.PermManageDocuments)
	if !ok {
		return
	}
	list, err := a.portal.ListDocuments(r.Context(), p, 0)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func (a *API) createDocument(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermManageDocuments)
	if !ok {
		return
	}
	var in portal.CreateDocumentInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := a.portal.CreateDocument(r.Context(), p, in)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "document.create", "document", doc.ID, nil, doc)
	respond(w, http.StatusCreated, doc)
}

func (a *API) getDocument(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermBusinessModule, auth.PermTalentModule, auth.PermManageDocuments)
	if !ok {
		return
	}
	doc, err := a.portal.GetDocument(r.Context(), p, id)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, doc)
}

func (a *API) deleteDocument(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermManageDocuments)
	if !ok {
		return
	}
	old, err := a.portal.DeleteDocument(r.Context(), p, id)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "document.delete", "document", id, old, nil)
	respondMessage(w, http.StatusOK, "Document deleted successfully")
}
