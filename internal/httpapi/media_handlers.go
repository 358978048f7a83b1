package httpapi

import (
	"net/http"
	"strings"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/auth"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

func (a *API) handleMediaCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listMedia(w, r)
	case http.MethodPost:
		a.createMedia(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleMediaResource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(strings.TrimPrefix(r.URL.Path, "/v1/media/"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	switch r.Method {
	case http.MethodGet:
		a.getMedia(w, r, id)
	case http.MethodDelete:
		a.deleteMedia(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

func (a *API) listMedia(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermCommsModule, auth.PermManageMedia)
	if !ok {
		return
	}
	list, err := a.portal.ListMediaItems(r.Context(), p, 0)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func (a *API) createMedia(w http.ResponseWriter, r *http.Request) {
	p, ok := a.requirePermission(w, r, auth.PermManageMedia)
	if !ok {
		return
	}
	var in portal.CreateMediaInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	item, err := a.portal.CreateMediaItem(r.Context(), p, in)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "media.create", "media", item.ID, nil, item)
	respond(w, http.StatusCreated, item)
}

func (a *API) getMedia(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermCommsModule, auth.PermManageMedia)
	if !ok {
		return
	}
	item, err := a.portal.GetMediaItem(r.Context(), p, id)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	respond(w, http.StatusOK, item)
}

func (a *API) deleteMedia(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := a.requirePermission(w, r, auth.PermManageMedia)
	if !ok {
		return
	}
	old, err := a.portal.DeleteMediaItem(r.Context(), p, id)
	if err != nil {
		handlePortalError(w, r, err)
		return
	}
	a.audit(r, p, "media.delete", "media", id, old, nil)
	respondMessage(w, http.StatusOK, "Media item deleted successfully")
}
