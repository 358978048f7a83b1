package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/auth"
)

// Stream handles Server-Sent Events for the live activity feed. Subscribers
// only receive events for their own company; the feed spans every module, so
// it is limited to manager roles.
func (a *API) Stream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	p, ok := a.requireRole(w, r,
		auth.RoleHRManager, auth.RoleFinanceManager, auth.RoleBusinessManager,
		auth.RoleTalentManager, auth.RoleCommsManager)
	if !ok {
		return
	}
	if a.feed == nil {
		writeError(w, r, http.StatusServiceUnavailable, "streaming disabled")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch := a.feed.Subscribe(ctx, p.CompanyID)

	// Send an initial comment to establish the stream
	_, _ = w.Write([]byte(": stream started\n\n"))
	flusher.Flush()

	for event := range ch {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		_, _ = w.Write([]byte("data: "))
		_, _ = w.Write(payload)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}
}
