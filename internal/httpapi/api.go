// Package httpapi is the portal's HTTP surface: routing, authentication,
// permission gating, and the JSON response envelope.
package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/audit"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/auth"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/feed"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/obs"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

// ReadyProbe reports whether the backing database is reachable.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options carries the API's collaborators.
type Options struct {
	Portal     *portal.Service
	Policy     *auth.Policy
	Recorder   *audit.Recorder
	Feed       *feed.Feed
	ReadyProbe ReadyProbe
	Version    string

	// Rate limiting per client IP; zero values disable it.
	RateBurst     int
	RatePerSecond int
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	portal     *portal.Service
	policy     *auth.Policy
	recorder   *audit.Recorder
	feed       *feed.Feed
	readyProbe ReadyProbe
	version    string
	rateBurst  int
	ratePerSec int
}

func New(opts Options) (*API, error) {
	if opts.Portal == nil {
		return nil, errors.New("portal service is required")
	}
	policy := opts.Policy
	if policy == nil {
		policy = auth.DefaultPolicy()
	}
	a := &API{
		mux:        http.NewServeMux(),
		portal:     opts.Portal,
		policy:     policy,
		recorder:   opts.Recorder,
		feed:       opts.Feed,
		readyProbe: opts.ReadyProbe,
		version:    opts.Version,
		rateBurst:  opts.RateBurst,
		ratePerSec: opts.RatePerSecond,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/auth/me", a.handleMe)

	a.mux.HandleFunc("/v1/departments", a.handleDepartmentsCollection)
	a.mux.HandleFunc("/v1/departments/", a.handleDepartmentResource)
	a.mux.HandleFunc("/v1/employees", a.handleEmployeesCollection)
	a.mux.HandleFunc("/v1/employees/", a.handleEmployeeResource)
	a.mux.HandleFunc("/v1/leave-requests", a.handleLeaveCollection)
	a.mux.HandleFunc("/v1/leave-requests/", a.handleLeaveResource)
	a.mux.HandleFunc("/v1/transactions", a.handleTransactionsCollection)
	a.mux.HandleFunc("/v1/transactions/", a.handleTransactionResource)
	a.mux.HandleFunc("/v1/events", a.handleEventsCollection)
	a.mux.HandleFunc("/v1/events/", a.handleEventResource)
	a.mux.HandleFunc("/v1/media", a.handleMediaCollection)
	a.mux.HandleFunc("/v1/media/", a.handleMediaResource)
	a.mux.HandleFunc("/v1/documents", a.handleDocumentsCollection)
	a.mux.HandleFunc("/v1/documents/", a.handleDocumentResource)
	a.mux.HandleFunc("/v1/feed", a.Stream)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "resource not found")
	})

	return a, nil
}

// Handler assembles the middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	if a.rateBurst > 0 && a.ratePerSec > 0 {
		h = RateLimit(h, a.rateBurst, a.ratePerSec)
	}
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- health/info handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "rightseat-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "rightseat-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- envelope helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// respond wraps data in the success envelope every client handler expects.
func respond(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, map[string]any{
		"success": true,
		"data":    data,
	})
}

func respondMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"success": true,
		"message": msg,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"success": false,
		"message": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

// handlePortalError maps service sentinels onto HTTP statuses.
func handlePortalError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, portal.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, errMessage(err, "invalid input"))
	case errors.Is(err, portal.ErrConflict):
		writeError(w, r, http.StatusConflict, errMessage(err, "conflict"))
	case errors.Is(err, portal.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "resource not found")
	case errors.Is(err, portal.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "You do not have access to this resource")
	case errors.Is(err, portal.ErrUnauthorized):
		writeError(w, r, http.StatusUnauthorized, "Authentication required")
	default:
		obs.LogError("request_failed", map[string]any{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// errMessage strips the package sentinel prefix so clients see the detail only.
func errMessage(err error, fallback string) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		msg = msg[idx+2:]
	}
	if msg == "" {
		return fallback
	}
	return msg
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

// pathID parses the trailing numeric id of a resource path. A non-numeric id
// is a bad request, not a missing route.
func pathID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("resource id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("resource id must be a positive integer")
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

// audit records the mutation trail and pushes the live feed event. Audit
// failures are logged and swallowed so the mutation response is unaffected.
func (a *API) audit(r *http.Request, actor auth.Principal, action, resource string, resourceID int64, oldValues, newValues any) {
	if a.recorder != nil {
		err := a.recorder.Record(r.Context(), audit.Entry{
			CompanyID:  actor.CompanyID,
			UserID:     actor.UserID,
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			OldValues:  audit.Snapshot(oldValues),
			NewValues:  audit.Snapshot(newValues),
			IP:         clientIP(r),
			UserAgent:  r.UserAgent(),
		})
		if err != nil {
			obs.LogError("audit_record_failed", map[string]any{
				"action": action,
				"error":  err.Error(),
			})
		}
	}
	if a.feed != nil {
		a.feed.Publish(feed.Activity{
			CompanyID: actor.CompanyID,
			Actor:     actor.Email,
			Action:    action,
			Resource:  resource,
		})
	}
}
