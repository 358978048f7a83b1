// Package audit records who changed what. Recording is best effort: failures
// are returned to the caller so they stay visible, but mutations never roll
// back because an audit write failed.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/ids"
	"github.com/Lion-ishimwe/rightseat-sub001/internal/obs"
)

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context for audit trails.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// Entry is one audit trail row.
type Entry struct {
	ID         string          `json:"id"`
	RequestID  string          `json:"request_id,omitempty"`
	CompanyID  int64           `json:"company_id"`
	UserID     int64           `json:"user_id"`
	Action     string          `json:"action"`
	Resource   string          `json:"resource"`
	ResourceID int64           `json:"resource_id,omitempty"`
	OldValues  json.RawMessage `json:"old_values,omitempty"`
	NewValues  json.RawMessage `json:"new_values,omitempty"`
	IP         string          `json:"ip,omitempty"`
	UserAgent  string          `json:"user_agent,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Sink persists entries.
type Sink interface {
	Append(ctx context.Context, e *Entry) error
}

// Recorder assigns ids, emits a structured log line, and appends to the sink.
type Recorder struct {
	sink Sink
}

func NewRecorder(sink Sink) *Recorder {
	return &Recorder{sink: sink}
}

// Snapshot renders a value for the old/new columns. A nil input stays nil; an
// unmarshalable value degrades to a quoted error string rather than failing
// the record.
func Snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`"unserializable"`)
	}
	return data
}

// Record completes the entry and persists it. The returned error tells the
// caller the trail is incomplete; it is safe to ignore.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	e.Action = strings.TrimSpace(e.Action)
	if e.Action == "" {
		return errors.New("audit action is required")
	}
	if e.ID == "" {
		e.ID = ids.New()
	}
	if e.RequestID == "" {
		e.RequestID = requestIDFromContext(ctx)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	logLine(&e)

	if r == nil || r.sink == nil {
		return nil
	}
	return r.sink.Append(ctx, &e)
}

func logLine(e *Entry) {
	entry := map[string]any{
		"ts":       e.CreatedAt.Format(time.RFC3339Nano),
		"type":     "audit",
		"action":   e.Action,
		"resource": e.Resource,
		"id":       e.ID,
	}
	if e.RequestID != "" {
		entry["request_id"] = e.RequestID
	}
	if e.UserID != 0 {
		entry["user_id"] = e.UserID
	}
	if e.CompanyID != 0 {
		entry["company_id"] = e.CompanyID
	}
	if e.ResourceID != 0 {
		entry["resource_id"] = e.ResourceID
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	obs.Logger().Println(string(data))
}
