package audit

import (
	"context"
	"database/sql"
	"sync"
)

// PGSink appends entries to the audit_log table.
type PGSink struct {
	db *sql.DB
}

func NewPGSink(db *sql.DB) *PGSink { return &PGSink{db: db} }

func (s *PGSink) Append(ctx context.Context, e *Entry) error {
	_, err := s.db.ExecContext(ctx, `
		insert into audit_log (id, request_id, company_id, user_id, action, resource, resource_id,
			old_values, new_values, ip, user_agent, created_at)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, e.ID, e.RequestID, e.CompanyID, e.UserID, e.Action, e.Resource, e.ResourceID,
		nilIfEmpty(e.OldValues), nilIfEmpty(e.NewValues), e.IP, e.UserAgent, e.CreatedAt)
	return err
}

func nilIfEmpty(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

// MemorySink collects entries for tests and in-memory runs.
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
	fail    error
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

// FailWith makes every Append return err.
func (s *MemorySink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *MemorySink) Append(_ context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.entries = append(s.entries, *e)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (s *MemorySink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
