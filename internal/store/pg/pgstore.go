// Package pg implements portal.Store on PostgreSQL using parameterized SQL
// over database/sql with the pgx stdlib driver.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

const dateLayout = "2006-01-02"

type Store struct {
	db *sql.DB
}

var _ portal.Store = (*Store)(nil)

// Open connects with pooled defaults tuned for the portal's request volume.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing handle (tests inject sqlmock through here).
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Companies() portal.CompanyStore { return companies{s.db} }
func (s *Store) Users() portal.UserStore { return users{s.db} }
func (s *Store) Employees() portal.EmployeeStore { return employees{s.db} }
func (s *Store) Departments() portal.DepartmentStore { return departments{s.db} }
func (s *Store) Leave() portal.LeaveStore { return leave{s.db} }
func (s *Store) Transactions() portal.TransactionStore { return transactions{s.db} }
func (s *Store) Events() portal.EventStore { return events{s.db} }
func (s *Store) Media() portal.MediaStore { return media{s.db} }
func (s *Store) Documents() portal.DocumentStore { return documents{s.db} }

type companies struct{ db *sql.DB }

func (s companies) Find(ctx context.Context, id int64) (*portal.Company, error) {
	var c portal.Company
	err := s.db.QueryRowContext(ctx, `
		select id, name, created_at, updated_at
		from companies
		where id = $1
	`, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, portal.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type users struct{ db *sql.DB }

const userColumns = `id, company_id, email, password_hash, role, active, created_at, updated_at`

func scanUser(row *sql.Row) (*portal.User, error) {
	var u portal.User
	err := row.Scan(&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, portal.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s users) Find(ctx context.Context, id int64) (*portal.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
		select `+userColumns+`
		from users
		where id = $1
	`, id))
}

func (s users) FindByEmail(ctx context.Context, email string) (*portal.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `
		select `+userColumns+`
		from users
		where lower(email) = lower($1)
	`, email))
}

// maybePgError unwraps a driver error so callers can switch on SQLSTATE.
func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func mapWriteError(err error) error {
	if pgErr, ok := maybePgError(err); ok {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return portal.ErrConflict
		case pgErrForeignKeyViolation:
			return portal.ErrNotFound
		}
	}
	return err
}

// mapDeleteError differs from mapWriteError in the FK case: on delete a
// foreign key violation means dependent rows still reference this one.
func mapDeleteError(err error) error {
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
		return portal.ErrConflict
	}
	return err
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullDate(v string) sql.NullTime {
	if v == "" {
		return sql.NullTime{}
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func dateString(v sql.NullTime) string {
	if !v.Valid {
		return ""
	}
	return v.Time.Format(dateLayout)
}

// setBuilder accumulates SET clauses for partial updates; only fields present
// in the patch reach the statement.
type setBuilder struct {
	sets []string
	args []any
}

func (b *setBuilder) set(column string, value any) {
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)+1))
	b.args = append(b.args, value)
}

func (b *setBuilder) setNull(column string) {
	b.sets = append(b.sets, column+" = NULL")
}

func (b *setBuilder) empty() bool { return len(b.sets) == 0 }

// clause renders "set ... where id = $N" and returns the full args.
func (b *setBuilder) clause(id int64) (string, []any) {
	sets := append(b.sets, "updated_at = now()")
	args := append(b.args, id)
	return fmt.Sprintf("set %s where id = $%d", strings.Join(sets, ", "), len(args)), args
}
