package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

type events struct{ db *sql.DB }

const eventColumns = `id, company_id, title, description, location, starts_at, ends_at,
	created_by, created_at, updated_at`

func scanEvent(row rowScanner) (*portal.Event, error) {
	var e portal.Event
	err := row.Scan(&e.ID, &e.CompanyID, &e.Title, &e.Description, &e.Location, &e.StartsAt,
		&e.EndsAt, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, portal.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s events) Create(ctx context.Context, e *portal.Event) error {
	err := s.db.QueryRowContext(ctx, `
		insert into events (company_id, title, description, location, starts_at, ends_at, created_by)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning id, created_at, updated_at
	`, e.CompanyID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.CreatedBy).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s events) Find(ctx context.Context, id int64) (*portal.Event, error) {
	return scanEvent(s.db.QueryRowContext(ctx, `
		select `+eventColumns+`
		from events
		where id = $1
	`, id))
}

func (s events) ListByCompany(ctx context.Context, companyID int64) ([]*portal.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+eventColumns+`
		from events
		where company_id = $1
		order by starts_at desc, id desc
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*portal.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s events) Update(ctx context.Context, id int64, patch portal.EventPatch) (*portal.Event, error) {
	var b setBuilder
	if patch.Title.IsSet() {
		b.set("title", patch.Title.Value)
	}
	if patch.Description.Present {
		if patch.Description.Null {
			b.set("description", "")
		} else {
			b.set("description", patch.Description.Value)
		}
	}
	if patch.Location.Present {
		if patch.Location.Null {
			b.set("location", "")
		} else {
			b.set("location", patch.Location.Value)
		}
	}
	if patch.StartsAt.IsSet() {
		b.set("starts_at", patch.StartsAt.Value.UTC())
	}
	if patch.EndsAt.IsSet() {
		b.set("ends_at", patch.EndsAt.Value.UTC())
	}
	if b.empty() {
		return s.Find(ctx, id)
	}
	clause, args := b.clause(id)
	res, err := s.db.ExecContext(ctx, `update events `+clause, args...)
	if err != nil {
		return nil, mapWriteError(err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if aff == 0 {
		return nil, portal.ErrNotFound
	}
	return s.Find(ctx, id)
}

func (s events) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from events where id = $1`, id)
	if err != nil {
		return mapDeleteError(err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return portal.ErrNotFound
	}
	return nil
}
