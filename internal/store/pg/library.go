package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

type media struct{ db *sql.DB }

func (s media) Create(ctx context.Context, m *portal.MediaItem) error {
	err := s.db.QueryRowContext(ctx, `
		insert into media_items (company_id, title, kind, url, size_bytes, uploaded_by)
		values ($1, $2, $3, $4, $5, $6)
		returning id, created_at
	`, m.CompanyID, m.Title, m.Kind, m.URL, m.SizeBytes, m.UploadedBy).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s media) Find(ctx context.Context, id int64) (*portal.MediaItem, error) {
	var m portal.MediaItem
	err := s.db.QueryRowContext(ctx, `
		select id, company_id, title, kind, url, size_bytes, uploaded_by, created_at
		from media_items
		where id = $1
	`, id).Scan(&m.ID, &m.CompanyID, &m.Title, &m.Kind, &m.URL, &m.SizeBytes, &m.UploadedBy, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, portal.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s media) ListByCompany(ctx context.Context, companyID int64) ([]*portal.MediaItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, company_id, title, kind, url, size_bytes, uploaded_by, created_at
		from media_items
		where company_id = $1
		order by created_at desc, id desc
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*portal.MediaItem, 0)
	for rows.Next() {
		var m portal.MediaItem
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.Title, &m.Kind, &m.URL, &m.SizeBytes, &m.UploadedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s media) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from media_items where id = $1`, id)
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

type documents struct{ db *sql.DB }

func (s documents) Create(ctx context.Context, d *portal.Document) error {
	err := s.db.QueryRowContext(ctx, `
		insert into documents (company_id, title, category, url, owner_employee_id, uploaded_by)
		values ($1, $2, $3, $4, $5, $6)
		returning id, created_at
	`, d.CompanyID, d.Title, d.Category, d.URL, nullInt(d.OwnerEmployeeID), d.UploadedBy).
		Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s documents) Find(ctx context.Context, id int64) (*portal.Document, error) {
	var (
		d     portal.Document
		owner sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		select id, company_id, title, category, url, owner_employee_id, uploaded_by, created_at
		from documents
		where id = $1
	`, id).Scan(&d.ID, &d.CompanyID, &d.Title, &d.Category, &d.URL, &owner, &d.UploadedBy, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, portal.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.OwnerEmployeeID = intPtr(owner)
	return &d, nil
}

func (s documents) ListByCompany(ctx context.Context, companyID int64) ([]*portal.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, company_id, title, category, url, owner_employee_id, uploaded_by, created_at
		from documents
		where company_id = $1
		order by created_at desc, id desc
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*portal.Document, 0)
	for rows.Next() {
		var (
			d     portal.Document
			owner sql.NullInt64
		)
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Title, &d.Category, &d.URL, &owner, &d.UploadedBy, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.OwnerEmployeeID = intPtr(owner)
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s documents) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from documents where id = $1`, id)
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
