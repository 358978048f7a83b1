package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

type departments struct{ db *sql.DB }

const departmentColumns = `id, company_id, name, description, manager_id, created_at, updated_at`

func scanDepartment(row rowScanner) (*portal.Department, error) {
	var (
		d       portal.Department
		manager sql.NullInt64
	)
	err := row.Scan(&d.ID, &d.CompanyID, &d.Name, &d.Description, &manager, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, portal.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.ManagerID = intPtr(manager)
	return &d, nil
}

func (s departments) Create(ctx context.Context, d *portal.Department) error {
	err := s.db.QueryRowContext(ctx, `
		insert into departments (company_id, name, description, manager_id)
		values ($1, $2, $3, $4)
		returning id, created_at, updated_at
	`, d.CompanyID, d.Name, d.Description, nullInt(d.ManagerID)).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s departments) Find(ctx context.Context, id int64) (*portal.Department, error) {
	return scanDepartment(s.db.QueryRowContext(ctx, `
		select `+departmentColumns+`
		from departments
		where id = $1
	`, id))
}

func (s departments) FindDetail(ctx context.Context, id int64) (*portal.DepartmentDetail, error) {
	var (
		detail  portal.DepartmentDetail
		manager sql.NullInt64
		mgrName sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		select d.id, d.company_id, d.name, d.description, d.manager_id, d.created_at, d.updated_at,
		       c.name,
		       trim(concat(e.first_name, ' ', e.last_name))
		from departments d
		join companies c on c.id = d.company_id
		left join employees e on e.id = d.manager_id
		where d.id = $1
	`, id).Scan(&detail.ID, &detail.CompanyID, &detail.Name, &detail.Description, &manager,
		&detail.CreatedAt, &detail.UpdatedAt, &detail.CompanyName, &mgrName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, portal.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	detail.ManagerID = intPtr(manager)
	if mgrName.Valid {
		detail.ManagerName = mgrName.String
	}
	return &detail, nil
}

func (s departments) ListByCompany(ctx context.Context, companyID int64) ([]*portal.Department, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+departmentColumns+`
		from departments
		where company_id = $1
		order by name
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*portal.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s departments) NameExists(ctx context.Context, companyID int64, name string, excludeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		select exists (
			select 1 from departments
			where company_id = $1 and name = $2 and id <> $3
		)
	`, companyID, name, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s departments) Update(ctx context.Context, id int64, patch portal.DepartmentPatch) (*portal.Department, error) {
	var b setBuilder
	if patch.Name.IsSet() {
		b.set("name", patch.Name.Value)
	}
	if patch.Description.Present {
		if patch.Description.Null {
			b.set("description", "")
		} else {
			b.set("description", patch.Description.Value)
		}
	}
	if patch.ManagerID.Present {
		if patch.ManagerID.Null {
			b.setNull("manager_id")
		} else {
			b.set("manager_id", patch.ManagerID.Value)
		}
	}
	if b.empty() {
		return s.Find(ctx, id)
	}
	clause, args := b.clause(id)
	res, err := s.db.ExecContext(ctx, `update departments `+clause, args...)
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

func (s departments) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from departments where id = $1`, id)
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
