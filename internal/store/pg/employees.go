package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

type employees struct{ db *sql.DB }

const employeeColumns = `id, user_id, company_id, department_id, first_name, last_name, email,
	phone, job_title, hire_date, address, emergency_contact_name, emergency_contact_phone,
	education, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*portal.Employee, error) {
	var (
		e      portal.Employee
		userID sql.NullInt64
		deptID sql.NullInt64
		hired  sql.NullTime
	)
	err := row.Scan(&e.ID, &userID, &e.CompanyID, &deptID, &e.FirstName, &e.LastName, &e.Email,
		&e.Phone, &e.JobTitle, &hired, &e.Address, &e.EmergencyContactName, &e.EmergencyContactPhone,
		&e.Education, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, portal.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.UserID = intPtr(userID)
	e.DepartmentID = intPtr(deptID)
	e.HireDate = dateString(hired)
	return &e, nil
}

func (s employees) Create(ctx context.Context, e *portal.Employee) error {
	err := s.db.QueryRowContext(ctx, `
		insert into employees (user_id, company_id, department_id, first_name, last_name, email,
			phone, job_title, hire_date, address, emergency_contact_name, emergency_contact_phone,
			education, status)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		returning id, created_at, updated_at
	`, nullInt(e.UserID), e.CompanyID, nullInt(e.DepartmentID), e.FirstName, e.LastName, e.Email,
		e.Phone, e.JobTitle, nullDate(e.HireDate), e.Address, e.EmergencyContactName,
		e.EmergencyContactPhone, e.Education, e.Status).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s employees) Find(ctx context.Context, id int64) (*portal.Employee, error) {
	return scanEmployee(s.db.QueryRowContext(ctx, `
		select `+employeeColumns+`
		from employees
		where id = $1
	`, id))
}

func (s employees) FindByUserID(ctx context.Context, userID int64) (*portal.Employee, error) {
	return scanEmployee(s.db.QueryRowContext(ctx, `
		select `+employeeColumns+`
		from employees
		where user_id = $1
	`, userID))
}

func (s employees) ListByCompany(ctx context.Context, companyID int64) ([]*portal.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+employeeColumns+`
		from employees
		where company_id = $1
		order by last_name, first_name
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*portal.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
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

func (s employees) Update(ctx context.Context, id int64, patch portal.EmployeePatch) (*portal.Employee, error) {
	var b setBuilder
	stringField := func(column string, f portal.Field[string]) {
		if !f.Present {
			return
		}
		if f.Null {
			b.set(column, "")
			return
		}
		b.set(column, f.Value)
	}
	stringField("first_name", patch.FirstName)
	stringField("last_name", patch.LastName)
	stringField("email", patch.Email)
	stringField("phone", patch.Phone)
	stringField("job_title", patch.JobTitle)
	stringField("address", patch.Address)
	stringField("emergency_contact_name", patch.EmergencyContactName)
	stringField("emergency_contact_phone", patch.EmergencyContactPhone)
	stringField("education", patch.Education)
	if patch.HireDate.Present {
		if patch.HireDate.Null || patch.HireDate.Value == "" {
			b.setNull("hire_date")
		} else {
			b.set("hire_date", nullDate(patch.HireDate.Value))
		}
	}
	if patch.DepartmentID.Present {
		if patch.DepartmentID.Null {
			b.setNull("department_id")
		} else {
			b.set("department_id", patch.DepartmentID.Value)
		}
	}
	if patch.Status.IsSet() {
		b.set("status", patch.Status.Value)
	}
	if b.empty() {
		return s.Find(ctx, id)
	}
	clause, args := b.clause(id)
	res, err := s.db.ExecContext(ctx, `update employees `+clause, args...)
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

func (s employees) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from employees where id = $1`, id)
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

func (s employees) CountActiveByDepartment(ctx context.Context, departmentID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		select count(*) from employees
		where department_id = $1 and status = 'active'
	`, departmentID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
