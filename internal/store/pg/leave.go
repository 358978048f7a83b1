package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

type leave struct{ db *sql.DB }

const leaveColumns = `id, company_id, employee_id, type, start_date, end_date, reason, status,
	decided_by, decided_at, created_at, updated_at`

func scanLeave(row rowScanner) (*portal.LeaveRequest, error) {
	var (
		lr        portal.LeaveRequest
		start     time.Time
		end       time.Time
		decidedBy sql.NullInt64
		decidedAt sql.NullTime
	)
	err := row.Scan(&lr.ID, &lr.CompanyID, &lr.EmployeeID, &lr.Type, &start, &end, &lr.Reason,
		&lr.Status, &decidedBy, &decidedAt, &lr.CreatedAt, &lr.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, portal.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	lr.StartDate = start.Format(dateLayout)
	lr.EndDate = end.Format(dateLayout)
	lr.DecidedBy = intPtr(decidedBy)
	if decidedAt.Valid {
		t := decidedAt.Time
		lr.DecidedAt = &t
	}
	return &lr, nil
}

func (s leave) Create(ctx context.Context, lr *portal.LeaveRequest) error {
	err := s.db.QueryRowContext(ctx, `
		insert into leave_requests (company_id, employee_id, type, start_date, end_date, reason, status)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning id, created_at, updated_at
	`, lr.CompanyID, lr.EmployeeID, lr.Type, nullDate(lr.StartDate), nullDate(lr.EndDate),
		lr.Reason, lr.Status).Scan(&lr.ID, &lr.CreatedAt, &lr.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s leave) Find(ctx context.Context, id int64) (*portal.LeaveRequest, error) {
	return scanLeave(s.db.QueryRowContext(ctx, `
		select `+leaveColumns+`
		from leave_requests
		where id = $1
	`, id))
}

func (s leave) ListByCompany(ctx context.Context, companyID, employeeID int64) ([]*portal.LeaveRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+leaveColumns+`
		from leave_requests
		where company_id = $1 and ($2 = 0 or employee_id = $2)
		order by created_at desc, id desc
	`, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*portal.LeaveRequest, 0)
	for rows.Next() {
		lr, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s leave) SetStatus(ctx context.Context, id int64, status portal.LeaveStatus, decidedBy int64, decidedAt time.Time) (*portal.LeaveRequest, error) {
	res, err := s.db.ExecContext(ctx, `
		update leave_requests
		set status = $1, decided_by = $2, decided_at = $3, updated_at = now()
		where id = $4
	`, status, decidedBy, decidedAt, id)
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
