package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Lion-ishimwe/rightseat-sub001/internal/portal"
)

type transactions struct{ db *sql.DB }

const transactionColumns = `id, company_id, kind, amount_cents, currency, description, occurred_on,
	created_by, created_at, updated_at`

func scanTransaction(row rowScanner) (*portal.Transaction, error) {
	var (
		t        portal.Transaction
		occurred time.Time
	)
	err := row.Scan(&t.ID, &t.CompanyID, &t.Kind, &t.AmountCents, &t.Currency, &t.Description,
		&occurred, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, portal.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.OccurredOn = occurred.Format(dateLayout)
	return &t, nil
}

func (s transactions) Create(ctx context.Context, t *portal.Transaction) error {
	err := s.db.QueryRowContext(ctx, `
		insert into transactions (company_id, kind, amount_cents, currency, description, occurred_on, created_by)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning id, created_at, updated_at
	`, t.CompanyID, t.Kind, t.AmountCents, t.Currency, t.Description, nullDate(t.OccurredOn),
		t.CreatedBy).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s transactions) Find(ctx context.Context, id int64) (*portal.Transaction, error) {
	return scanTransaction(s.db.QueryRowContext(ctx, `
		select `+transactionColumns+`
		from transactions
		where id = $1
	`, id))
}

func (s transactions) ListByCompany(ctx context.Context, companyID int64) ([]*portal.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+transactionColumns+`
		from transactions
		where company_id = $1
		order by occurred_on desc, id desc
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*portal.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s transactions) Update(ctx context.Context, id int64, patch portal.TransactionPatch) (*portal.Transaction, error) {
	var b setBuilder
	if patch.Kind.IsSet() {
		b.set("kind", patch.Kind.Value)
	}
	if patch.AmountCents.IsSet() {
		b.set("amount_cents", patch.AmountCents.Value)
	}
	if patch.Currency.IsSet() {
		b.set("currency", patch.Currency.Value)
	}
	if patch.Description.Present {
		if patch.Description.Null {
			b.set("description", "")
		} else {
			b.set("description", patch.Description.Value)
		}
	}
	if patch.OccurredOn.IsSet() {
		b.set("occurred_on", nullDate(patch.OccurredOn.Value))
	}
	if b.empty() {
		return s.Find(ctx, id)
	}
	clause, args := b.clause(id)
	res, err := s.db.ExecContext(ctx, `update transactions `+clause, args...)
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

func (s transactions) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from transactions where id = $1`, id)
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
