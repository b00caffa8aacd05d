package postgres

import (
	"context"
	"errors"

	"caribay-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type bankAccountRepository struct {
	db *pgxpool.Pool
}

func NewBankAccountRepository(db *pgxpool.Pool) domain.BankAccountRepository {
	return &bankAccountRepository{db: db}
}

const bankAccountColumns = `id, label, bank_name, account_holder, account_number,
	document_id, account_type, notes, is_active, is_primary, sort_order, created_at`

func (r *bankAccountRepository) GetAll(ctx context.Context) ([]domain.BankAccount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+bankAccountColumns+` FROM bank_accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		var a domain.BankAccount
		if err := rows.Scan(&a.ID, &a.Label, &a.BankName, &a.AccountHolder, &a.AccountNumber,
			&a.DocumentID, &a.AccountType, &a.Notes, &a.IsActive, &a.IsPrimary, &a.SortOrder, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *bankAccountRepository) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	var a domain.BankAccount
	err := r.db.QueryRow(ctx,
		`SELECT `+bankAccountColumns+` FROM bank_accounts WHERE id = $1`, id,
	).Scan(&a.ID, &a.Label, &a.BankName, &a.AccountHolder, &a.AccountNumber,
		&a.DocumentID, &a.AccountType, &a.Notes, &a.IsActive, &a.IsPrimary, &a.SortOrder, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *bankAccountRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bank_accounts WHERE is_active`).Scan(&count)
	return count, err
}

func (r *bankAccountRepository) Create(ctx context.Context, a *domain.BankAccount) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if a.IsPrimary {
		if _, err := tx.Exec(ctx,
			`UPDATE bank_accounts SET is_primary = FALSE WHERE is_primary`); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO bank_accounts (id, label, bank_name, account_holder, account_number,
			document_id, account_type, notes, is_active, is_primary, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at`,
		a.ID, a.Label, a.BankName, a.AccountHolder, a.AccountNumber,
		a.DocumentID, a.AccountType, a.Notes, a.IsActive, a.IsPrimary, a.SortOrder,
	).Scan(&a.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *bankAccountRepository) Update(ctx context.Context, a *domain.BankAccount) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if a.IsPrimary {
		if _, err := tx.Exec(ctx,
			`UPDATE bank_accounts SET is_primary = FALSE WHERE is_primary AND id <> $1`, a.ID); err != nil {
			return err
		}
	}

	tag, err := tx.Exec(ctx,
		`UPDATE bank_accounts
		 SET label = $2, bank_name = $3, account_holder = $4, account_number = $5,
		     document_id = $6, account_type = $7, notes = $8, is_active = $9, is_primary = $10, sort_order = $11
		 WHERE id = $1`,
		a.ID, a.Label, a.BankName, a.AccountHolder, a.AccountNumber,
		a.DocumentID, a.AccountType, a.Notes, a.IsActive, a.IsPrimary, a.SortOrder)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *bankAccountRepository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bank_accounts SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bankAccountRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bank_accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
