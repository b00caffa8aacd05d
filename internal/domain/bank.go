package domain

import (
	"context"
	"time"
)

// BankAccount is shown to customers paying by manual bank transfer.
// Exactly one account may be primary; at least one must stay active.
type BankAccount struct {
	ID            string    `json:"id"`
	Label         string    `json:"label"`
	BankName      string    `json:"bankName"`
	AccountHolder string    `json:"accountHolder"`
	AccountNumber string    `json:"accountNumber"`
	DocumentID    *string   `json:"documentId"`
	AccountType   *string   `json:"accountType"`
	Notes         *string   `json:"notes"`
	IsActive      bool      `json:"isActive"`
	IsPrimary     bool      `json:"isPrimary"`
	SortOrder     *int      `json:"sortOrder"`
	CreatedAt     time.Time `json:"createdAt"`
}

type BankAccountRepository interface {
	GetAll(ctx context.Context) ([]BankAccount, error)
	GetByID(ctx context.Context, id string) (*BankAccount, error)
	CountActive(ctx context.Context) (int64, error)
	// Create and Update demote any other primary account in the same
	// transaction when the account being written is primary.
	Create(ctx context.Context, a *BankAccount) error
	Update(ctx context.Context, a *BankAccount) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}
