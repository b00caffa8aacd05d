package usecase

import (
	"context"
	"fmt"
	"strings"

	"caribay-backend/internal/domain"

	"github.com/google/uuid"
)

type BankAccountUsecase struct {
	repo domain.BankAccountRepository
}

func NewBankAccountUsecase(repo domain.BankAccountRepository) *BankAccountUsecase {
	return &BankAccountUsecase{repo: repo}
}

type BankAccountInput struct {
	Label         string `json:"label"`
	BankName      string `json:"bankName"`
	AccountHolder string `json:"accountHolder"`
	AccountNumber string `json:"accountNumber"`
	DocumentID    string `json:"documentId"`
	AccountType   string `json:"accountType"`
	Notes         string `json:"notes"`
	IsActive      bool   `json:"isActive"`
	IsPrimary     bool   `json:"isPrimary"`
}

func (in *BankAccountInput) normalize() (*domain.BankAccount, error) {
	bankName := strings.TrimSpace(in.BankName)
	if bankName == "" {
		return nil, domain.Validationf("bank name is required")
	}
	holder := strings.TrimSpace(in.AccountHolder)
	if holder == "" {
		return nil, domain.Validationf("account holder is required")
	}
	number := strings.TrimSpace(in.AccountNumber)
	if number == "" {
		return nil, domain.Validationf("account number is required")
	}
	if len(number) < 10 {
		return nil, domain.Validationf("account number must have at least 10 characters")
	}

	// An account with no label borrows the bank name.
	label := strings.TrimSpace(in.Label)
	if label == "" {
		label = bankName
	}

	a := &domain.BankAccount{
		Label:         label,
		BankName:      bankName,
		AccountHolder: holder,
		AccountNumber: number,
		IsActive:      in.IsActive,
		IsPrimary:     in.IsPrimary,
	}
	if d := strings.TrimSpace(in.DocumentID); d != "" {
		a.DocumentID = &d
	}
	if t := strings.TrimSpace(in.AccountType); t != "" {
		a.AccountType = &t
	}
	if n := strings.TrimSpace(in.Notes); n != "" {
		a.Notes = &n
	}
	return a, nil
}

func (u *BankAccountUsecase) List(ctx context.Context) ([]domain.BankAccount, error) {
	return u.repo.GetAll(ctx)
}

func (u *BankAccountUsecase) Create(ctx context.Context, in BankAccountInput) (*domain.BankAccount, error) {
	a, err := in.normalize()
	if err != nil {
		return nil, err
	}
	a.ID = uuid.New().String()
	if err := u.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (u *BankAccountUsecase) Update(ctx context.Context, id string, in BankAccountInput) (*domain.BankAccount, error) {
	a, err := in.normalize()
	if err != nil {
		return nil, err
	}
	a.ID = id
	if err := u.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// SetActive deactivation is blocked when the account is the only
// active one left: the storefront always needs at least one account to
// point bank-transfer customers at.
func (u *BankAccountUsecase) SetActive(ctx context.Context, id string, active bool) error {
	if !active {
		account, err := u.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account.IsActive {
			activeCount, err := u.repo.CountActive(ctx)
			if err != nil {
				return fmt.Errorf("active account count failed: %w", err)
			}
			if activeCount <= 1 {
				return domain.ErrLastActiveAccount
			}
		}
	}
	return u.repo.SetActive(ctx, id, active)
}

func (u *BankAccountUsecase) Delete(ctx context.Context, id string) error {
	return u.repo.Delete(ctx, id)
}
