package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caribay-backend/internal/domain"
)

type stubBankRepo struct {
	accounts map[string]*domain.BankAccount
	setCalls int
}

func newStubBankRepo(accounts ...*domain.BankAccount) *stubBankRepo {
	r := &stubBankRepo{accounts: map[string]*domain.BankAccount{}}
	for _, a := range accounts {
		r.accounts[a.ID] = a
	}
	return r
}

func (r *stubBankRepo) GetAll(ctx context.Context) ([]domain.BankAccount, error) {
	var out []domain.BankAccount
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubBankRepo) GetByID(ctx context.Context, id string) (*domain.BankAccount, error) {
	if a, ok := r.accounts[id]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubBankRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	for _, a := range r.accounts {
		if a.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *stubBankRepo) Create(ctx context.Context, a *domain.BankAccount) error {
	r.accounts[a.ID] = a
	return nil
}

func (r *stubBankRepo) Update(ctx context.Context, a *domain.BankAccount) error {
	r.accounts[a.ID] = a
	return nil
}

func (r *stubBankRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.setCalls++
	if a, ok := r.accounts[id]; ok {
		a.IsActive = active
		return nil
	}
	return domain.ErrNotFound
}

func (r *stubBankRepo) Delete(ctx context.Context, id string) error {
	delete(r.accounts, id)
	return nil
}

func validBankInput() BankAccountInput {
	return BankAccountInput{
		BankName:      "Banco Nacional",
		AccountHolder: "Caribay C.A.",
		AccountNumber: "0102123456789012",
		IsActive:      true,
	}
}

func TestBankCreateDefaultsLabelToBankName(t *testing.T) {
	uc := NewBankAccountUsecase(newStubBankRepo())

	a, err := uc.Create(context.Background(), validBankInput())

	require.NoError(t, err)
	assert.Equal(t, "Banco Nacional", a.Label)
	assert.NotEmpty(t, a.ID)
}

func TestBankCreateValidation(t *testing.T) {
	uc := NewBankAccountUsecase(newStubBankRepo())

	for name, mutate := range map[string]func(*BankAccountInput){
		"missing bank name":    func(in *BankAccountInput) { in.BankName = " " },
		"missing holder":       func(in *BankAccountInput) { in.AccountHolder = "" },
		"missing number":       func(in *BankAccountInput) { in.AccountNumber = "" },
		"short account number": func(in *BankAccountInput) { in.AccountNumber = "123" },
	} {
		in := validBankInput()
		mutate(&in)
		_, err := uc.Create(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrValidation, name)
	}
}

func TestBankDeactivateLastActiveBlocked(t *testing.T) {
	repo := newStubBankRepo(
		&domain.BankAccount{ID: "a1", IsActive: true},
		&domain.BankAccount{ID: "a2", IsActive: false},
	)
	uc := NewBankAccountUsecase(repo)

	err := uc.SetActive(context.Background(), "a1", false)

	assert.ErrorIs(t, err, domain.ErrLastActiveAccount)
	assert.True(t, repo.accounts["a1"].IsActive)
}

func TestBankDeactivateWithAnotherActiveAllowed(t *testing.T) {
	repo := newStubBankRepo(
		&domain.BankAccount{ID: "a1", IsActive: true},
		&domain.BankAccount{ID: "a2", IsActive: true},
	)
	uc := NewBankAccountUsecase(repo)

	require.NoError(t, uc.SetActive(context.Background(), "a1", false))
	assert.False(t, repo.accounts["a1"].IsActive)
}

func TestBankActivateNeverBlocked(t *testing.T) {
	repo := newStubBankRepo(&domain.BankAccount{ID: "a1", IsActive: false})
	uc := NewBankAccountUsecase(repo)

	require.NoError(t, uc.SetActive(context.Background(), "a1", true))
	assert.True(t, repo.accounts["a1"].IsActive)
}

func TestBankDeactivateAlreadyInactiveAllowed(t *testing.T) {
	// Toggling an inactive account off again must not trip the
	// last-active guard even when no accounts are active at all.
	repo := newStubBankRepo(&domain.BankAccount{ID: "a1", IsActive: false})
	uc := NewBankAccountUsecase(repo)

	require.NoError(t, uc.SetActive(context.Background(), "a1", false))
}
