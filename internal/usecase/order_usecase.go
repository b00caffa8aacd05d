package usecase

import (
	"context"
	"time"

	"caribay-backend/internal/domain"
)

// ProofStorage is the slice of object storage the order module needs:
// private proof uploads and time-limited read access to them.
type ProofStorage interface {
	UploadProof(ctx context.Context, data []byte, contentType string) (string, error)
	PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type OrderUsecase struct {
	orderRepo   domain.OrderRepository
	storage     ProofStorage
	proofExpiry time.Duration
}

func NewOrderUsecase(orderRepo domain.OrderRepository, storage ProofStorage, proofExpiry time.Duration) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:   orderRepo,
		storage:     storage,
		proofExpiry: proofExpiry,
	}
}

func (u *OrderUsecase) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Status != "" && !domain.ValidOrderStatus(filter.Status) {
		return nil, 0, domain.ErrInvalidStatus
	}
	return u.orderRepo.GetAll(ctx, filter)
}

// GetOrder returns the order with its line items loaded.
func (u *OrderUsecase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := u.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := u.orderRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (u *OrderUsecase) UpdateStatus(ctx context.Context, id, status string) error {
	if !domain.ValidOrderStatus(status) {
		return domain.ErrInvalidStatus
	}
	return u.orderRepo.UpdateStatus(ctx, id, status)
}

// PaymentProofURL presigns a read of the order's stored payment proof.
// The expiry is deployment policy (config), not a fixed contract.
func (u *OrderUsecase) PaymentProofURL(ctx context.Context, orderID string) (string, error) {
	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.PaymentProofPath == nil || *order.PaymentProofPath == "" {
		return "", domain.ErrNoPaymentProof
	}
	return u.storage.PresignURL(ctx, *order.PaymentProofPath, u.proofExpiry)
}

// AttachPaymentProof stores an uploaded proof image and records its
// object key on the order. The key is private; viewing always goes
// through PaymentProofURL.
func (u *OrderUsecase) AttachPaymentProof(ctx context.Context, orderID string, data []byte, contentType string) (string, error) {
	if _, err := u.orderRepo.GetByID(ctx, orderID); err != nil {
		return "", err
	}

	key, err := u.storage.UploadProof(ctx, data, contentType)
	if err != nil {
		return "", err
	}

	if err := u.orderRepo.SetPaymentProofPath(ctx, orderID, key); err != nil {
		return "", err
	}
	return key, nil
}
