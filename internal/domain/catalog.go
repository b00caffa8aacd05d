package domain

import (
	"context"
	"time"
)

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	SKU         string    `json:"sku"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CategoryID  *string   `json:"categoryId"`
	ImageURL    *string   `json:"imageUrl"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StockAdjustment records a manual inventory change made from the
// console, keeping an audit trail of who moved stock and why.
type StockAdjustment struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	AdminID   string    `json:"adminId"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProductFilter struct {
	Page       int
	Limit      int
	Search     string
	CategoryID string
	ActiveOnly bool
}

type CategoryRepository interface {
	GetAll(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	// ExistsByName matches case-insensitively, optionally excluding one id.
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type ProductRepository interface {
	GetAll(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)

	// Inventory
	AdjustStock(ctx context.Context, adj *StockAdjustment) (newStock int, err error)
	GetAdjustments(ctx context.Context, productID string, limit int) ([]StockAdjustment, error)
	GetLowStock(ctx context.Context, threshold int) ([]Product, error)
}
