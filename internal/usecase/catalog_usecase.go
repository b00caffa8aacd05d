package usecase

import (
	"context"
	"fmt"
	"strings"

	"caribay-backend/internal/domain"
	"caribay-backend/pkg/logger"
	"caribay-backend/pkg/utils"

	"github.com/google/uuid"
)

// ImageStorage is the slice of object storage the catalog needs:
// removing public images that records no longer reference.
type ImageStorage interface {
	DeleteFile(ctx context.Context, fileURL string) error
}

type CatalogUsecase struct {
	categoryRepo      domain.CategoryRepository
	productRepo       domain.ProductRepository
	storage           ImageStorage
	lowStockThreshold int
}

func NewCatalogUsecase(categoryRepo domain.CategoryRepository, productRepo domain.ProductRepository, storage ImageStorage, lowStockThreshold int) *CatalogUsecase {
	return &CatalogUsecase{
		categoryRepo:      categoryRepo,
		productRepo:       productRepo,
		storage:           storage,
		lowStockThreshold: lowStockThreshold,
	}
}

// removeImage is best effort: a dangling object in the bucket is
// preferable to failing the record operation that already committed.
func (u *CatalogUsecase) removeImage(ctx context.Context, url *string) {
	if url == nil || *url == "" {
		return
	}
	if err := u.storage.DeleteFile(ctx, *url); err != nil {
		logger.WithContext(ctx).Warn().Err(err).Str("url", *url).Msg("orphaned image cleanup failed")
	}
}

// --- Categories ---

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

func (in *CategoryInput) normalize() (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validationf("category name is required")
	}

	c := &domain.Category{Name: name}
	if d := strings.TrimSpace(in.Description); d != "" {
		c.Description = &d
	}
	if img := strings.TrimSpace(in.ImageURL); img != "" {
		c.ImageURL = &img
	}
	return c, nil
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return u.categoryRepo.GetAll(ctx)
}

// CreateCategory rejects names that already exist, compared
// case-insensitively. The unique index on lower(name) backs this up
// against concurrent writers.
func (u *CatalogUsecase) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	c, err := in.normalize()
	if err != nil {
		return nil, err
	}

	exists, err := u.categoryRepo.ExistsByName(ctx, c.Name, "")
	if err != nil {
		return nil, fmt.Errorf("duplicate check failed: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateCategory
	}

	c.ID = uuid.New().String()
	if err := u.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *CatalogUsecase) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	c, err := in.normalize()
	if err != nil {
		return nil, err
	}

	exists, err := u.categoryRepo.ExistsByName(ctx, c.Name, id)
	if err != nil {
		return nil, fmt.Errorf("duplicate check failed: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateCategory
	}

	current, err := u.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.ID = id
	if err := u.categoryRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	if replacedImage(current.ImageURL, c.ImageURL) {
		u.removeImage(ctx, current.ImageURL)
	}
	return c, nil
}

// DeleteCategory surfaces ErrCategoryInUse when products still
// reference the category, mapped from the FK violation by the repo.
// The category image is removed only after the row is gone, so a
// blocked delete keeps its image.
func (u *CatalogUsecase) DeleteCategory(ctx context.Context, id string) error {
	current, err := u.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	u.removeImage(ctx, current.ImageURL)
	return nil
}

// replacedImage reports whether old points at an object that new no
// longer references.
func replacedImage(old, new *string) bool {
	if old == nil || *old == "" {
		return false
	}
	return new == nil || *new != *old
}

// --- Products ---

type ProductInput struct {
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	CategoryID  string  `json:"categoryId"`
	ImageURL    string  `json:"imageUrl"`
	IsActive    bool    `json:"isActive"`
}

func (in *ProductInput) normalize() (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validationf("product name is required")
	}
	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		return nil, domain.Validationf("SKU is required")
	}
	if in.Price < 0 {
		return nil, domain.Validationf("price cannot be negative")
	}

	p := &domain.Product{
		Name:     name,
		SKU:      sku,
		Slug:     utils.GenerateSlug(name),
		Price:    in.Price,
		Stock:    in.Stock,
		IsActive: in.IsActive,
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		p.Description = &d
	}
	if c := strings.TrimSpace(in.CategoryID); c != "" {
		p.CategoryID = &c
	}
	if img := strings.TrimSpace(in.ImageURL); img != "" {
		p.ImageURL = &img
	}
	return p, nil
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	return u.productRepo.GetAll(ctx, filter)
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return u.productRepo.GetByID(ctx, id)
}

func (u *CatalogUsecase) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p, err := in.normalize()
	if err != nil {
		return nil, err
	}
	p.ID = uuid.New().String()
	if err := u.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct edits product fields but never stock: stock only moves
// through AdjustStock so the audit log stays complete. The updated row
// is re-read to return the authoritative state. A replaced image is
// deleted from storage once the update commits.
func (u *CatalogUsecase) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	p, err := in.normalize()
	if err != nil {
		return nil, err
	}

	current, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.ID = id
	if err := u.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	if replacedImage(current.ImageURL, p.ImageURL) {
		u.removeImage(ctx, current.ImageURL)
	}
	return u.productRepo.GetByID(ctx, id)
}

func (u *CatalogUsecase) DeleteProduct(ctx context.Context, id string) error {
	current, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	u.removeImage(ctx, current.ImageURL)
	return nil
}

// --- Inventory ---

// AdjustStock applies a manual stock delta with an audit reason and
// returns the resulting stock level.
func (u *CatalogUsecase) AdjustStock(ctx context.Context, productID string, delta int, reason, adminID string) (int, error) {
	if delta == 0 {
		return 0, domain.Validationf("stock adjustment cannot be zero")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return 0, domain.Validationf("adjustment reason is required")
	}

	adj := &domain.StockAdjustment{
		ID:        uuid.New().String(),
		ProductID: productID,
		Delta:     delta,
		Reason:    reason,
		AdminID:   adminID,
	}
	return u.productRepo.AdjustStock(ctx, adj)
}

func (u *CatalogUsecase) StockAdjustments(ctx context.Context, productID string, limit int) ([]domain.StockAdjustment, error) {
	if limit < 1 {
		limit = 50
	}
	return u.productRepo.GetAdjustments(ctx, productID, limit)
}

func (u *CatalogUsecase) LowStockProducts(ctx context.Context) ([]domain.Product, error) {
	return u.productRepo.GetLowStock(ctx, u.lowStockThreshold)
}
