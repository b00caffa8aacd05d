package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caribay-backend/internal/domain"
)

type stubCategoryRepo struct {
	categories map[string]*domain.Category
}

func newStubCategoryRepo(categories ...*domain.Category) *stubCategoryRepo {
	r := &stubCategoryRepo{categories: map[string]*domain.Category{}}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	return r
}

func (r *stubCategoryRepo) GetAll(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if c, ok := r.categories[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubCategoryRepo) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	for _, c := range r.categories {
		if c.ID != excludeID && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) Delete(ctx context.Context, id string) error {
	delete(r.categories, id)
	return nil
}

func (r *stubCategoryRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.categories)), nil
}

type stubProductRepo struct {
	products    map[string]*domain.Product
	adjustments []domain.StockAdjustment
}

func newStubProductRepo(products ...*domain.Product) *stubProductRepo {
	r := &stubProductRepo{products: map[string]*domain.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) GetAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	var out []domain.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubProductRepo) Create(ctx context.Context, p *domain.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Update(ctx context.Context, p *domain.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(ctx context.Context, id string) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) AdjustStock(ctx context.Context, adj *domain.StockAdjustment) (int, error) {
	p, ok := r.products[adj.ProductID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	p.Stock += adj.Delta
	r.adjustments = append(r.adjustments, *adj)
	return p.Stock, nil
}

func (r *stubProductRepo) GetAdjustments(ctx context.Context, productID string, limit int) ([]domain.StockAdjustment, error) {
	return r.adjustments, nil
}

func (r *stubProductRepo) GetLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if p.IsActive && p.Stock <= threshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

// stubImageStorage records which object URLs were deleted.
type stubImageStorage struct {
	deleted []string
	err     error
}

func (s *stubImageStorage) DeleteFile(ctx context.Context, fileURL string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, fileURL)
	return nil
}

func imageURL(u string) *string { return &u }

func newCatalogFixture() (*CatalogUsecase, *stubCategoryRepo, *stubProductRepo, *stubImageStorage) {
	categories := newStubCategoryRepo(&domain.Category{ID: "c1", Name: "Snacks"})
	products := newStubProductRepo(
		&domain.Product{ID: "p1", Name: "Cassava Chips", SKU: "CAS-001", Stock: 3, IsActive: true,
			ImageURL: imageURL("https://cdn.example.com/images/chips.webp")},
		&domain.Product{ID: "p2", Name: "Cocoa Bar", SKU: "COC-001", Stock: 40, IsActive: true},
	)
	st := &stubImageStorage{}
	return NewCatalogUsecase(categories, products, st, 5), categories, products, st
}

func TestCreateCategoryDuplicateNameCaseInsensitive(t *testing.T) {
	uc, _, _, _ := newCatalogFixture()

	_, err := uc.CreateCategory(context.Background(), CategoryInput{Name: "  SNACKS "})

	assert.ErrorIs(t, err, domain.ErrDuplicateCategory)
}

func TestUpdateCategoryKeepingOwnNameAllowed(t *testing.T) {
	uc, _, _, _ := newCatalogFixture()

	c, err := uc.UpdateCategory(context.Background(), "c1", CategoryInput{Name: "Snacks"})

	require.NoError(t, err)
	assert.Equal(t, "Snacks", c.Name)
}

func TestCreateCategoryRequiresName(t *testing.T) {
	uc, _, _, _ := newCatalogFixture()

	_, err := uc.CreateCategory(context.Background(), CategoryInput{Name: "   "})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateProductGeneratesSlug(t *testing.T) {
	uc, _, products, _ := newCatalogFixture()

	p, err := uc.CreateProduct(context.Background(), ProductInput{
		Name: "Café del Valle 500g", SKU: "CAF-500", Price: 8.95, IsActive: true,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, p.Slug)
	assert.NotContains(t, p.Slug, " ")
	assert.Contains(t, products.products, p.ID)
}

func TestCreateProductValidation(t *testing.T) {
	uc, _, _, _ := newCatalogFixture()

	for name, in := range map[string]ProductInput{
		"missing name":   {SKU: "X-1", Price: 1},
		"missing sku":    {Name: "Thing", Price: 1},
		"negative price": {Name: "Thing", SKU: "X-1", Price: -2},
	} {
		_, err := uc.CreateProduct(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrValidation, name)
	}
}

func TestAdjustStockAppliesDeltaAndRecordsAudit(t *testing.T) {
	uc, _, products, _ := newCatalogFixture()

	stock, err := uc.AdjustStock(context.Background(), "p1", -2, "damaged in transit", "u-admin")

	require.NoError(t, err)
	assert.Equal(t, 1, stock)
	require.Len(t, products.adjustments, 1)
	assert.Equal(t, "damaged in transit", products.adjustments[0].Reason)
	assert.Equal(t, "u-admin", products.adjustments[0].AdminID)
}

func TestAdjustStockRejectsZeroDeltaAndBlankReason(t *testing.T) {
	uc, _, _, _ := newCatalogFixture()

	_, err := uc.AdjustStock(context.Background(), "p1", 0, "recount", "u-admin")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.AdjustStock(context.Background(), "p1", 5, "   ", "u-admin")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLowStockUsesConfiguredThreshold(t *testing.T) {
	uc, _, _, _ := newCatalogFixture()

	low, err := uc.LowStockProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "p1", low[0].ID)
}

func TestDeleteProductRemovesStoredImage(t *testing.T) {
	uc, _, _, st := newCatalogFixture()

	require.NoError(t, uc.DeleteProduct(context.Background(), "p1"))

	assert.Equal(t, []string{"https://cdn.example.com/images/chips.webp"}, st.deleted)
}

func TestDeleteProductWithoutImageDeletesNothing(t *testing.T) {
	uc, _, _, st := newCatalogFixture()

	require.NoError(t, uc.DeleteProduct(context.Background(), "p2"))

	assert.Empty(t, st.deleted)
}

func TestUpdateProductReplacingImageDeletesOld(t *testing.T) {
	uc, _, _, st := newCatalogFixture()

	_, err := uc.UpdateProduct(context.Background(), "p1", ProductInput{
		Name: "Cassava Chips", SKU: "CAS-001", Price: 3.5, IsActive: true,
		ImageURL: "https://cdn.example.com/images/chips-v2.webp",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/images/chips.webp"}, st.deleted)
}

func TestUpdateProductKeepingImageDeletesNothing(t *testing.T) {
	uc, _, _, st := newCatalogFixture()

	_, err := uc.UpdateProduct(context.Background(), "p1", ProductInput{
		Name: "Cassava Chips", SKU: "CAS-001", Price: 3.5, IsActive: true,
		ImageURL: "https://cdn.example.com/images/chips.webp",
	})

	require.NoError(t, err)
	assert.Empty(t, st.deleted)
}

func TestUpdateCategoryReplacingImageDeletesOld(t *testing.T) {
	uc, categories, _, st := newCatalogFixture()

	old := "https://cdn.example.com/images/snacks.webp"
	categories.categories["c1"].ImageURL = &old

	_, err := uc.UpdateCategory(context.Background(), "c1", CategoryInput{
		Name: "Snacks", ImageURL: "https://cdn.example.com/images/snacks-v2.webp",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{old}, st.deleted)
}
