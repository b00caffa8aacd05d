package postgres

import (
	"context"
	"errors"
	"fmt"

	"caribay-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type categoryRepository struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, image_url, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, image_url, created_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE lower(name) = lower($1)`
	args := []interface{}{name}
	if excludeID != "" {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}
	query += `)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO categories (id, name, description, image_url)
		 VALUES ($1, $2, $3, $4) RETURNING created_at`,
		c.ID, c.Name, c.Description, c.ImageURL,
	).Scan(&c.CreatedAt)
	if isUniqueViolation(err, "idx_categories_name_ci") {
		return domain.ErrDuplicateCategory
	}
	return err
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET name = $2, description = $3, image_url = $4 WHERE id = $1`,
		c.ID, c.Name, c.Description, c.ImageURL)
	if isUniqueViolation(err, "idx_categories_name_ci") {
		return domain.ErrDuplicateCategory
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return domain.ErrCategoryInUse
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count)
	return count, err
}

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, slug, sku, description, price, stock, category_id, image_url, is_active, created_at, updated_at`

func (r *productRepository) GetAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	where := `WHERE 1=1`
	args := []interface{}{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (name ILIKE $%d OR sku ILIKE $%d)`, n, n)
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		where += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	if filter.ActiveOnly {
		where += ` AND is_active`
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(
		`SELECT `+productColumns+` FROM products %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.SKU, &p.Description, &p.Price, &p.Stock,
			&p.CategoryID, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Slug, &p.SKU, &p.Description, &p.Price, &p.Stock,
		&p.CategoryID, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (id, name, slug, sku, description, price, stock, category_id, image_url, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Slug, p.SKU, p.Description, p.Price, p.Stock, p.CategoryID, p.ImageURL, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err, "products_sku_key") {
		return domain.ErrDuplicateSKU
	}
	return err
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products
		 SET name = $2, slug = $3, sku = $4, description = $5, price = $6, category_id = $7, image_url = $8, is_active = $9, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.Name, p.Slug, p.SKU, p.Description, p.Price, p.CategoryID, p.ImageURL, p.IsActive)
	if isUniqueViolation(err, "products_sku_key") {
		return domain.ErrDuplicateSKU
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

// AdjustStock applies the delta and records the adjustment in one
// transaction so the audit log can never drift from the stock column.
func (r *productRepository) AdjustStock(ctx context.Context, adj *domain.StockAdjustment) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var newStock int
	err = tx.QueryRow(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1 RETURNING stock`,
		adj.ProductID, adj.Delta,
	).Scan(&newStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO stock_adjustments (id, product_id, delta, reason, admin_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		adj.ID, adj.ProductID, adj.Delta, adj.Reason, adj.AdminID,
	).Scan(&adj.CreatedAt)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newStock, nil
}

func (r *productRepository) GetAdjustments(ctx context.Context, productID string, limit int) ([]domain.StockAdjustment, error) {
	query := `SELECT id, product_id, delta, reason, admin_id, created_at FROM stock_adjustments`
	args := []interface{}{}
	if productID != "" {
		args = append(args, productID)
		query += ` WHERE product_id = $1`
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []domain.StockAdjustment
	for rows.Next() {
		var a domain.StockAdjustment
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Delta, &a.Reason, &a.AdminID, &a.CreatedAt); err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

func (r *productRepository) GetLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE is_active AND stock <= $1 ORDER BY stock ASC`, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.SKU, &p.Description, &p.Price, &p.Stock,
			&p.CategoryID, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
