package postgres

import (
	"context"
	"errors"
	"fmt"

	"caribay-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type shippingRepository struct {
	db *pgxpool.Pool
}

func NewShippingRepository(db *pgxpool.Pool) domain.ShippingRepository {
	return &shippingRepository{db: db}
}

const shippingRuleColumns = `id, country, state, city, is_free, base_cost, is_active, notes, created_at, updated_at`

func scanShippingRule(row pgx.Row) (*domain.ShippingRule, error) {
	var r domain.ShippingRule
	err := row.Scan(&r.ID, &r.Country, &r.State, &r.City, &r.IsFree, &r.BaseCost, &r.IsActive, &r.Notes, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (r *shippingRepository) FindActiveRule(ctx context.Context, country, state string, city *string) (*domain.ShippingRule, error) {
	if city == nil {
		row := r.db.QueryRow(ctx,
			`SELECT `+shippingRuleColumns+` FROM shipping_rules
			 WHERE country = $1 AND state = $2 AND city IS NULL AND is_active`,
			country, state)
		return scanShippingRule(row)
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+shippingRuleColumns+` FROM shipping_rules
		 WHERE country = $1 AND state = $2 AND city = $3 AND is_active`,
		country, state, *city)
	return scanShippingRule(row)
}

func (r *shippingRepository) HasActiveConflict(ctx context.Context, country, state string, city *string, excludeID string) (bool, error) {
	// city IS NOT DISTINCT FROM matches both the NULL (state default)
	// and the exact-city slot with one predicate.
	query := `SELECT EXISTS (
		SELECT 1 FROM shipping_rules
		WHERE country = $1 AND state = $2 AND city IS NOT DISTINCT FROM $3 AND is_active`
	args := []interface{}{country, state, city}
	if excludeID != "" {
		query += ` AND id <> $4`
		args = append(args, excludeID)
	}
	query += `)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *shippingRepository) List(ctx context.Context, filter domain.ShippingRuleFilter) ([]domain.ShippingRule, int64, error) {
	where := `WHERE 1=1`
	args := []interface{}{}

	switch filter.Scope {
	case domain.RuleScopeStates:
		where += ` AND city IS NULL`
	case domain.RuleScopeCities:
		where += ` AND city IS NOT NULL`
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (state ILIKE $%d OR city ILIKE $%d OR notes ILIKE $%d)`, n, n, n)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM shipping_rules `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(
		`SELECT `+shippingRuleColumns+` FROM shipping_rules %s
		 ORDER BY state, city NULLS FIRST
		 LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rules []domain.ShippingRule
	for rows.Next() {
		var rule domain.ShippingRule
		if err := rows.Scan(&rule.ID, &rule.Country, &rule.State, &rule.City, &rule.IsFree, &rule.BaseCost, &rule.IsActive, &rule.Notes, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
			return nil, 0, err
		}
		rules = append(rules, rule)
	}
	return rules, total, rows.Err()
}

func (r *shippingRepository) GetByID(ctx context.Context, id string) (*domain.ShippingRule, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+shippingRuleColumns+` FROM shipping_rules WHERE id = $1`, id)
	return scanShippingRule(row)
}

func (r *shippingRepository) Create(ctx context.Context, rule *domain.ShippingRule) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO shipping_rules (id, country, state, city, is_free, base_cost, is_active, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		rule.ID, rule.Country, rule.State, rule.City, rule.IsFree, rule.BaseCost, rule.IsActive, rule.Notes,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if isUniqueViolation(err, "") {
		// Lost a race with a concurrent writer; same answer as the pre-check.
		return domain.ErrDuplicateRule
	}
	return err
}

func (r *shippingRepository) Update(ctx context.Context, rule *domain.ShippingRule) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE shipping_rules
		 SET country = $2, state = $3, city = $4, is_free = $5, base_cost = $6, is_active = $7, notes = $8, updated_at = now()
		 WHERE id = $1`,
		rule.ID, rule.Country, rule.State, rule.City, rule.IsFree, rule.BaseCost, rule.IsActive, rule.Notes)
	if isUniqueViolation(err, "") {
		return domain.ErrDuplicateRule
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *shippingRepository) UpdateCost(ctx context.Context, id string, isFree bool, baseCost float64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE shipping_rules SET is_free = $2, base_cost = $3, updated_at = now() WHERE id = $1`,
		id, isFree, baseCost)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *shippingRepository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE shipping_rules SET is_active = $2, updated_at = now() WHERE id = $1`,
		id, active)
	if isUniqueViolation(err, "") {
		return domain.ErrDuplicateRule
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *shippingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM shipping_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
