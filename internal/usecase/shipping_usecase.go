package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"caribay-backend/internal/domain"
	"caribay-backend/pkg/logger"

	"github.com/google/uuid"
)

// ShippingUsecase resolves shipping quotes for destinations and manages
// the rule set behind them.
type ShippingUsecase struct {
	repo domain.ShippingRepository
}

func NewShippingUsecase(repo domain.ShippingRepository) *ShippingUsecase {
	return &ShippingUsecase{repo: repo}
}

const (
	msgFreeShipping   = "Free shipping"
	msgNotAvailable   = "Shipping is not available for this destination"
	msgResolveFailure = "Unable to calculate shipping cost, please try again"
)

// Resolve picks the most specific active rule for the destination: an
// exact city match wins over the state-wide default. It never returns
// an error; lookup failures yield an unavailable quote with a generic
// message so callers always get a well-formed result.
func (u *ShippingUsecase) Resolve(ctx context.Context, country, state, city string) domain.ShippingQuote {
	if strings.TrimSpace(country) == "" || strings.TrimSpace(state) == "" {
		return domain.ShippingQuote{Available: false, Cost: 0, Message: msgNotAvailable}
	}

	rule, err := u.findRule(ctx, country, state, city)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ShippingQuote{Available: false, Cost: 0, Message: msgNotAvailable}
		}
		logger.WithContext(ctx).Error().Err(err).
			Str("country", country).Str("state", state).Str("city", city).
			Msg("shipping rule lookup failed")
		return domain.ShippingQuote{Available: false, Cost: 0, Message: msgResolveFailure}
	}

	cost := rule.BaseCost
	message := fmt.Sprintf("Shipping cost: $%.2f", cost)
	if rule.IsFree {
		cost = 0
		message = msgFreeShipping
	}

	return domain.ShippingQuote{
		Available: true,
		Cost:      cost,
		IsFree:    rule.IsFree,
		RuleID:    rule.ID,
		Message:   message,
	}
}

// findRule applies the priority order: active city rule, then active
// state default. A whitespace-only city is treated as absent. City
// matching is exact and case-sensitive.
func (u *ShippingUsecase) findRule(ctx context.Context, country, state, city string) (*domain.ShippingRule, error) {
	if c := strings.TrimSpace(city); c != "" {
		rule, err := u.repo.FindActiveRule(ctx, country, state, &c)
		if err == nil {
			return rule, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return u.repo.FindActiveRule(ctx, country, state, nil)
}

// ShippingRuleInput is the admin form payload for creating/updating a rule.
type ShippingRuleInput struct {
	Country  string  `json:"country"`
	State    string  `json:"state"`
	City     string  `json:"city"`
	IsFree   bool    `json:"isFree"`
	BaseCost float64 `json:"baseCost"`
	Notes    string  `json:"notes"`
	IsActive bool    `json:"isActive"`
}

func (in *ShippingRuleInput) normalize() (*domain.ShippingRule, error) {
	country := strings.TrimSpace(in.Country)
	state := strings.TrimSpace(in.State)
	if country == "" {
		return nil, domain.Validationf("country is required")
	}
	if state == "" {
		return nil, domain.Validationf("state is required")
	}
	if in.BaseCost < 0 {
		return nil, domain.Validationf("base cost cannot be negative")
	}

	rule := &domain.ShippingRule{
		Country:  country,
		State:    state,
		IsFree:   in.IsFree,
		BaseCost: in.BaseCost,
		IsActive: in.IsActive,
	}
	if rule.IsFree {
		rule.BaseCost = 0
	}
	if c := strings.TrimSpace(in.City); c != "" {
		rule.City = &c
	}
	if n := strings.TrimSpace(in.Notes); n != "" {
		rule.Notes = &n
	}
	return rule, nil
}

func (u *ShippingUsecase) ListRules(ctx context.Context, filter domain.ShippingRuleFilter) ([]domain.ShippingRule, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 25
	}
	return u.repo.List(ctx, filter)
}

func (u *ShippingUsecase) GetRule(ctx context.Context, id string) (*domain.ShippingRule, error) {
	return u.repo.GetByID(ctx, id)
}

// CreateRule validates the form, pre-checks the uniqueness invariant
// for a friendly conflict message, and inserts. The partial unique
// indexes catch any race the pre-check misses.
func (u *ShippingUsecase) CreateRule(ctx context.Context, in ShippingRuleInput) (*domain.ShippingRule, error) {
	rule, err := in.normalize()
	if err != nil {
		return nil, err
	}

	if rule.IsActive {
		conflict, err := u.repo.HasActiveConflict(ctx, rule.Country, rule.State, rule.City, "")
		if err != nil {
			return nil, fmt.Errorf("duplicate check failed: %w", err)
		}
		if conflict {
			return nil, domain.ErrDuplicateRule
		}
	}

	rule.ID = uuid.New().String()
	if err := u.repo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (u *ShippingUsecase) UpdateRule(ctx context.Context, id string, in ShippingRuleInput) (*domain.ShippingRule, error) {
	rule, err := in.normalize()
	if err != nil {
		return nil, err
	}

	if rule.IsActive {
		conflict, err := u.repo.HasActiveConflict(ctx, rule.Country, rule.State, rule.City, id)
		if err != nil {
			return nil, fmt.Errorf("duplicate check failed: %w", err)
		}
		if conflict {
			return nil, domain.ErrDuplicateRule
		}
	}

	rule.ID = id
	if err := u.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// UpdateRuleCost is the inline edit on state-default listings: only
// free-ness and cost change. Free rules are stored with cost 0.
func (u *ShippingUsecase) UpdateRuleCost(ctx context.Context, id string, isFree bool, baseCost float64) error {
	if baseCost < 0 {
		return domain.Validationf("base cost cannot be negative")
	}
	if isFree {
		baseCost = 0
	}
	return u.repo.UpdateCost(ctx, id, isFree, baseCost)
}

// ToggleRule activates or deactivates a rule. Deactivating the sole
// default for a state is allowed; the resolver simply reports that
// destination as unavailable afterwards.
func (u *ShippingUsecase) ToggleRule(ctx context.Context, id string, active bool) error {
	return u.repo.SetActive(ctx, id, active)
}

func (u *ShippingUsecase) DeleteRule(ctx context.Context, id string) error {
	return u.repo.Delete(ctx, id)
}
