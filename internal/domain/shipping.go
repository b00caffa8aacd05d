package domain

import (
	"context"
	"time"
)

// ShippingRule configures delivery cost for a destination. A rule with
// City == nil is the state-wide default; a rule with a city set overrides
// the default for that exact city. City matching is case-sensitive.
type ShippingRule struct {
	ID        string    `json:"id"`
	Country   string    `json:"country"`
	State     string    `json:"state"`
	City      *string   `json:"city"` // nil = applies to the whole state
	IsFree    bool      `json:"isFree"`
	BaseCost  float64   `json:"baseCost"`
	IsActive  bool      `json:"isActive"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ShippingQuote is the result of resolving a destination against the
// active rule set. It is always well-formed: resolution failures surface
// as Available == false with an explanatory message, never as an error.
type ShippingQuote struct {
	Available bool    `json:"available"`
	Cost      float64 `json:"cost"`
	IsFree    bool    `json:"isFree"`
	RuleID    string  `json:"ruleId,omitempty"`
	Message   string  `json:"message"`
}

// ShippingRuleFilter narrows admin rule listings.
// Scope "states" selects state defaults, "cities" selects city overrides.
type ShippingRuleFilter struct {
	Page   int
	Limit  int
	Scope  string
	Search string
}

const (
	RuleScopeStates = "states"
	RuleScopeCities = "cities"
)

type ShippingRepository interface {
	// FindActiveRule returns the active rule matching country+state and
	// the given city (nil for the state default), or ErrNotFound.
	FindActiveRule(ctx context.Context, country, state string, city *string) (*ShippingRule, error)

	// HasActiveConflict reports whether an active rule other than
	// excludeID exists for the same (country, state, city-or-null) slot.
	HasActiveConflict(ctx context.Context, country, state string, city *string, excludeID string) (bool, error)

	List(ctx context.Context, filter ShippingRuleFilter) ([]ShippingRule, int64, error)
	GetByID(ctx context.Context, id string) (*ShippingRule, error)
	Create(ctx context.Context, rule *ShippingRule) error
	Update(ctx context.Context, rule *ShippingRule) error
	UpdateCost(ctx context.Context, id string, isFree bool, baseCost float64) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}
