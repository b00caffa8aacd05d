package usecase

import (
	"context"
	"time"

	"caribay-backend/internal/domain"
	"caribay-backend/pkg/cache"
)

// DashboardStats feeds the console landing page.
type DashboardStats struct {
	OrdersByStatus  map[string]int64 `json:"ordersByStatus"`
	TotalOrders     int64            `json:"totalOrders"`
	TotalProducts   int64            `json:"totalProducts"`
	TotalCategories int64            `json:"totalCategories"`
	LowStockCount   int              `json:"lowStockCount"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}

type StatsUsecase struct {
	orderRepo         domain.OrderRepository
	productRepo       domain.ProductRepository
	categoryRepo      domain.CategoryRepository
	cache             cache.CacheService
	ttl               time.Duration
	lowStockThreshold int
}

func NewStatsUsecase(
	orderRepo domain.OrderRepository,
	productRepo domain.ProductRepository,
	categoryRepo domain.CategoryRepository,
	cacheSvc cache.CacheService,
	ttl time.Duration,
	lowStockThreshold int,
) *StatsUsecase {
	return &StatsUsecase{
		orderRepo:         orderRepo,
		productRepo:       productRepo,
		categoryRepo:      categoryRepo,
		cache:             cacheSvc,
		ttl:               ttl,
		lowStockThreshold: lowStockThreshold,
	}
}

const statsCacheKey = "stats:overview"

// Overview aggregates dashboard counts, served from cache within the
// configured TTL. Slightly stale numbers are fine on a dashboard.
func (u *StatsUsecase) Overview(ctx context.Context) (*DashboardStats, error) {
	if v, ok := u.cache.Get(statsCacheKey); ok {
		if stats, ok := v.(*DashboardStats); ok {
			return stats, nil
		}
	}

	byStatus, err := u.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var totalOrders int64
	for _, n := range byStatus {
		totalOrders += n
	}

	totalProducts, err := u.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalCategories, err := u.categoryRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	lowStock, err := u.productRepo.GetLowStock(ctx, u.lowStockThreshold)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		OrdersByStatus:  byStatus,
		TotalOrders:     totalOrders,
		TotalProducts:   totalProducts,
		TotalCategories: totalCategories,
		LowStockCount:   len(lowStock),
		GeneratedAt:     time.Now(),
	}

	u.cache.Set(statsCacheKey, stats, u.ttl)
	return stats, nil
}
