package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caribay-backend/internal/domain"
)

func TestStatsOverviewAggregates(t *testing.T) {
	orders := newStubOrderRepo(
		&domain.Order{ID: "o1", Status: "pending"},
		&domain.Order{ID: "o2", Status: "pending"},
		&domain.Order{ID: "o3", Status: "completed"},
	)
	products := newStubProductRepo(
		&domain.Product{ID: "p1", Stock: 2, IsActive: true},
		&domain.Product{ID: "p2", Stock: 90, IsActive: true},
	)
	categories := newStubCategoryRepo(&domain.Category{ID: "c1", Name: "Snacks"})

	uc := NewStatsUsecase(orders, products, categories, newFakeCache(), time.Minute, 5)

	stats, err := uc.Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.OrdersByStatus["pending"])
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.TotalCategories)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.False(t, stats.GeneratedAt.IsZero())
}

func TestStatsOverviewServedFromCache(t *testing.T) {
	orders := newStubOrderRepo(&domain.Order{ID: "o1", Status: "pending"})
	products := newStubProductRepo()
	categories := newStubCategoryRepo()
	cache := newFakeCache()

	uc := NewStatsUsecase(orders, products, categories, cache, time.Minute, 5)

	first, err := uc.Overview(context.Background())
	require.NoError(t, err)

	// New orders do not show up until the cached entry expires.
	orders.orders["o2"] = &domain.Order{ID: "o2", Status: "pending"}

	second, err := uc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalOrders, second.TotalOrders)

	cache.Delete("stats:overview")

	third, err := uc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), third.TotalOrders)
}
