package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailfx/pkg/contracts/domain"
)

func productRows() []domain.TransactionRow {
	return prepared(
		row("536365", "85123A", "17850", "United Kingdom", 6, 2.55, onDay(0)),
		row("536366", "85123A", "13047", "United Kingdom", 6, 2.95, onDay(1)),
		row("536367", "85123A", "17850", "France", 8, 2.55, onDay(2)),
		row("536368", "71053", "13047", "United Kingdom", 6, 3.39, onDay(2)),
		row("536369", "POST", "", "France", 1, 0, onDay(3)),
	)
}

func TestBuildProductProfiles(t *testing.T) {
	profiles, warnings, err := BuildProductProfiles(productRows())
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	assert.Equal(t, []string{"71053", "85123A", "POST"},
		[]string{profiles[0].StockCode, profiles[1].StockCode, profiles[2].StockCode})

	p := profiles[1]
	assert.Equal(t, "ITEM 85123A", p.Description)
	assert.Equal(t, 2.68, p.AvgPrice)
	assert.Equal(t, 0.23, p.PriceStd)
	assert.Equal(t, 2.55, p.MinPrice)
	assert.Equal(t, 2.95, p.MaxPrice)
	assert.Equal(t, int64(20), p.TotalQuantitySold)
	assert.Equal(t, 6.67, p.AvgQuantityPerOrder)
	assert.Equal(t, 3, p.TotalOrders)
	assert.Equal(t, 53.4, p.TotalRevenue)
	assert.Equal(t, 17.8, p.AvgRevenuePerOrder)
	assert.Equal(t, 2, p.UniqueCustomers)
	assert.Equal(t, 2, p.CountriesServed)
	assert.InDelta(t, 0.23/2.68, p.PriceVariability, 1e-12)
	assert.Equal(t, 1.0, p.PopularityScore)
	assert.Equal(t, 26.7, p.RevenuePerCustomer)
	assert.Equal(t, domain.ProductStar, p.Category)

	post := profiles[2]
	assert.Equal(t, 1, post.UniqueCustomers, "sentinel customer counts as one")
	assert.True(t, math.IsNaN(post.PriceStd))
	assert.True(t, math.IsNaN(post.PriceVariability))
	assert.InDelta(t, 1.0/3.0, post.PopularityScore, 1e-12)
	assert.Equal(t, domain.ProductLowPerformer, post.Category)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "2 products")
}

func TestBuildProductProfiles_ZeroAveragePrice(t *testing.T) {
	rows := prepared(
		row("1", "GIFT", "1", "UK", 1, 0, onDay(0)),
		row("2", "GIFT", "2", "UK", 1, 0, onDay(0)),
	)
	profiles, _, err := BuildProductProfiles(rows)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	assert.Equal(t, 0.0, profiles[0].PriceStd)
	assert.True(t, math.IsNaN(profiles[0].PriceVariability))
	assert.Equal(t, 1.0, profiles[0].PopularityScore)
}

func TestBuildProductProfiles_MaxPopularityIsExact(t *testing.T) {
	profiles, _, err := BuildProductProfiles(productRows())
	require.NoError(t, err)

	maxScore := 0.0
	for _, p := range profiles {
		assert.GreaterOrEqual(t, p.PopularityScore, 0.0)
		assert.LessOrEqual(t, p.PopularityScore, 1.0)
		maxScore = math.Max(maxScore, p.PopularityScore)
	}
	assert.Equal(t, 1.0, maxScore)
}
