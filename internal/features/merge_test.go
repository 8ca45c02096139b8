package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "retailfx/internal/errors"
	"retailfx/pkg/contracts/domain"
)

func TestResolveColumns(t *testing.T) {
	got := ResolveColumns([]string{"InvoiceNo", "CustomerID", "Revenue"}, CustomerJoin, ProductJoin, CountryJoin)

	assert.Equal(t, []string{
		"InvoiceNo", "CustomerID", "Revenue",
		"CustomerSegment", "RecencyScore", "FrequencyScore", "MonetaryScore",
		"RFM_Score", "TotalRevenue", "Frequency", "Recency",
		"ProductCategory", "PopularityScore", "TotalRevenue_product", "UniqueCustomers",
		"MarketShare", "RevenuePerCustomer", "TransactionsPerCustomer",
	}, got)
}

func TestResolveColumns_CollisionWithBase(t *testing.T) {
	got := ResolveColumns([]string{"Recency"}, JoinSpec{Suffix: "_customer", Columns: []string{"Recency"}})
	assert.Equal(t, []string{"Recency", "Recency_customer"}, got)
}

func buildAll(t *testing.T, rows []domain.TransactionRow) ([]domain.CustomerProfile, []domain.ProductProfile, []domain.CountryProfile) {
	t.Helper()
	customers, _, err := BuildCustomerProfiles(rows, TieBreakUniform)
	require.NoError(t, err)
	products, _, err := BuildProductProfiles(rows)
	require.NoError(t, err)
	countries, err := BuildCountryProfiles(rows)
	require.NoError(t, err)
	return customers, products, countries
}

func TestMergeFeatures(t *testing.T) {
	rows := productRows()
	customers, products, countries := buildAll(t, rows)

	require.NoError(t, MergeFeatures(rows, customers, products, countries))
	require.Len(t, rows, 5, "merge preserves row count")

	first := rows[0]
	assert.Equal(t, "17850", first.CustomerID)
	assert.Equal(t, 3, len(first.Customer.RFMScore))
	assert.NotEmpty(t, first.Customer.Segment)
	assert.Equal(t, 2, first.Customer.Frequency)
	assert.Equal(t, 35.7, first.Customer.TotalRevenue)
	assert.Equal(t, 53.4, first.Product.TotalRevenue)
	assert.Equal(t, domain.ProductStar, first.Product.Category)
	assert.Equal(t, 2, first.Product.UniqueCustomers)
	assert.Greater(t, first.Market.MarketShare, 0.5)

	post := rows[4]
	assert.Equal(t, domain.UnknownCustomer, post.CustomerID)
	assert.Equal(t, domain.ProductLowPerformer, post.Product.Category)
}

func TestMergeFeatures_MissingKey(t *testing.T) {
	rows := productRows()
	customers, products, countries := buildAll(t, rows)

	err := MergeFeatures(rows, customers[1:], products, countries)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvariant(err))
}
