package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "retailfx/internal/errors"
)

func TestBuildCountryProfiles(t *testing.T) {
	profiles, err := BuildCountryProfiles(productRows())
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	fr, uk := profiles[0], profiles[1]
	assert.Equal(t, "France", fr.Country)
	assert.Equal(t, 20.4, fr.TotalRevenue)
	assert.Equal(t, 10.2, fr.AvgRevenue)
	assert.Equal(t, 2, fr.TotalTransactions)
	assert.Equal(t, 2, fr.UniqueCustomers)
	assert.Equal(t, 2, fr.UniqueProducts)
	assert.Equal(t, int64(9), fr.TotalQuantity)
	assert.Equal(t, 4.5, fr.AvgQuantity)
	assert.InDelta(t, 1.275, fr.AvgUnitPrice, 0.0051)
	assert.Equal(t, 10.2, fr.RevenuePerCustomer)
	assert.Equal(t, 1.0, fr.TransactionsPerCustomer)

	assert.Equal(t, "United Kingdom", uk.Country)
	assert.Equal(t, 53.34, uk.TotalRevenue)
	assert.Equal(t, 3, uk.TotalTransactions)
	assert.Equal(t, 2, uk.UniqueCustomers)
	assert.Equal(t, 1.5, uk.TransactionsPerCustomer)

	assert.InDelta(t, 20.4/73.74, fr.MarketShare, 1e-12)
	assert.InDelta(t, 1.0, fr.MarketShare+uk.MarketShare, 1e-6)
}

func TestBuildCountryProfiles_ZeroTotalRevenue(t *testing.T) {
	rows := prepared(
		row("1", "A", "1", "UK", 1, 5, onDay(0)),
		row("C2", "A", "1", "UK", -1, 5, onDay(0)),
	)
	_, err := BuildCountryProfiles(rows)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvariant(err))
}
