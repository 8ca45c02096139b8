package features

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "retailfx/internal/errors"
	"retailfx/pkg/contracts/domain"
)

func TestAggregateCustomers(t *testing.T) {
	profiles := AggregateCustomers(twoCustomerRows())
	require.Len(t, profiles, 2)

	c1, c2 := profiles[0], profiles[1]
	assert.Equal(t, "C1", c1.CustomerID)
	assert.Equal(t, onDay(0), c1.FirstPurchase)
	assert.Equal(t, onDay(36), c1.LastPurchase)
	assert.Equal(t, 2, c1.TotalTransactions)
	assert.Equal(t, 2, c1.UniqueInvoices)
	assert.Equal(t, 150.0, c1.TotalRevenue)
	assert.Equal(t, 75.0, c1.AvgRevenue)
	assert.Equal(t, 35.36, c1.StdRevenue)
	assert.Equal(t, int64(15), c1.TotalQuantity)
	assert.Equal(t, 7.5, c1.AvgQuantity)
	assert.Equal(t, "United Kingdom", c1.Country)
	assert.Equal(t, 36, c1.CustomerLifespanDays)
	assert.Equal(t, 0, c1.RecencyDays)
	assert.Equal(t, 2, c1.Frequency)
	assert.Equal(t, 150.0, c1.Monetary)

	assert.Equal(t, "C2", c2.CustomerID)
	assert.Equal(t, 21, c2.RecencyDays)
	assert.Equal(t, 1, c2.Frequency)
	assert.Equal(t, 0, c2.CustomerLifespanDays)
	assert.True(t, math.IsNaN(c2.StdRevenue))
}

func TestAggregateCustomers_PartialDays(t *testing.T) {
	rows := prepared(
		row("1", "A", "X", "UK", 1, 1, onDay(0)),
		row("2", "A", "X", "UK", 1, 1, onDay(2).Add(-time.Hour)),
		row("3", "A", "Y", "UK", 1, 1, onDay(3)),
	)
	profiles := AggregateCustomers(rows)
	require.Len(t, profiles, 2)

	assert.Equal(t, 1, profiles[0].CustomerLifespanDays, "47 hours is one whole day")
	assert.Equal(t, 1, profiles[0].RecencyDays, "25 hours is one whole day")
}

func TestAggregateCustomers_UniqueInvoices(t *testing.T) {
	rows := prepared(
		row("536365", "A", "17850", "United Kingdom", 6, 2.55, onDay(0)),
		row("536365", "B", "17850", "United Kingdom", 6, 3.39, onDay(0)),
		row("536366", "A", "17850", "Norway", 6, 1.85, onDay(1)),
	)
	profiles := AggregateCustomers(rows)
	require.Len(t, profiles, 1)

	assert.Equal(t, 3, profiles[0].TotalTransactions)
	assert.Equal(t, 2, profiles[0].UniqueInvoices)
	assert.Equal(t, "United Kingdom", profiles[0].Country, "first observed country wins")
}

func TestScoreRFM_TwoCustomerScenario(t *testing.T) {
	for _, mode := range []TieBreakMode{TieBreakUniform, TieBreakFrequencyOnly} {
		t.Run(string(mode), func(t *testing.T) {
			profiles := AggregateCustomers(twoCustomerRows())
			require.NoError(t, ScoreRFM(profiles, mode))

			c1, c2 := profiles[0], profiles[1]
			assert.GreaterOrEqual(t, c1.RecencyScore, c2.RecencyScore)
			assert.GreaterOrEqual(t, c1.FrequencyScore, c2.FrequencyScore)

			assert.Equal(t, 5, c1.RecencyScore)
			assert.Equal(t, 5, c1.FrequencyScore)
			assert.Equal(t, 1, c1.MonetaryScore)
			assert.Equal(t, "551", c1.RFMScore)
			assert.Equal(t, domain.SegmentPotentialLoyalists, c1.Segment)

			assert.Equal(t, "115", c2.RFMScore)
			assert.Equal(t, domain.SegmentLostCustomers, c2.Segment)
		})
	}
}

func TestScoreRFM_TiedRecency(t *testing.T) {
	var rows []domain.TransactionRow
	for i := 0; i < 10; i++ {
		rows = append(rows, row(fmt.Sprintf("5%05d", i), "A", fmt.Sprintf("C%02d", i), "UK", int64(i+1), 1, onDay(30)))
	}
	rows = prepared(rows...)

	t.Run("uniform ranks ties apart", func(t *testing.T) {
		profiles := AggregateCustomers(rows)
		require.NoError(t, ScoreRFM(profiles, TieBreakUniform))
		for _, p := range profiles {
			assert.GreaterOrEqual(t, p.RecencyScore, 1)
			assert.LessOrEqual(t, p.RecencyScore, 5)
		}
	})

	t.Run("frequency-only surfaces collapsed edges", func(t *testing.T) {
		profiles := AggregateCustomers(rows)
		err := ScoreRFM(profiles, TieBreakFrequencyOnly)
		require.Error(t, err)
		assert.True(t, apperrors.IsDataQuality(err))
		assert.Contains(t, err.Error(), "Recency")
	})
}

func TestScoreRFM_SingleCustomer(t *testing.T) {
	profiles := AggregateCustomers(prepared(row("1", "A", "X", "UK", 1, 1, onDay(0))))
	err := ScoreRFM(profiles, TieBreakUniform)
	assert.True(t, apperrors.IsDataQuality(err))
}

func TestSegment(t *testing.T) {
	tests := []struct {
		r, f, m int
		want    domain.CustomerSegment
	}{
		{5, 5, 5, domain.SegmentChampions},
		{4, 4, 4, domain.SegmentChampions},
		{4, 4, 3, domain.SegmentLoyalCustomers},
		{3, 3, 3, domain.SegmentLoyalCustomers},
		{5, 2, 5, domain.SegmentNewCustomers},
		{4, 1, 1, domain.SegmentNewCustomers},
		{2, 3, 1, domain.SegmentAtRisk},
		{1, 5, 5, domain.SegmentAtRisk},
		{2, 2, 5, domain.SegmentLostCustomers},
		{1, 1, 1, domain.SegmentLostCustomers},
		{3, 2, 5, domain.SegmentPotentialLoyalists},
		{3, 5, 2, domain.SegmentPotentialLoyalists},
		{5, 3, 2, domain.SegmentPotentialLoyalists},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d%d%d", tt.r, tt.f, tt.m), func(t *testing.T) {
			assert.Equal(t, tt.want, Segment(tt.r, tt.f, tt.m))
		})
	}
}

func TestSegment_AllTriplesLabeled(t *testing.T) {
	counts := make(map[domain.CustomerSegment]int)
	for r := 1; r <= 5; r++ {
		for f := 1; f <= 5; f++ {
			for m := 1; m <= 5; m++ {
				s := Segment(r, f, m)
				assert.Contains(t, domain.CustomerSegments, s)
				counts[s]++
			}
		}
	}
	assert.Len(t, counts, len(domain.CustomerSegments), "every segment is reachable")
	assert.Equal(t, 8, counts[domain.SegmentChampions])
}

func TestBuildCustomerProfiles_Warnings(t *testing.T) {
	profiles, warnings, err := BuildCustomerProfiles(twoCustomerRows(), TieBreakUniform)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "1 customers have a single transaction")
}
