package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"retailfx/internal/features"
	"retailfx/pkg/contracts/domain"
)

func line(invoice, stock, customer, country string, qty int64, price float64, at time.Time) domain.TransactionRow {
	return domain.TransactionRow{
		InvoiceNo:   invoice,
		StockCode:   stock,
		Description: "ITEM " + stock,
		Quantity:    qty,
		InvoiceDate: at,
		UnitPrice:   price,
		CustomerID:  customer,
		Country:     country,
	}
}

// sampleFeatureSet runs the feature stages over a handful of lines.
func sampleFeatureSet(t *testing.T) *domain.FeatureSet {
	t.Helper()
	at := time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC)
	rows := []domain.TransactionRow{
		line("536365", "85123A", "17850", "United Kingdom", 6, 2.55, at),
		line("536365", "71053", "17850", "United Kingdom", 6, 3.39, at),
		line("536366", "85123A", "13047", "France", 8, 2.55, at.AddDate(0, 1, 3)),
		line("536367", "POST", "", "France", 1, 18, at.AddDate(0, 1, 4)),
	}
	for i := range rows {
		rows[i].Line = i + 2
	}
	features.FillSentinels(rows)
	features.ApplyTimeFeatures(rows)
	features.ApplyTransactionFeatures(rows)

	customers, _, err := features.BuildCustomerProfiles(rows, features.TieBreakUniform)
	require.NoError(t, err)
	products, _, err := features.BuildProductProfiles(rows)
	require.NoError(t, err)
	countries, err := features.BuildCountryProfiles(rows)
	require.NoError(t, err)
	require.NoError(t, features.MergeFeatures(rows, customers, products, countries))
	require.NoError(t, features.ApplyBasketCohort(rows, features.ComputeBaskets(rows), features.ComputeCohorts(rows)))

	return &domain.FeatureSet{Rows: rows, Customers: customers, Products: products, Countries: countries}
}
