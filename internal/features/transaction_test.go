package features

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"retailfx/pkg/contracts/domain"
)

func TestLineRevenue(t *testing.T) {
	tests := []struct {
		qty   int64
		price float64
		want  float64
	}{
		{6, 2.55, 15.3},
		{3, 1.1, 3.3},
		{-12, 0.29, -3.48},
		{0, 4.95, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LineRevenue(tt.qty, tt.price))
	}
}

func TestClassifyTransaction(t *testing.T) {
	r := row("C536379", "D", "14527", "United Kingdom", -1, 27.5, epoch)
	got := ClassifyTransaction(&r)

	assert.Equal(t, domain.TransactionFeatures{
		TotalPrice:       -27.5,
		Revenue:          -27.5,
		PricePerUnit:     27.5,
		IsCanceled:       true,
		QuantityCategory: domain.QuantityNegative,
		PriceCategory:    domain.PricePremium,
		TransactionSize:  domain.SizeNegative,
	}, got)
}

func TestApplyTransactionFeatures(t *testing.T) {
	rows := []domain.TransactionRow{
		row("536365", "85123A", "17850", "United Kingdom", 6, 2.55, epoch),
		row("C536383", "35004C", "15311", "United Kingdom", -1, 4.65, epoch),
		row("c536384", "22086", "18074", "United Kingdom", 12, 2.55, epoch),
	}

	canceled := ApplyTransactionFeatures(rows)

	assert.Equal(t, 1, canceled, "only an upper-case C prefix marks a cancellation")
	assert.Equal(t, 15.3, rows[0].Transaction.Revenue)
	assert.Equal(t, domain.QuantityMediumBatch, rows[0].Transaction.QuantityCategory)
	assert.Equal(t, domain.SizeMedium, rows[0].Transaction.TransactionSize)
	assert.True(t, rows[1].Transaction.IsCanceled)
	assert.False(t, rows[2].Transaction.IsCanceled)
}

func TestFillSentinels(t *testing.T) {
	rows := []domain.TransactionRow{
		{InvoiceNo: "1", StockCode: "A", Description: "", CustomerID: ""},
		{InvoiceNo: "2", StockCode: "B", Description: "MUG", CustomerID: "12346"},
		{InvoiceNo: "3", StockCode: "C", Description: "", CustomerID: "12347"},
	}

	customers, descriptions := FillSentinels(rows)

	assert.Equal(t, 1, customers)
	assert.Equal(t, 2, descriptions)
	assert.Equal(t, domain.UnknownCustomer, rows[0].CustomerID)
	assert.Equal(t, domain.UnknownDescription, rows[0].Description)
	assert.Equal(t, "MUG", rows[1].Description)
	assert.Equal(t, domain.UnknownDescription, rows[2].Description)
}
