package features

import (
	"strings"

	"github.com/shopspring/decimal"

	"retailfx/pkg/contracts/domain"
)

var (
	QuantityBins = BinTable[domain.QuantityCategory]{
		Name:  "QuantityCategory",
		Edges: []float64{0, 1, 5, 20},
		Labels: []domain.QuantityCategory{
			domain.QuantityNegative,
			domain.QuantitySingle,
			domain.QuantitySmallBatch,
			domain.QuantityMediumBatch,
			domain.QuantityLargeBatch,
		},
	}

	PriceBins = BinTable[domain.PriceCategory]{
		Name:  "PriceCategory",
		Edges: []float64{0, 2, 5, 20},
		Labels: []domain.PriceCategory{
			domain.PriceFreeOrReturn,
			domain.PriceLow,
			domain.PriceMedium,
			domain.PriceHigh,
			domain.PricePremium,
		},
	}

	SizeBins = BinTable[domain.TransactionSize]{
		Name:  "TransactionSize",
		Edges: []float64{0, 10, 50, 200},
		Labels: []domain.TransactionSize{
			domain.SizeNegative,
			domain.SizeSmall,
			domain.SizeMedium,
			domain.SizeLarge,
			domain.SizeXLarge,
		},
	}
)

// LineRevenue is quantity times unit price computed in decimal arithmetic.
func LineRevenue(quantity int64, unitPrice float64) float64 {
	return decimal.NewFromInt(quantity).Mul(decimal.NewFromFloat(unitPrice)).InexactFloat64()
}

// ClassifyTransaction computes the line-level transaction features.
func ClassifyTransaction(row *domain.TransactionRow) domain.TransactionFeatures {
	revenue := LineRevenue(row.Quantity, row.UnitPrice)
	return domain.TransactionFeatures{
		TotalPrice:       revenue,
		Revenue:          revenue,
		PricePerUnit:     row.UnitPrice,
		IsCanceled:       strings.HasPrefix(row.InvoiceNo, "C"),
		QuantityCategory: QuantityBins.Assign(float64(row.Quantity)),
		PriceCategory:    PriceBins.Assign(row.UnitPrice),
		TransactionSize:  SizeBins.Assign(revenue),
	}
}

// ApplyTransactionFeatures fills Transaction on every row.
func ApplyTransactionFeatures(rows []domain.TransactionRow) (canceled int) {
	for i := range rows {
		rows[i].Transaction = ClassifyTransaction(&rows[i])
		if rows[i].Transaction.IsCanceled {
			canceled++
		}
	}
	return canceled
}
