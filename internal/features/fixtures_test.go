package features

import (
	"time"

	"retailfx/pkg/contracts/domain"
)

var epoch = time.Date(2010, time.December, 1, 8, 26, 0, 0, time.UTC)

func onDay(day int) time.Time {
	return epoch.AddDate(0, 0, day)
}

func row(invoice, stock, customer, country string, qty int64, price float64, at time.Time) domain.TransactionRow {
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

// prepared runs the row-level stages the aggregators depend on.
func prepared(rows ...domain.TransactionRow) []domain.TransactionRow {
	for i := range rows {
		rows[i].Line = i + 2
	}
	FillSentinels(rows)
	ApplyTimeFeatures(rows)
	ApplyTransactionFeatures(rows)
	return rows
}

// twoCustomerRows is C1 buying on day 0 (100) and day 36 (50), and C2 buying
// once on day 15 (200).
func twoCustomerRows() []domain.TransactionRow {
	return prepared(
		row("536365", "85123A", "C1", "United Kingdom", 10, 10, onDay(0)),
		row("536366", "71053", "C2", "France", 20, 10, onDay(15)),
		row("536367", "85123A", "C1", "United Kingdom", 5, 10, onDay(36)),
	)
}
